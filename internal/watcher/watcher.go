package watcher

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chemwatch/chemwatch/internal/domain"
)

// FieldReader is the read-only telemetry call, one field per fetch.
type FieldReader interface {
	LastFieldValue(ctx context.Context, field int) (float64, error)
}

// AlertSink is the slice of the alert service the watcher needs.
type AlertSink interface {
	List(ctx context.Context) ([]domain.Alert, error)
	Create(ctx context.Context, description, at string) (*domain.Alert, error)
}

// Watcher polls the telemetry provider on a fixed cadence and raises a
// deduplicated alert per rule whose reading crosses the calibrated limit.
type Watcher struct {
	reader   FieldReader
	alerts   AlertSink
	rules    []domain.ThresholdRule
	interval time.Duration
}

func NewWatcher(reader FieldReader, alerts AlertSink, rules []domain.ThresholdRule, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 7 * time.Second
	}
	if len(rules) == 0 {
		rules = domain.DefaultRules()
	}
	return &Watcher{
		reader:   reader,
		alerts:   alerts,
		rules:    rules,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled. One cycle fires immediately, then
// one per tick.
func (w *Watcher) Run(ctx context.Context) {
	logrus.WithFields(logrus.Fields{
		"interval": w.interval,
		"rules":    len(w.rules),
	}).Info("WATCHER:STARTED")

	w.EvaluateOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logrus.Info("WATCHER:STOPPED")
			return
		case <-ticker.C:
			w.EvaluateOnce(ctx)
		}
	}
}

// EvaluateOnce runs a single poll cycle. The open-alert snapshot is taken
// once up front; alerts created during the cycle are tracked locally so
// two rules sharing a message still dedup against each other. A failed
// fetch skips that rule only, the cycle always finishes the rest.
func (w *Watcher) EvaluateOnce(ctx context.Context) {
	open, err := w.alerts.List(ctx)
	if err != nil {
		logrus.Errorf("watcher: unable to list open alerts, skipping cycle: %v", err)
		return
	}

	openCount := map[string]int{}
	for _, a := range open {
		openCount[a.Description]++
	}

	for _, rule := range w.rules {
		reading, err := w.reader.LastFieldValue(ctx, rule.Field)
		if err != nil {
			telemetryFailures.WithLabelValues(fieldLabel(rule.Field)).Inc()
			logrus.WithFields(logrus.Fields{
				"field": rule.Field,
			}).Warnf("watcher: telemetry fetch failed: %v", err)
			continue
		}
		lastReading.WithLabelValues(fieldLabel(rule.Field)).Set(reading)

		if !rule.Triggered(reading) {
			continue
		}

		if openCount[rule.Message] > 0 {
			alertsSuppressed.WithLabelValues(fieldLabel(rule.Field)).Inc()
			continue
		}

		if _, err := w.alerts.Create(ctx, rule.Message, ""); err != nil {
			logrus.Errorf("watcher: unable to create alert for field %d: %v", rule.Field, err)
			continue
		}
		openCount[rule.Message]++
		alertsRaised.WithLabelValues(fieldLabel(rule.Field)).Inc()
		logrus.WithFields(logrus.Fields{
			"field":   rule.Field,
			"reading": reading,
			"limit":   rule.Limit,
		}).Info("WATCHER:ALERT_RAISED")
	}
}
