package watcher

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	telemetryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_fetch_failures_total",
			Help: "Failed telemetry field fetches",
		},
		[]string{"field"},
	)

	alertsRaised = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threshold_alerts_raised_total",
			Help: "Alerts raised by threshold evaluation",
		},
		[]string{"field"},
	)

	alertsSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threshold_alerts_suppressed_total",
			Help: "Alerts suppressed because the condition is already outstanding",
		},
		[]string{"field"},
	)

	lastReading = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "telemetry_last_reading",
			Help: "Last reading seen per telemetry field",
		},
		[]string{"field"},
	)
)

func init() {
	prometheus.MustRegister(telemetryFailures)
	prometheus.MustRegister(alertsRaised)
	prometheus.MustRegister(alertsSuppressed)
	prometheus.MustRegister(lastReading)
}

func fieldLabel(field int) string {
	return strconv.Itoa(field)
}
