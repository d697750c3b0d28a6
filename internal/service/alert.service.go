package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chemwatch/chemwatch/internal/domain"
	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

type AlertStore interface {
	Insert(ctx context.Context, alert *domain.Alert) (int, error)
	List(ctx context.Context) ([]domain.Alert, error)
	Delete(ctx context.Context, id int) error
}

// AlertNotifier pushes alert lifecycle events to live subscribers
// (the dashboard WebSocket feed).
type AlertNotifier interface {
	AlertCreated(alert domain.Alert)
	AlertResolved(id int)
}

type AlertService struct {
	alerts   AlertStore
	notifier AlertNotifier
}

func NewAlertService(alerts AlertStore) *AlertService {
	return &AlertService{
		alerts: alerts,
	}
}

func (s *AlertService) AddNotifier(n AlertNotifier) *AlertService {
	s.notifier = n
	return s
}

func (s *AlertService) Create(ctx context.Context, description, at string) (*domain.Alert, error) {
	if description == "" {
		return nil, pkgerrors.NewValidationError("alert description is required")
	}

	alert := domain.NewAlert(description, at)
	id, err := s.alerts.Insert(ctx, alert)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"alertID":     id,
		"description": alert.Description,
	}).Info("ALERT:CREATED")

	if s.notifier != nil {
		s.notifier.AlertCreated(*alert)
	}
	return alert, nil
}

func (s *AlertService) List(ctx context.Context) ([]domain.Alert, error) {
	return s.alerts.List(ctx)
}

// Resolve deletes the alert. A missing id is a not-found, callers that
// want idempotent resolve can treat that as success.
func (s *AlertService) Resolve(ctx context.Context, id int) error {
	if err := s.alerts.Delete(ctx, id); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"alertID": id,
	}).Info("ALERT:RESOLVED")

	if s.notifier != nil {
		s.notifier.AlertResolved(id)
	}
	return nil
}
