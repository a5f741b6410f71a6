package telemetry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// IntakeMetrics counts quote submissions and notification deliveries.
// Exposed on the Prometheus scrape endpoint.
type IntakeMetrics struct {
	outcomes      *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewIntakeMetrics registers the intake collectors on reg. Registering twice on
// the same registry reuses the existing collectors.
func NewIntakeMetrics(reg prometheus.Registerer) (*IntakeMetrics, error) {
	outcomes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Subsystem: "quote_intake",
		Name:      "submissions_total",
		Help:      "Quote submissions by outcome and rejection reason.",
	}, []string{"outcome", "reason"}))
	if err != nil {
		return nil, err
	}

	notifications, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Subsystem: "quote_intake",
		Name:      "notifications_total",
		Help:      "Quote notification attempts by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	return &IntakeMetrics{outcomes: outcomes, notifications: notifications}, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}

		return nil, err
	}

	return c, nil
}

// RecordOutcome counts one submission. Nil receivers are no-ops.
func (m *IntakeMetrics) RecordOutcome(outcome, reason string) {
	if m == nil {
		return
	}

	m.outcomes.WithLabelValues(outcome, reason).Inc()
}

// RecordNotification counts one delivery attempt.
func (m *IntakeMetrics) RecordNotification(err error) {
	if m == nil {
		return
	}

	result := "sent"
	if err != nil {
		result = "failed"
	}

	m.notifications.WithLabelValues(result).Inc()
}
