package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// DefaultNotifyTimeout bounds a single delivery attempt.
const DefaultNotifyTimeout = 10 * time.Second

// bookkeepingTimeout bounds the write of a delivery outcome, which runs after
// the delivery context may already have expired.
const bookkeepingTimeout = 5 * time.Second

// MetricsRecorder receives intake counters. telemetry.IntakeMetrics implements it.
type MetricsRecorder interface {
	RecordOutcome(outcome, reason string)
	RecordNotification(err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordOutcome(string, string) {}
func (noopMetrics) RecordNotification(error)     {}

// NotificationConfig configures a NotificationDispatcher.
type NotificationConfig struct {
	Notifier   ports.Notifier
	Repository ports.QuoteRepository

	// StaffRecipients receive the new-request alert.
	StaffRecipients []string

	// ConfirmRequester also sends a confirmation to the requester's email.
	ConfirmRequester bool

	Timeout time.Duration
	Metrics MetricsRecorder
	Clock   func() time.Time
	Logger  *slog.Logger
}

// NotificationDispatcher delivers quote alerts outside the request path and
// records each outcome on the quote row. Delivery failures never propagate
// to the submitter.
type NotificationDispatcher struct {
	notifier         ports.Notifier
	repo             ports.QuoteRepository
	staff            []string
	confirmRequester bool
	timeout          time.Duration
	metrics          MetricsRecorder
	now              func() time.Time
	logger           *slog.Logger
	wg               sync.WaitGroup
}

// NewNotificationDispatcher creates a dispatcher. It panics if Notifier or
// Repository is nil.
func NewNotificationDispatcher(cfg NotificationConfig) *NotificationDispatcher {
	if cfg.Notifier == nil {
		panic("app: NotificationConfig.Notifier is required")
	}

	if cfg.Repository == nil {
		panic("app: NotificationConfig.Repository is required")
	}

	d := &NotificationDispatcher{
		notifier:         cfg.Notifier,
		repo:             cfg.Repository,
		staff:            append([]string(nil), cfg.StaffRecipients...),
		confirmRequester: cfg.ConfirmRequester,
		timeout:          cfg.Timeout,
		metrics:          cfg.Metrics,
		now:              cfg.Clock,
		logger:           cfg.Logger,
	}

	if d.timeout <= 0 {
		d.timeout = DefaultNotifyTimeout
	}

	if d.metrics == nil {
		d.metrics = noopMetrics{}
	}

	if d.now == nil {
		d.now = time.Now
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	d.logger = d.logger.With(slog.String("component", "app.NotificationDispatcher"))

	return d
}

// Recipients returns the targets for q.
func (d *NotificationDispatcher) Recipients(q *domain.QuoteRequest) []domain.Recipient {
	recipients := domain.StaffRecipients(d.staff)
	if d.confirmRequester && q.Email != "" {
		recipients = append(recipients, domain.Recipient{Address: q.Email, Kind: domain.RecipientRequester})
	}

	return recipients
}

// Dispatch starts an asynchronous delivery for q and returns immediately.
// The delivery keeps the values of ctx (logger, trace) but not its
// cancellation, so it outlives the HTTP request.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, q *domain.QuoteRequest) {
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.ErrorContext(detached, "notifier panicked",
					slog.String("quote_id", q.ID),
					slog.Any("panic", r),
				)
			}
		}()

		_ = d.Deliver(detached, q)
	}()
}

// Deliver sends the alert for q synchronously, bounded by the dispatcher timeout,
// records the outcome on the quote and returns the delivery error.
func (d *NotificationDispatcher) Deliver(ctx context.Context, q *domain.QuoteRequest) error {
	recipients := d.Recipients(q)
	if len(recipients) == 0 {
		d.logger.DebugContext(ctx, "no notification recipients configured", slog.String("quote_id", q.ID))
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	err := d.notifier.Notify(sendCtx, q, recipients)
	cancel()

	d.metrics.RecordNotification(err)

	addresses := make([]string, len(recipients))
	for i, r := range recipients {
		addresses[i] = r.Address
	}

	if err != nil {
		d.logger.ErrorContext(ctx, "quote notification failed",
			slog.String("quote_id", q.ID),
			slog.Any("recipients", addresses),
			slog.String("error", err.Error()),
		)
	} else {
		d.logger.InfoContext(ctx, "quote notification sent",
			slog.String("quote_id", q.ID),
			slog.Int("recipients", len(addresses)),
		)
	}

	recordCtx, cancelRecord := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
	defer cancelRecord()

	if recErr := d.repo.RecordNotification(recordCtx, q.ID, d.now().UTC(), err); recErr != nil {
		d.logger.WarnContext(ctx, "recording notification outcome failed",
			slog.String("quote_id", q.ID),
			slog.String("error", recErr.Error()),
		)
	}

	if err != nil {
		return fmt.Errorf("notifying quote %s: %w", q.ID, err)
	}

	return nil
}

// Wait blocks until every dispatched delivery has finished.
func (d *NotificationDispatcher) Wait() {
	d.wg.Wait()
}
