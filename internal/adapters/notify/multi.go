package notify

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// Channel is a notifier that can also send the staff digest.
type Channel interface {
	ports.Notifier
	ports.DigestSender
}

// Multi delivers through every channel concurrently. A channel failure does
// not stop the others; the errors are joined.
type Multi struct {
	channels []Channel
}

// NewMulti creates a fan-out over channels. Nil channels are skipped.
func NewMulti(channels ...Channel) *Multi {
	m := &Multi{}

	for _, c := range channels {
		if c != nil {
			m.channels = append(m.channels, c)
		}
	}

	return m
}

// Len returns the number of channels.
func (m *Multi) Len() int {
	return len(m.channels)
}

// Notify implements ports.Notifier.
func (m *Multi) Notify(ctx context.Context, q *domain.QuoteRequest, recipients []domain.Recipient) error {
	return m.each(ctx, func(ctx context.Context, c Channel) error {
		return c.Notify(ctx, q, recipients)
	})
}

// SendDigest implements ports.DigestSender.
func (m *Multi) SendDigest(ctx context.Context, pending []*domain.QuoteRequest, recipients []domain.Recipient) error {
	return m.each(ctx, func(ctx context.Context, c Channel) error {
		return c.SendDigest(ctx, pending, recipients)
	})
}

func (m *Multi) each(ctx context.Context, fn func(context.Context, Channel) error) error {
	errs := make([]error, len(m.channels))

	// The group context is not used: one failing channel must not cancel the rest.
	var g errgroup.Group

	for i, c := range m.channels {
		g.Go(func() error {
			if err := fn(ctx, c); err != nil {
				errs[i] = fmt.Errorf("channel %d: %w", i, err)
			}

			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(errs...)
}

// Noop discards notifications. It is used when no channel is configured.
type Noop struct{}

// Notify implements ports.Notifier.
func (Noop) Notify(context.Context, *domain.QuoteRequest, []domain.Recipient) error { return nil }

// SendDigest implements ports.DigestSender.
func (Noop) SendDigest(context.Context, []*domain.QuoteRequest, []domain.Recipient) error {
	return nil
}

var (
	_ Channel = (*EmailNotifier)(nil)
	_ Channel = (*WebhookNotifier)(nil)
	_ Channel = (*Multi)(nil)
	_ Channel = Noop{}
)
