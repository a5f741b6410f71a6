package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// DigestJobConfig holds the dependencies of DigestJob.
type DigestJobConfig struct {
	Repository      ports.QuoteRepository
	Sender          ports.DigestSender
	StaffRecipients []string

	// StaleAfter is how long a request may stay new before it is listed.
	StaleAfter time.Duration
	Limit      int
	Clock      func() time.Time
	Logger     *slog.Logger
}

// DigestJob emails staff the requests nobody has picked up yet.
type DigestJob struct {
	repo       ports.QuoteRepository
	sender     ports.DigestSender
	recipients []domain.Recipient
	staleAfter time.Duration
	limit      int
	now        func() time.Time
	logger     *slog.Logger
}

// NewDigestJob creates the digest job.
func NewDigestJob(cfg DigestJobConfig) *DigestJob {
	j := &DigestJob{
		repo:       cfg.Repository,
		sender:     cfg.Sender,
		recipients: domain.StaffRecipients(cfg.StaffRecipients),
		staleAfter: cfg.StaleAfter,
		limit:      cfg.Limit,
		now:        cfg.Clock,
		logger:     cfg.Logger,
	}

	if j.staleAfter <= 0 {
		j.staleAfter = 24 * time.Hour
	}

	if j.limit <= 0 {
		j.limit = 100
	}

	if j.now == nil {
		j.now = time.Now
	}

	if j.logger == nil {
		j.logger = slog.Default()
	}

	j.logger = j.logger.With(slog.String("component", "app.DigestJob"))

	return j
}

// Run sends one digest. It does nothing when there is nothing pending.
func (j *DigestJob) Run(ctx context.Context) error {
	before := j.now().UTC().Add(-j.staleAfter)

	pending, err := j.repo.ListStale(ctx, domain.StatusNew, before, j.limit)
	if err != nil {
		return fmt.Errorf("listing stale quote requests: %w", err)
	}

	if len(pending) == 0 {
		j.logger.DebugContext(ctx, "no stale quote requests")
		return nil
	}

	if err := j.sender.SendDigest(ctx, pending, j.recipients); err != nil {
		return fmt.Errorf("sending digest: %w", err)
	}

	j.logger.InfoContext(ctx, "stale quote digest sent", slog.Int("pending", len(pending)))

	return nil
}
