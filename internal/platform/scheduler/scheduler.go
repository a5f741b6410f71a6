// Package scheduler runs background jobs on cron schedules in UTC.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// JobFunc is one run of a job. The context is cancelled on Stop or when the
// job's timeout expires.
type JobFunc func(ctx context.Context) error

// Scheduler wraps cron with per-run timeouts, overlap protection, panic
// recovery and run counters.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	runs   *prometheus.CounterVec

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs map[string]cron.Job
}

// New creates a stopped Scheduler. reg may be nil.
func New(logger *slog.Logger, reg prometheus.Registerer) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "scheduler"))

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_job_runs_total",
		Help: "Background job runs by job and result.",
	}, []string{"job", "result"})

	if reg != nil {
		if err := reg.Register(runs); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, fmt.Errorf("registering job metrics: %w", err)
			}

			runs = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger{logger: logger}),
		),
		logger: logger,
		runs:   runs,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]cron.Job),
	}, nil
}

// Add schedules fn under name. schedule is a standard five-field cron expression
// or a descriptor such as "@hourly" or "@every 5m". A run that would start
// while the previous one is still going is skipped.
func (s *Scheduler) Add(name, schedule string, timeout time.Duration, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("scheduler: job %q already registered", name)
	}

	cl := cronLogger{logger: s.logger.With(slog.String("job", name))}
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(s.wrap(name, timeout, fn))

	if _, err := s.cron.AddJob(schedule, job); err != nil {
		return fmt.Errorf("scheduler: job %q: invalid schedule %q: %w", name, schedule, err)
	}

	s.jobs[name] = job

	s.logger.Info("job scheduled", slog.String("job", name), slog.String("schedule", schedule))

	return nil
}

// Trigger runs a registered job now, on the caller's goroutine. The
// overlap guard and panic recovery still apply.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", name)
	}

	job.Run()

	return nil
}

// Start runs the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling, cancels running jobs and waits for them until ctx
// expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for jobs: %w", ctx.Err())
	}
}

func (s *Scheduler) wrap(name string, timeout time.Duration, fn JobFunc) cron.Job {
	return cron.FuncJob(func() {
		ctx := s.ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		err := fn(ctx)
		elapsed := time.Since(start)

		if err != nil {
			s.runs.WithLabelValues(name, "error").Inc()
			s.logger.ErrorContext(ctx, "job failed",
				slog.String("job", name),
				slog.Duration("duration", elapsed),
				slog.String("error", err.Error()),
			)

			return
		}

		s.runs.WithLabelValues(name, "success").Inc()
		s.logger.DebugContext(ctx, "job finished", slog.String("job", name), slog.Duration("duration", elapsed))
	})
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
