package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/clients"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/notify"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/persistence/memory"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/persistence/mongodb"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/persistence/postgres"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/ratelimit"
	"github.com/jsamuelsen/supplier-catalog/internal/app"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/config"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/scheduler"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// storage is the selected quote store.
type storage struct {
	quotes ports.QuoteRepository
	admins ports.AdminRepository
	checks []ports.HealthChecker
	closer func(context.Context) error
}

func (s *storage) close(ctx context.Context, logger *slog.Logger) {
	if s.closer == nil {
		return
	}

	if err := s.closer(ctx); err != nil {
		logger.Error("closing storage", slog.Any("error", err))
	}
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		st, err := mongodb.Connect(ctx, mongodb.Config{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}

		return &storage{
			quotes: st.Quotes(),
			admins: st.Admins(),
			checks: []ports.HealthChecker{ports.HealthCheckFunc{CheckerName: "mongodb", Fn: st.Ping}},
			closer: st.Close,
		}, nil

	case config.StoragePostgres:
		st, err := postgres.Open(ctx, postgres.Config{
			DSN:             cfg.Postgres.DSN,
			DriverName:      cfg.Postgres.Driver,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
			AutoMigrate:     cfg.Postgres.AutoMigrate,
			Logger:          logger,
		})
		if err != nil {
			return nil, err
		}

		return &storage{
			quotes: st.Quotes(),
			admins: st.Admins(),
			checks: []ports.HealthChecker{ports.HealthCheckFunc{CheckerName: "postgres", Fn: st.Ping}},
			closer: func(context.Context) error { return st.Close() },
		}, nil

	default:
		logger.Warn("using in-memory storage; quote requests are lost on restart")

		return &storage{
			quotes: memory.NewQuoteRepository(),
			admins: memory.NewAdminRepository(),
		}, nil
	}
}

// rateLimiter is the selected counter store. memory is set only for the
// in-process backend, which needs the janitor.
type rateLimiter struct {
	store  ports.RateLimitStore
	memory *ratelimit.MemoryStore
	checks []ports.HealthChecker
	client *redis.Client
}

func (r *rateLimiter) close(logger *slog.Logger) {
	if r.client == nil {
		return
	}

	if err := r.client.Close(); err != nil {
		logger.Error("closing redis client", slog.Any("error", err))
	}
}

func openRateLimiter(ctx context.Context, cfg *config.Config) (*rateLimiter, error) {
	if cfg.RateLimit.Backend != config.RateLimitRedis {
		mem := ratelimit.NewMemoryStore()
		return &rateLimiter{store: mem, memory: mem}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	st := ratelimit.NewRedisStore(client, ratelimit.WithPrefix(cfg.Redis.KeyPrefix))

	if err := st.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Redis.Addr, err)
	}

	return &rateLimiter{
		store:  st,
		checks: []ports.HealthChecker{ports.HealthCheckFunc{CheckerName: "redis", Fn: st.Ping}},
		client: client,
	}, nil
}

// buildNotifier fans out to every enabled channel. With none enabled,
// alerts are dropped and only logged.
func buildNotifier(cfg *config.Config, logger *slog.Logger, health ports.HealthRegistry) (notify.Channel, error) {
	var channels []notify.Channel

	if cfg.SMTP.Enabled {
		email, err := notify.NewEmailNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		}, logger)
		if err != nil {
			return nil, err
		}

		channels = append(channels, email)
	}

	if cfg.Webhook.Enabled {
		client, err := clients.New(clients.Config{
			Name:      cfg.Webhook.Name,
			Timeout:   cfg.Client.Timeout,
			Retry:     cfg.Client.Retry,
			Circuit:   cfg.Client.CircuitBreaker,
			Transport: cfg.Client.Transport,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating webhook client: %w", err)
		}

		webhook := notify.NewWebhookNotifier(client, cfg.Webhook.URL, logger)
		if err := health.Register(webhook); err != nil {
			return nil, fmt.Errorf("registering webhook health check: %w", err)
		}

		channels = append(channels, webhook)
	}

	if len(channels) == 0 {
		logger.Warn("no notification channel enabled; new quote requests will not be announced")
		return notify.Noop{}, nil
	}

	return notify.NewMulti(channels...), nil
}

func scheduleJobs(
	jobs *scheduler.Scheduler,
	cfg *config.Config,
	quotes ports.QuoteRepository,
	sender ports.DigestSender,
	counters *ratelimit.MemoryStore,
	throttler *middleware.Throttler,
	logger *slog.Logger,
) error {
	if counters != nil || throttler != nil {
		err := jobs.Add("janitor", cfg.Jobs.Janitor.Schedule, 0, func(ctx context.Context) error {
			var windows, idle int
			if counters != nil {
				windows = counters.Sweep()
			}

			if throttler != nil {
				idle = throttler.Sweep()
			}

			logger.DebugContext(ctx, "janitor swept",
				slog.Int("rate_limit_windows", windows),
				slog.Int("throttle_clients", idle),
			)

			return nil
		})
		if err != nil {
			return err
		}
	}

	if !cfg.Jobs.Digest.Enabled {
		return nil
	}

	digest := app.NewDigestJob(app.DigestJobConfig{
		Repository:      quotes,
		Sender:          sender,
		StaffRecipients: cfg.Intake.StaffRecipients,
		StaleAfter:      cfg.Jobs.Digest.StaleAfter,
		Limit:           cfg.Jobs.Digest.Limit,
		Logger:          logger,
	})

	return jobs.Add("digest", cfg.Jobs.Digest.Schedule, cfg.Intake.NotifyTimeout, digest.Run)
}

// gateConfig converts the intake settings into the service's thresholds.
func gateConfig(c config.IntakeConfig) app.GateConfig {
	return app.GateConfig{
		RateLimitWindow: c.RateLimitWindow,
		RateLimitMax:    c.RateLimitMax,
		QuotaPerDayMax:  c.QuotaPerDayMax,
		MinElapsed:      c.MinElapsed,
		MaxElapsed:      c.MaxElapsed,
		DuplicateWindow: c.DuplicateWindow,
	}
}
