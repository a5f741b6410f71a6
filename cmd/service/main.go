// Package main runs the supplier catalog API: the public quote form and the
// staff admin API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/supplier-catalog/internal/app"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/config"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/logging"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/scheduler"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/telemetry"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newRootCommand().ExecuteContext(ctx)
}

// bootstrap loads .env and the profile's configuration, validates it and
// installs the process logger.
func bootstrap(profile string) (*config.Config, *slog.Logger, error) {
	// A .env file is optional; real environments set variables directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading .env: %w", err)
	}

	if profile == "" {
		profile = os.Getenv("APP_ENVIRONMENT")
	}

	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	return cfg, logger, nil
}

// serve runs the API until ctx is cancelled by a signal or the server fails.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("ratelimit", cfg.RateLimit.Backend),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close(context.WithoutCancel(ctx), logger)

	limiter, err := openRateLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer limiter.close(logger)

	for _, hc := range append(store.checks, limiter.checks...) {
		if err := healthRegistry.Register(hc); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	notifier, err := buildNotifier(cfg, logger, healthRegistry)
	if err != nil {
		return err
	}

	intakeMetrics, err := telemetry.NewIntakeMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering intake metrics: %w", err)
	}

	dispatcher := app.NewNotificationDispatcher(app.NotificationConfig{
		Notifier:         notifier,
		Repository:       store.quotes,
		StaffRecipients:  cfg.Intake.StaffRecipients,
		ConfirmRequester: cfg.Intake.ConfirmRequester,
		Timeout:          cfg.Intake.NotifyTimeout,
		Metrics:          intakeMetrics,
		Logger:           logger,
	})

	intakeService := app.NewIntakeService(app.IntakeServiceConfig{
		Repository:    store.quotes,
		RateLimiter:   limiter.store,
		Notifications: dispatcher,
		Gate:          gateConfig(cfg.Intake),
		Metrics:       intakeMetrics,
		Logger:        logger,
	})

	adminService := app.NewAdminService(app.AdminServiceConfig{
		Repository:    store.quotes,
		Notifications: dispatcher,
		Logger:        logger,
	})

	authService := newAuthService(cfg, store.admins, logger)

	if err := authService.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}

	var throttler *middleware.Throttler
	if cfg.Throttle.Enabled {
		throttler = middleware.NewThrottler(middleware.ThrottleConfig{
			RPS:        cfg.Throttle.RPS,
			Burst:      cfg.Throttle.Burst,
			IdleTTL:    cfg.Throttle.IdleTTL,
			TrustProxy: cfg.Intake.TrustProxy,
		})
	}

	jobs, err := scheduler.New(logger, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	if err := scheduleJobs(jobs, cfg, store.quotes, notifier, limiter.memory, throttler, logger); err != nil {
		return err
	}

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		ServiceName:   cfg.App.Name,
		Health:        handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime), nil),
		Intake:        handlers.NewIntakeHandler(intakeService, cfg.Intake.TrustProxy, cfg.Intake.RateLimitWindow),
		Admin:         handlers.NewAdminHandler(adminService, authService),
		Authenticator: authService,
		Throttler:     throttler,
		CORSOrigins:   cfg.CORS.AllowedOrigins,
		CORSMaxAge:    cfg.CORS.MaxAge,
		Timeout:       cfg.Server.RequestTimeout,
	})

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	jobs.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout, jobs, intakeService)
}

// waitForShutdown blocks until ctx ends or the server fails, then stops the
// server, the scheduler and pending notifications, in that order.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
	jobs *scheduler.Scheduler,
	intake *app.IntakeService,
) error {
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("received shutdown signal", slog.Any("cause", context.Cause(ctx)))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	var errs []error

	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	if err := jobs.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("stopping jobs: %w", err))
	}

	// Notifications already dispatched get the rest of the shutdown budget.
	drained := make(chan struct{})
	go func() {
		intake.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-shutdownCtx.Done():
		errs = append(errs, fmt.Errorf("pending notifications: %w", shutdownCtx.Err()))
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}
