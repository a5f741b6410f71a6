package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/auth"
	"github.com/jsamuelsen/supplier-catalog/internal/app"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/config"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// newRootCommand builds the CLI. Without a subcommand it serves the API.
func newRootCommand() *cobra.Command {
	var profile string

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Supplier catalog API: public quote intake and the staff admin API",
		Version:       fmt.Sprintf("%s (%s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, profile)
		},
	}

	root.PersistentFlags().StringVarP(&profile, "profile", "p", "",
		"config profile, loads configs/<profile>.yaml (default $APP_ENVIRONMENT or local)")

	root.AddCommand(
		serveCommand(&profile),
		configCommand(&profile),
		migrateCommand(&profile),
		seedAdminCommand(&profile),
		digestCommand(&profile),
	)

	return root
}

func runServe(cmd *cobra.Command, profile string) error {
	cfg, logger, err := bootstrap(profile)
	if err != nil {
		return err
	}

	return serve(cmd.Context(), cfg, logger)
}

func serveCommand(profile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run scheduled jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, *profile)
		},
	}
}

func configCommand(profile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration, then print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := bootstrap(*profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config ok (environment %s)\n", cfg.App.Environment)
			fmt.Fprintf(out, "  storage:    %s\n", cfg.Storage.Driver)
			fmt.Fprintf(out, "  rate limit: %s, %d per %s\n", cfg.RateLimit.Backend, cfg.Intake.RateLimitMax, cfg.Intake.RateLimitWindow)
			fmt.Fprintf(out, "  quota:      %d per email per UTC day\n", cfg.Intake.QuotaPerDayMax)
			fmt.Fprintf(out, "  timing:     %s to %s\n", cfg.Intake.MinElapsed, cfg.Intake.MaxElapsed)
			fmt.Fprintf(out, "  duplicates: %s\n", cfg.Intake.DuplicateWindow)
			fmt.Fprintf(out, "  smtp:       %t, webhook: %t, digest: %t\n", cfg.SMTP.Enabled, cfg.Webhook.Enabled, cfg.Jobs.Digest.Enabled)

			return nil
		},
	})

	return cmd
}

// migrateCommand creates tables or indexes and exits. Opening the store is
// what migrates it, so this forces AutoMigrate on.
func migrateCommand(profile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the store schema and unique indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(*profile)
			if err != nil {
				return err
			}

			if cfg.Storage.Driver == config.StorageMemory {
				fmt.Fprintln(cmd.OutOrStdout(), "memory storage has no schema; nothing to migrate")
				return nil
			}

			cfg.Postgres.AutoMigrate = true

			store, err := openStorage(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.close(context.WithoutCancel(cmd.Context()), logger)

			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.Storage.Driver)

			return nil
		},
	}
}

func seedAdminCommand(profile *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account unless it already exists",
		Long: "Creates the admin account from admin.email and admin.password, or from --email\n" +
			"with the password read from APP_ADMIN_PASSWORD. Existing accounts are left untouched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(*profile)
			if err != nil {
				return err
			}

			password := cfg.Admin.Password
			if email == "" {
				email = cfg.Admin.Email
			} else if env := os.Getenv("APP_ADMIN_PASSWORD"); env != "" {
				password = env
			}

			if email == "" || password == "" {
				return fmt.Errorf("seed-admin: an email and a password are required")
			}

			store, err := openStorage(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.close(context.WithoutCancel(cmd.Context()), logger)

			if err := newAuthService(cfg, store.admins, logger).SeedAdmin(cmd.Context(), email, password); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %s is present\n", email)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email (default admin.email)")

	return cmd
}

// digestCommand sends the stale-request digest once, for cron-less deploys
// and for checking the mail setup.
func digestCommand(profile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Send the stale quote request digest now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(*profile)
			if err != nil {
				return err
			}

			if len(cfg.Intake.StaffRecipients) == 0 {
				return fmt.Errorf("digest: intake.staff_recipients is empty")
			}

			store, err := openStorage(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.close(context.WithoutCancel(cmd.Context()), logger)

			sender, err := buildNotifier(cfg, logger, ports.NewHealthRegistry())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Intake.NotifyTimeout)
			defer cancel()

			return app.NewDigestJob(app.DigestJobConfig{
				Repository:      store.quotes,
				Sender:          sender,
				StaffRecipients: cfg.Intake.StaffRecipients,
				StaleAfter:      cfg.Jobs.Digest.StaleAfter,
				Limit:           cfg.Jobs.Digest.Limit,
				Logger:          logger,
			}).Run(ctx)
		},
	}
}

func newAuthService(cfg *config.Config, admins ports.AdminRepository, logger *slog.Logger) *app.AuthService {
	return app.NewAuthService(app.AuthServiceConfig{
		Admins: admins,
		Hasher: auth.NewBcryptHasher(0),
		Tokens: auth.NewTokenManager(auth.TokenConfig{
			Secret: cfg.Auth.JWT.Secret,
			Issuer: cfg.Auth.JWT.Issuer,
			TTL:    cfg.Auth.JWT.TTL,
		}),
		Logger: logger,
	})
}
