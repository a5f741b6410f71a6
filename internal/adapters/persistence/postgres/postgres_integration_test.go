//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/persistence/repotest"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// open migrates and empties the database; tests skip without APP_POSTGRES_DSN.
func open(t *testing.T, driver string) *Store {
	t.Helper()

	dsn := os.Getenv("APP_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("APP_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s, err := Open(ctx, Config{
		DSN:         dsn,
		DriverName:  driver,
		AutoMigrate: true,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	require.NoError(t, s.db.WithContext(ctx).Exec("TRUNCATE quote_notes, quote_requests, admin_users").Error)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestQuoteRepository_Contract(t *testing.T) {
	for _, driver := range []string{DriverPQ, DriverPGX} {
		t.Run(driver, func(t *testing.T) {
			repotest.RunQuoteRepository(t, func(t *testing.T) ports.QuoteRepository {
				return open(t, driver).Quotes()
			})
		})
	}
}

func TestAdminRepository_Contract(t *testing.T) {
	repotest.RunAdminRepository(t, open(t, DriverPQ).Admins())
}

func TestStore_Ping(t *testing.T) {
	s := open(t, DriverPGX)
	require.NoError(t, s.Ping(context.Background()))
}
