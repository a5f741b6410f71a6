// Package postgres stores quote requests and admin accounts in PostgreSQL
// through GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Driver names accepted by Config.DriverName.
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// Config configures the PostgreSQL connection.
type Config struct {
	DSN string

	// DriverName selects the database/sql driver. Empty means DriverPQ.
	DriverName string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// AutoMigrate creates or updates the tables and indexes on Open.
	AutoMigrate bool

	Logger *slog.Logger
}

// Store owns the GORM handle and hands out repositories.
type Store struct {
	db *gorm.DB
}

// Open connects, configures the pool and optionally migrates the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres: dsn is required")
	}

	driver := cfg.DriverName
	if driver == "" {
		driver = DriverPQ
	}

	dialector := gormpostgres.New(gormpostgres.Config{
		DriverName: driverFor(driver),
		DSN:        cfg.DSN,
	})

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(slogWriter{log: log.With(slog.String("component", "postgres"))}, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: opening: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: underlying sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	s := &Store{db: db}

	if cfg.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	return s, nil
}

// driverFor maps DriverPGX to the name the pgx stdlib driver registers; GORM
// uses pgx when DriverName is empty.
func driverFor(name string) string {
	if name == DriverPGX {
		return ""
	}

	return name
}

// Migrate creates the tables, including the unique (email, phone, submission_day) index.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&quoteRow{}, &noteRow{}, &adminRow{}); err != nil {
		return fmt.Errorf("postgres: migrating: %w", err)
	}

	return nil
}

// Quotes returns the quote repository.
func (s *Store) Quotes() *QuoteRepository {
	return &QuoteRepository{db: s.db}
}

// Admins returns the admin repository.
func (s *Store) Admins() *AdminRepository {
	return &AdminRepository{db: s.db}
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// slogWriter routes GORM's slow-query and error lines to slog.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// isUniqueViolation recognizes unique_violation from either driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	return false
}
