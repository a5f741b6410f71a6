// Package config loads the service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServiceName = "supplier-catalog"

	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize caps request bodies at 64KB; a quote form is a few hundred bytes.
	DefaultMaxRequestSize = 64 << 10

	// Intake gate defaults.
	DefaultRateLimitWindow = time.Hour
	DefaultRateLimitMax    = 5
	DefaultQuotaPerDayMax  = 5
	DefaultMinElapsed      = 1500 * time.Millisecond
	DefaultMaxElapsed      = time.Hour
	DefaultDuplicateWindow = 10 * time.Minute
	DefaultNotifyTimeout   = 10 * time.Second

	// Token-bucket throttle in front of the public API.
	DefaultThrottleRPS   = 2.0
	DefaultThrottleBurst = 10

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	DefaultPostgresMaxOpenConns = 50
	DefaultPostgresMaxIdleConns = 10
	DefaultSMTPPort             = 587
	DefaultDigestLimit          = 100
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
)

// Rate-limit backends.
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"      validate:"required"`
	Admin     AdminConfig     `koanf:"admin"`
	Intake    IntakeConfig    `koanf:"intake"    validate:"required"`
	Throttle  ThrottleConfig  `koanf:"throttle"`
	CORS      CORSConfig      `koanf:"cors"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	RateLimit RateLimitConfig `koanf:"ratelimit" validate:"required"`
	Redis     RedisConfig     `koanf:"redis"`
	SMTP      SMTPConfig      `koanf:"smtp"`
	Webhook   WebhookConfig   `koanf:"webhook"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Jobs      JobsConfig      `koanf:"jobs"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig contains admin API authentication settings.
type AuthConfig struct {
	JWT JWTConfig `koanf:"jwt" validate:"required"`
}

// JWTConfig configures HS256 access tokens.
type JWTConfig struct {
	Secret string        `koanf:"secret" validate:"required,min=32"`
	Issuer string        `koanf:"issuer" validate:"required"`
	TTL    time.Duration `koanf:"ttl"    validate:"required,min=1m"`
}

// AdminConfig seeds the initial staff account. Seeding is skipped when Email is empty.
type AdminConfig struct {
	Email    string `koanf:"email"    validate:"omitempty,email"`
	Password string `koanf:"password" validate:"required_with=Email,omitempty,min=12"`
}

// IntakeConfig holds the anti-abuse gate settings and notification policy.
type IntakeConfig struct {
	RateLimitWindow  time.Duration `koanf:"rate_limit_window" validate:"required,min=1s"`
	RateLimitMax     int           `koanf:"rate_limit_max"    validate:"required,min=1"`
	QuotaPerDayMax   int           `koanf:"quota_per_day_max" validate:"required,min=1"`
	MinElapsed       time.Duration `koanf:"min_elapsed"       validate:"min=0"`
	MaxElapsed       time.Duration `koanf:"max_elapsed"       validate:"required,gtfield=MinElapsed"`
	DuplicateWindow  time.Duration `koanf:"duplicate_window"  validate:"required,min=1s"`
	NotifyTimeout    time.Duration `koanf:"notify_timeout"    validate:"required,min=100ms"`
	TrustProxy       bool          `koanf:"trust_proxy"`
	StaffRecipients  []string      `koanf:"staff_recipients"  validate:"dive,email"`
	ConfirmRequester bool          `koanf:"confirm_requester"`
}

// ThrottleConfig configures the per-client token bucket on the public API.
type ThrottleConfig struct {
	Enabled bool          `koanf:"enabled"`
	RPS     float64       `koanf:"rps"      validate:"required_if=Enabled true,omitempty,gt=0"`
	Burst   int           `koanf:"burst"    validate:"required_if=Enabled true,omitempty,min=1"`
	IdleTTL time.Duration `koanf:"idle_ttl" validate:"omitempty,min=1s"`
}

// CORSConfig lists the storefront origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string      `koanf:"allowed_origins"`
	MaxAge         time.Duration `koanf:"max_age"`
}

// StorageConfig selects the quote store.
type StorageConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=memory mongo postgres"`
}

// MongoConfig configures the MongoDB store.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"omitempty,min=100ms"`
}

// PostgresConfig configures the PostgreSQL store.
type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	Driver          string        `koanf:"driver"             validate:"omitempty,oneof=postgres pgx"`
	MaxOpenConns    int           `koanf:"max_open_conns"     validate:"omitempty,min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns"     validate:"omitempty,min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// RateLimitConfig selects the rate-limit counter backend.
type RateLimitConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=memory redis"`
}

// RedisConfig configures the shared rate-limit counter store.
type RedisConfig struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"         validate:"min=0"`
	KeyPrefix string `koanf:"key_prefix"`
}

// SMTPConfig configures email notifications.
type SMTPConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"      validate:"required_if=Enabled true"`
	Port     int    `koanf:"port"      validate:"omitempty,min=1,max=65535"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"      validate:"required_if=Enabled true,omitempty,email"`
	FromName string `koanf:"from_name"`
}

// WebhookConfig configures the staff chat webhook notifier.
type WebhookConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"     validate:"required_if=Enabled true,omitempty,url"`
	Name    string `koanf:"name"    validate:"required"`
}

// ClientConfig contains outbound HTTP client settings.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// JobsConfig schedules background jobs. Schedules use cron syntax in UTC.
type JobsConfig struct {
	Digest  DigestJobConfig  `koanf:"digest"`
	Janitor JanitorJobConfig `koanf:"janitor"`
}

// DigestJobConfig configures the daily staff digest of unanswered requests.
type DigestJobConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Schedule   string        `koanf:"schedule"    validate:"required_if=Enabled true"`
	StaleAfter time.Duration `koanf:"stale_after" validate:"omitempty,min=1m"`
	Limit      int           `koanf:"limit"       validate:"omitempty,min=1,max=1000"`
}

// JanitorJobConfig configures eviction of expired in-memory rate-limit windows.
type JanitorJobConfig struct {
	Schedule string `koanf:"schedule" validate:"required"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        DefaultServiceName,
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",
		"server.request_timeout":  "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  DefaultServiceName,
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.jwt.secret": "",
		"auth.jwt.issuer": DefaultServiceName,
		"auth.jwt.ttl":    "12h",

		"admin.email":    "",
		"admin.password": "",

		"intake.rate_limit_window": DefaultRateLimitWindow.String(),
		"intake.rate_limit_max":    DefaultRateLimitMax,
		"intake.quota_per_day_max": DefaultQuotaPerDayMax,
		"intake.min_elapsed":       DefaultMinElapsed.String(),
		"intake.max_elapsed":       DefaultMaxElapsed.String(),
		"intake.duplicate_window":  DefaultDuplicateWindow.String(),
		"intake.notify_timeout":    DefaultNotifyTimeout.String(),
		"intake.trust_proxy":       false,
		"intake.staff_recipients":  []string{},
		"intake.confirm_requester": true,

		"throttle.enabled":  true,
		"throttle.rps":      DefaultThrottleRPS,
		"throttle.burst":    DefaultThrottleBurst,
		"throttle.idle_ttl": "15m",

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.max_age":         "12h",

		"storage.driver": StorageMemory,

		"mongo.uri":             "",
		"mongo.database":        "catalog",
		"mongo.connect_timeout": "10s",

		"postgres.dsn":                "",
		"postgres.driver":             "postgres",
		"postgres.max_open_conns":     DefaultPostgresMaxOpenConns,
		"postgres.max_idle_conns":     DefaultPostgresMaxIdleConns,
		"postgres.conn_max_lifetime":  "10m",
		"postgres.conn_max_idle_time": "5m",
		"postgres.auto_migrate":       true,

		"ratelimit.backend": RateLimitMemory,

		"redis.addr":       "",
		"redis.password":   "",
		"redis.db":         0,
		"redis.key_prefix": "catalog:",

		"smtp.enabled":   false,
		"smtp.host":      "",
		"smtp.port":      DefaultSMTPPort,
		"smtp.username":  "",
		"smtp.password":  "",
		"smtp.from":      "",
		"smtp.from_name": "Catalog Quotes",

		"webhook.enabled": false,
		"webhook.url":     "",
		"webhook.name":    "staff-webhook",

		"client.timeout":                           "5s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "2s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"jobs.digest.enabled":     false,
		"jobs.digest.schedule":    "0 8 * * *",
		"jobs.digest.stale_after": "24h",
		"jobs.digest.limit":       DefaultDigestLimit,
		"jobs.janitor.schedule":   "@every 5m",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider("APP_", ".", envKeyMapper(k.Keys())), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_SERVER_READ_TIMEOUT to server.read_timeout.
// Env names are matched against the known keys first so keys that contain
// underscores stay addressable; unknown names fall back to "_" -> ".".
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
