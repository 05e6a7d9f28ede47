package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Upstream APIs
	ScheduleEndpoint string        `envconfig:"SCHEDULE_ENDPOINT" default:"https://statsapi.mlb.com/api/v1/schedule"`
	StatsEndpoint    string        `envconfig:"STATS_ENDPOINT" default:"https://www.fangraphs.com/api/leaders/major-league/data"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	ScheduleTimeZone string        `envconfig:"SCHEDULE_TIME_ZONE" default:"America/New_York"`

	// Blob storage
	BlobBackend    string `envconfig:"BLOB_BACKEND" default:"redis"`
	StatsContainer string `envconfig:"STATS_CONTAINER" default:"mlb-stats"`
	EmailContainer string `envconfig:"EMAIL_CONTAINER" default:"mlb-email"`

	// Redis (blob backend "redis")
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Postgres (blob backend "postgres")
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"mlb_today"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"mlb_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" default:""`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Job schedules (6-field expressions, seconds first)
	BattingCron   string `envconfig:"BATTING_CRON" default:"0 0 10 * * *"`
	PitchingCron  string `envconfig:"PITCHING_CRON" default:"0 5 10 * * *"`
	ProbablesCron string `envconfig:"PROBABLES_CRON" default:"0 30 15 * * *"`
	ScheduleCron  string `envconfig:"SCHEDULE_CRON" default:"0 0 9 * * *"`

	// Email delivery
	SMTPHost      string `envconfig:"SMTP_HOST" default:""`
	SMTPPort      int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser      string `envconfig:"SMTP_USER" default:""`
	SMTPPassword  string `envconfig:"SMTP_PASSWORD" default:""`
	SenderAddress string `envconfig:"SENDER_ADDRESS" default:""`
	ToEmails      string `envconfig:"TO_EMAILS" default:""`
	CCEmails      string `envconfig:"CC_EMAILS" default:""`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.BlobBackend {
	case "redis", "postgres":
	default:
		return fmt.Errorf("BLOB_BACKEND must be \"redis\" or \"postgres\", got %q", c.BlobBackend)
	}

	if c.BlobBackend == "postgres" && c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required for the postgres blob backend")
	}

	return nil
}

// EmailConfigured reports whether enough is set to attempt delivery.
// A worker without email settings still runs the fetch/build stages.
func (c *Config) EmailConfigured() bool {
	return c.SMTPHost != "" && c.SenderAddress != "" && c.ToEmails != ""
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
