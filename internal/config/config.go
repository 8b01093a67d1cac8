package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the application configuration, read from the environment
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Views     ViewsConfig
	Events    EventRulesConfig
	Admission AdmissionConfig
	Worker    WorkerConfig
	Auth      AuthConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"event-listing"`
	LogLevel string `env:"LOG_LEVEL"`
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	// postgres or memory
	Driver         string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName          string        `env:"DB_NAME" envDefault:"event_listing"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
	URL      string `env:"REDIS_URL"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// ViewsConfig selects the view-count collaborator
type ViewsConfig struct {
	// redis, stats or memory
	Backend  string        `env:"VIEWS_BACKEND" envDefault:"redis"`
	StatsURL string        `env:"STATS_SERVER_URL" envDefault:"http://localhost:9090"`
	Timeout  time.Duration `env:"STATS_TIMEOUT" envDefault:"2s"`
	App      string        `env:"STATS_APP_NAME" envDefault:"ewm-main-service"`
}

// EventRulesConfig holds the scheduling lead times
type EventRulesConfig struct {
	CreateLeadTime    time.Duration `env:"EVENT_CREATE_LEAD_TIME" envDefault:"2h"`
	PublishedLeadTime time.Duration `env:"EVENT_PUBLISHED_LEAD_TIME" envDefault:"1h"`
}

// AdmissionConfig tunes the per-event distributed lock
type AdmissionConfig struct {
	LockTTL        time.Duration `env:"ADMISSION_LOCK_TTL" envDefault:"10s"`
	LockRetries    int           `env:"ADMISSION_LOCK_RETRIES" envDefault:"3"`
	LockRetryDelay time.Duration `env:"ADMISSION_LOCK_RETRY_DELAY" envDefault:"100ms"`
}

type WorkerConfig struct {
	CompletionEnabled  bool          `env:"WORKER_COMPLETION_ENABLED" envDefault:"true"`
	CompletionInterval time.Duration `env:"WORKER_COMPLETION_INTERVAL" envDefault:"1m"`
	CompletionBatch    int           `env:"WORKER_COMPLETION_BATCH" envDefault:"100"`
}

type AuthConfig struct {
	// Admin routes are open when empty
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`
}

type MetricsConfig struct {
	User     string `env:"METRICS_USER"`
	Password string `env:"METRICS_PASSWORD"`
}

type TracingConfig struct {
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Database.applyURL(); err != nil {
		return nil, err
	}
	if err := cfg.Redis.applyURL(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Views.Backend {
	case "redis", "stats", "memory":
	default:
		return fmt.Errorf("unknown VIEWS_BACKEND %q", c.Views.Backend)
	}
	if c.Views.Backend == "redis" && !c.Redis.Enabled {
		return errors.New("VIEWS_BACKEND=redis requires REDIS_ENABLED")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// applyURL overrides the discrete settings with DATABASE_URL when present.
// Hosted URLs default to sslmode=require.
func (c *DatabaseConfig) applyURL() error {
	if c.URL == "" {
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	c.Host = u.Hostname()
	if p := u.Port(); p != "" {
		c.Port = p
	}
	if u.User != nil {
		c.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.Password = pw
		}
	}
	c.DBName = strings.TrimPrefix(u.Path, "/")
	c.SSLMode = "require"
	if mode := u.Query().Get("sslmode"); mode != "" {
		c.SSLMode = mode
	}
	return nil
}

func (c *RedisConfig) applyURL() error {
	if c.URL == "" {
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	c.Host = u.Hostname()
	if p := u.Port(); p != "" {
		c.Port = p
	}
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			c.Password = pw
		}
	}
	return nil
}
