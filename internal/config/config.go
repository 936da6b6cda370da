package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Sweep     SweepConfig     `yaml:"sweep"`
	OCR       OCRConfig       `yaml:"ocr"`
	Share     ShareConfig     `yaml:"share"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds storage settings. Driver selects the backend:
// "postgres" uses DSN and the pool settings, "sqlite" uses Path.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"postgres"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	Path            string        `yaml:"path"               env:"DATABASE_PATH"               env-default:"walico.db"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SweepConfig holds expiry-sweeper settings. Secret authorizes the HTTP
// trigger; when it is empty the trigger endpoint refuses to run.
type SweepConfig struct {
	Secret    string        `yaml:"secret"     env:"SWEEP_SECRET"`
	Interval  time.Duration `yaml:"interval"   env:"SWEEP_INTERVAL"   env-default:"1h"`
	BatchSize int           `yaml:"batch_size" env:"SWEEP_BATCH_SIZE" env-default:"500"`
}

// OCRConfig holds receipt-extraction provider settings. An empty BaseURL
// disables the analyze endpoint.
type OCRConfig struct {
	BaseURL string        `yaml:"base_url" env:"OCR_BASE_URL"`
	APIKey  string        `yaml:"api_key"  env:"OCR_API_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"OCR_TIMEOUT" env-default:"30s"`
}

// ShareConfig controls how share URLs are rendered in API responses.
type ShareConfig struct {
	BaseURL string `yaml:"base_url" env:"SHARE_BASE_URL" env-default:""`
	Path    string `yaml:"path"     env:"SHARE_PATH"     env-default:"/r"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds per-client request limits for write endpoints.
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"true"`
	Limit   int           `yaml:"limit"   env:"RATE_LIMIT_LIMIT"   env-default:"60"`
	Window  time.Duration `yaml:"window"  env:"RATE_LIMIT_WINDOW"  env-default:"1m"`
}
