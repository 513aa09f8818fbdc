// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Data     DataConfig
	Export   ExportConfig
	Chart    ChartConfig
	Server   ServerConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// DataConfig describes the input table.
type DataConfig struct {
	// File is the path of the emissions CSV (default: Emissions.csv)
	File string `env:"DATA_FILE" default:"Emissions.csv"`

	// HeaderKey is the first field of the row that carries the year axis
	HeaderKey string `env:"DATA_HEADER_KEY" default:"CO2 per capita"`

	// MinYear and MaxYear bound the years a user may ask for (inclusive)
	MinYear int `env:"DATA_MIN_YEAR" default:"1997"`
	MaxYear int `env:"DATA_MAX_YEAR" default:"2010"`
}

// ExportConfig holds subset export settings.
type ExportConfig struct {
	// File is where the interactive session writes the subset (default: Emissions_subset.csv)
	File string `env:"EXPORT_FILE" default:"Emissions_subset.csv"`

	// Count is the exact number of countries an export requires (default: 3)
	Count int `env:"EXPORT_COUNT" default:"3"`
}

// ChartConfig holds chart rendering settings.
type ChartConfig struct {
	// Dir is the directory PNG charts are written to (default: charts)
	Dir string `env:"CHART_DIR" default:"charts"`

	Width  int `env:"CHART_WIDTH" default:"1024"`
	Height int `env:"CHART_HEIGHT" default:"576"`

	// MaxConcurrent caps simultaneous renders in server mode (default: 4)
	MaxConcurrent int `env:"CHART_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a render waits for a free slot (default: 10s)
	MaxWait time.Duration `env:"CHART_MAX_WAIT" default:"10s"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// DatabaseConfig holds the optional Postgres connection used to publish exports.
// An empty URL disables publishing.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns int `env:"DB_MAX_CONNS" default:"4"`
	MinConns int `env:"DB_MIN_CONNS" default:"0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// PublishEnabled reports whether exports should also be copied to Postgres.
func (c *DatabaseConfig) PublishEnabled() bool {
	return c.URL != ""
}
