// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"

	"github.com/JonMunkholm/linecheck/internal/core"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Sampling SamplingConfig
	Process  ProcessConfig
	Report   ReportConfig
	History  HistoryConfig
	Server   ServerConfig
	Upload   UploadConfig
	Logging  LoggingConfig
}

// SamplingConfig bounds how much of a file the detectors read.
type SamplingConfig struct {
	// DelimiterLines is the sample size for delimiter detection (default: 5)
	DelimiterLines int `env:"SAMPLE_DELIMITER_LINES" default:"5"`

	// TypeLines is the sample size for type inference (default: 10)
	TypeLines int `env:"SAMPLE_TYPE_LINES" default:"10"`
}

// Core converts the sampling settings for the core package.
func (c SamplingConfig) Core() core.Sampling {
	return core.Sampling{DelimiterLines: c.DelimiterLines, TypeLines: c.TypeLines}
}

// ProcessConfig holds record processor settings.
type ProcessConfig struct {
	// DetectHeader skips a first line that repeats the column names (default: true)
	DetectHeader bool `env:"PROCESS_DETECT_HEADER" default:"true"`
}

// Core converts the processor settings for the core package.
func (c ProcessConfig) Core() core.ProcessOptions {
	return core.ProcessOptions{DetectHeader: c.DetectHeader}
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	// Dir is where report files are written (default: current directory)
	Dir string `env:"REPORT_DIR" default:"."`

	// PreviewErrors is how many incorrect records the CLI echoes (default: 3)
	PreviewErrors int `env:"REPORT_PREVIEW_ERRORS" default:"3"`
}

// HistoryConfig selects the optional run history store.
type HistoryConfig struct {
	// Driver is none, sqlite, or postgres (default: none)
	Driver string `env:"HISTORY_DRIVER" default:"none"`

	// DSN is the sqlite file path or PostgreSQL connection string.
	// Falls back to DATABASE_URL for compatibility with hosted Postgres.
	DSN string `env:"HISTORY_DSN" envAlt:"DATABASE_URL"`
}

// Enabled reports whether a history driver is configured.
func (c HistoryConfig) Enabled() bool {
	return c.Driver != "" && c.Driver != "none"
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds file upload settings for the HTTP API.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is the maximum number of parallel validation runs (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// AllowedExtensions is a comma-separated list of accepted file extensions
	AllowedExtensions []string `env:"UPLOAD_ALLOWED_EXTENSIONS" default:".csv,.tsv,.txt,.dat"`
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
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
