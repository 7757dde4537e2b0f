// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for toolcanon.
package config

import "time"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Server configures the HTTP gateway.
	Server ServerConfig `yaml:"server"`

	// Storage configures the SQLite tool registry.
	Storage StorageConfig `yaml:"storage"`

	// Refresh configures the periodic re-canonicalization job.
	Refresh RefreshConfig `yaml:"refresh"`

	// Telemetry configures OTLP trace export.
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`

	// Log configures the slog handler.
	Log LogConfig `yaml:"log,omitempty"`
}

// ServerConfig holds HTTP gateway configuration.
type ServerConfig struct {
	Bind            string        `yaml:"bind"`
	Auth            AuthConfig    `yaml:"auth"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig configures authentication for the API endpoints.
type AuthConfig struct {
	BearerToken string `yaml:"bearer_token"`
	BasicUser   string `yaml:"basic_user"`
	BasicPass   string `yaml:"basic_pass"`
}

// IsConfigured returns true if any auth method is configured.
func (a AuthConfig) IsConfigured() bool {
	return a.BearerToken != "" || (a.BasicUser != "" && a.BasicPass != "")
}

// StorageConfig locates the registry database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// RefreshConfig controls the cron job that re-canonicalizes stored tools
// so vocabulary changes propagate to stored capability tags.
type RefreshConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig configures the OTLP/HTTP trace exporter.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// defaults fills zero values with sensible defaults.
func (c *Config) defaults() {
	if c.Server.Bind == "" {
		c.Server.Bind = "127.0.0.1:8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "toolcanon.db"
	}
	if c.Refresh.Schedule == "" {
		c.Refresh.Schedule = "@hourly"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "toolcanon"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
