// Package config provides configuration management for the MCP server.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvGeminiModel   = "GEMINI_MODEL"
	EnvGeminiBaseURL = "GEMINI_BASE_URL"
	EnvGeminiTimeout = "GEMINI_TIMEOUT"
	EnvTimezone      = "TZ"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
)

// Defaults for the Gemini collaborator.
const (
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// Config holds all configuration for the MCP server
type Config struct {
	// Transport settings
	TransportType string
	HTTPPort      int

	// Server settings
	ServerName    string
	ServerVersion string
	Timezone      string

	// Timeouts. A zero RequestTimeout disables the per-request deadline.
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// HTTP settings
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// EnvFile is loaded before the environment is read. Missing files are ignored.
	EnvFile string

	Gemini GeminiConfig
}

// GeminiConfig configures the outbound text-generation client.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// New creates a new configuration with defaults
func New() *Config {
	return &Config{
		TransportType:   "stdio",
		HTTPPort:        8080,
		ServerName:      "gemini-mcp-server",
		ServerVersion:   "1.0.0",
		RequestTimeout:  0,
		ShutdownTimeout: 5 * time.Second,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		IdleTimeout:     120 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
		EnvFile:         ".env",
		Gemini: GeminiConfig{
			Model:   DefaultGeminiModel,
			BaseURL: DefaultGeminiBaseURL,
		},
	}
}

// ParseFlags parses command line flags, overlays the environment and returns
// a validated config. Explicit flags win over environment variables.
func ParseFlags(args []string) (*Config, error) {
	cfg := New()

	fset := flag.NewFlagSet("mcpserver", flag.ContinueOnError)
	transportType := fset.String("transport", cfg.TransportType, "Transport type: stdio or http")
	port := fset.Int("port", cfg.HTTPPort, "Port for HTTP transport (ignored for stdio)")
	requestTimeout := fset.Duration("request-timeout", cfg.RequestTimeout, "Per-request timeout (0 disables)")
	timezone := fset.String("timezone", "", "IANA time zone for get_current_time (default $TZ or local)")
	logLevel := fset.String("log-level", "", "Log level: debug, info, warn or error (default $LOG_LEVEL or info)")
	logFormat := fset.String("log-format", "", "Log format: text or json (default $LOG_FORMAT or text)")
	envFile := fset.String("env-file", cfg.EnvFile, "Optional dotenv file loaded at startup")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	cfg.TransportType = *transportType
	cfg.HTTPPort = *port
	cfg.RequestTimeout = *requestTimeout
	cfg.EnvFile = *envFile

	if err := LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if *timezone != "" {
		cfg.Timezone = *timezone
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}

	return cfg, cfg.Validate()
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set are left alone, and a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment values onto c using getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvGeminiAPIKey); v != "" {
		c.Gemini.APIKey = strings.TrimSpace(v)
	}
	if v := getenv(EnvGeminiModel); v != "" {
		c.Gemini.Model = v
	}
	if v := getenv(EnvGeminiBaseURL); v != "" {
		c.Gemini.BaseURL = v
	}
	if v := getenv(EnvGeminiTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvGeminiTimeout, err)
		}
		c.Gemini.Timeout = d
	}
	if v := getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	return nil
}

// parseDuration accepts Go durations and bare seconds.
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.TransportType) {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport type: %s (must be 'stdio' or 'http')", c.TransportType)
	}

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.HTTPPort)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request timeout: %v (must not be negative)", c.RequestTimeout)
	}

	if c.Gemini.Timeout < 0 {
		return fmt.Errorf("invalid gemini timeout: %v (must not be negative)", c.Gemini.Timeout)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.LogFormat)
	}

	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return level, nil
}

// LogValue implements slog.LogValuer. The API key is reported only as set or unset.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("transport", c.TransportType),
		slog.Int("port", c.HTTPPort),
		slog.String("server", c.ServerName),
		slog.String("version", c.ServerVersion),
		slog.Duration("request_timeout", c.RequestTimeout),
		slog.String("timezone", c.Timezone),
		slog.String("gemini_model", c.Gemini.Model),
		slog.String("gemini_base_url", c.Gemini.BaseURL),
		slog.Bool("gemini_api_key_set", c.Gemini.APIKey != ""),
	)
}
