package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent identifies the checker to remote services. Kept
// browser-shaped because some imagery servers reject unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (compatible; layerlint imagery source CI check)"

type Config struct {
	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => colorized console output, false => JSON

	UserAgent   string        // User-Agent header on every outgoing request
	HTTPTimeout time.Duration // per-request timeout for all probes and fetches

	FallbackLon float64 // probe point for sources without geometry
	FallbackLat float64
	ZoomSpan    int // how far zoom probing widens past an unreachable bound

	ListenPort      string        // serve mode, ex: ":8080"
	ShutdownTimeout time.Duration // serve mode graceful shutdown budget
}

// Load builds the configuration from environment variables with sane
// defaults. Nothing is required; the checker must run bare in CI.
func Load() *Config {
	return &Config{
		LogLevel:  getenv("LAYERLINT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LAYERLINT_PRETTY_LOG", true),

		UserAgent:   getenv("LAYERLINT_USER_AGENT", DefaultUserAgent),
		HTTPTimeout: mustDuration("LAYERLINT_HTTP_TIMEOUT", 30*time.Second),

		FallbackLon: mustFloat("LAYERLINT_FALLBACK_LON", 6.1),
		FallbackLat: mustFloat("LAYERLINT_FALLBACK_LAT", 49.6),
		ZoomSpan:    getenvInt("LAYERLINT_ZOOM_SPAN", 4),

		ListenPort:      getenv("LAYERLINT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LAYERLINT_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// fileConfig mirrors Config for the optional YAML config file. Only
// keys present in the file override the loaded values.
type fileConfig struct {
	LogLevel    *string  `yaml:"log_level"`
	PrettyLog   *bool    `yaml:"pretty_log"`
	UserAgent   *string  `yaml:"user_agent"`
	HTTPTimeout *string  `yaml:"http_timeout"` // duration string, ex: "30s"
	FallbackLon *float64 `yaml:"fallback_lon"`
	FallbackLat *float64 `yaml:"fallback_lat"`
	ZoomSpan    *int     `yaml:"zoom_span"`
	ListenPort  *string  `yaml:"listen_port"`
}

// ApplyFile overlays the YAML file at path onto the configuration.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.PrettyLog != nil {
		c.PrettyLog = *fc.PrettyLog
	}
	if fc.UserAgent != nil {
		c.UserAgent = *fc.UserAgent
	}
	if fc.HTTPTimeout != nil {
		d, err := time.ParseDuration(*fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("invalid http_timeout in config file: %w", err)
		}
		c.HTTPTimeout = d
	}
	if fc.FallbackLon != nil {
		c.FallbackLon = *fc.FallbackLon
	}
	if fc.FallbackLat != nil {
		c.FallbackLat = *fc.FallbackLat
	}
	if fc.ZoomSpan != nil {
		c.ZoomSpan = *fc.ZoomSpan
	}
	if fc.ListenPort != nil {
		c.ListenPort = *fc.ListenPort
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
