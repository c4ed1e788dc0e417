package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/etnz/financechat/internal/log"
)

// Backends lists the supported storage backends.
var Backends = []string{"memory", "file", "sqlite"}

// Formats lists the supported log formats.
var Formats = []string{"text", "json", "pretty"}

type Config struct {
	// Storage
	Backend    string
	DataFile   string
	SQLitePath string
	StorageKey string

	// HTTP server
	Addr      string
	RateLimit float64 // requests per second
	RateBurst int

	// Logging
	LogLevel  string
	LogFormat string

	// Presentation
	ChartDebounce time.Duration

	// Assistant, disabled without an API key
	GeminiAPIKey string
	AssistModel  string
}

// LoadDotEnv loads the .env file of the current directory, if any, into the
// environment. Variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Load reads the configuration from the environment.
// FCHAT_VERBOSE, set for extensions by the -v flag, turns on debug logs.
func Load() *Config {
	c := &Config{
		Backend:    getEnv("FCHAT_BACKEND", "file"),
		DataFile:   getEnv("FCHAT_DATA_FILE", "financechat.json"),
		SQLitePath: getEnv("FCHAT_SQLITE_PATH", "./data/financechat.db"),
		StorageKey: getEnv("FCHAT_STORAGE_KEY", "financechat_data"),

		Addr:      getEnv("FCHAT_ADDR", ":8081"),
		RateLimit: getEnvFloat("FCHAT_RATE_LIMIT", 20),
		RateBurst: getEnvInt("FCHAT_RATE_BURST", 40),

		LogLevel:  getEnv("FCHAT_LOG_LEVEL", "info"),
		LogFormat: getEnv("FCHAT_LOG_FORMAT", "text"),

		ChartDebounce: getEnvDuration("FCHAT_CHART_DEBOUNCE", 250*time.Millisecond),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		AssistModel:  getEnv("FCHAT_ASSIST_MODEL", "gemini-2.0-flash"),
	}
	if getEnvBool("FCHAT_VERBOSE", false) {
		c.LogLevel = "debug"
	}
	return c
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(Backends, c.Backend) {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, Backends))
	}
	switch c.Backend {
	case "file":
		if c.DataFile == "" {
			errors = append(errors, "data file cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLitePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		errors = append(errors, "storage key cannot be empty")
	}

	if _, port, err := net.SplitHostPort(c.Addr); err != nil {
		errors = append(errors, fmt.Sprintf("invalid address '%s': %v", c.Addr, err))
	} else if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be between 0 and 65535", port))
	}
	if c.RateLimit <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must be positive", c.RateLimit))
	}
	if c.RateBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate burst %d: must be at least 1", c.RateBurst))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}
	if !slices.Contains(Formats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, Formats))
	}

	if c.ChartDebounce < 0 || c.ChartDebounce > 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid chart debounce %v: must be between 0 and 10s", c.ChartDebounce))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// AssistEnabled reports whether the assistant can be used.
func (c *Config) AssistEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Logger returns the logger configured by c.
func (c *Config) Logger() *log.Logger {
	level, _ := log.ParseLevel(c.LogLevel)
	cfg := log.DefaultConfig()
	cfg.Level = level
	cfg.Format = c.LogFormat
	return log.New(cfg)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
