package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Backend:       "memory",
		StorageKey:    "financechat_data",
		Addr:          ":8081",
		RateLimit:     20,
		RateBurst:     40,
		LogLevel:      "info",
		LogFormat:     "text",
		ChartDebounce: 250 * time.Millisecond,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		edit        func(*Config)
		wantErr     bool
		errorString string
	}{
		{name: "valid memory config", edit: func(*Config) {}},
		{
			name:        "unknown backend",
			edit:        func(c *Config) { c.Backend = "sheets" },
			wantErr:     true,
			errorString: "invalid backend 'sheets'",
		},
		{
			name:        "file backend without file",
			edit:        func(c *Config) { c.Backend = "file" },
			wantErr:     true,
			errorString: "data file cannot be empty",
		},
		{
			name:        "bad address",
			edit:        func(c *Config) { c.Addr = "8081" },
			wantErr:     true,
			errorString: "invalid address '8081'",
		},
		{
			name:        "port out of range",
			edit:        func(c *Config) { c.Addr = "localhost:70000" },
			wantErr:     true,
			errorString: "invalid port '70000'",
		},
		{
			name:        "bad log level",
			edit:        func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "unknown log level",
		},
		{
			name:        "bad log format",
			edit:        func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "zero rate limit",
			edit:        func(c *Config) { c.RateLimit = 0 },
			wantErr:     true,
			errorString: "invalid rate limit",
		},
		{
			name:        "empty storage key",
			edit:        func(c *Config) { c.StorageKey = " " },
			wantErr:     true,
			errorString: "storage key cannot be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.edit(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	c := validConfig()
	c.Backend = "nope"
	c.LogFormat = "xml"
	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want an error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 2 {
		t.Errorf("Validate() reported %d problems, want 2:\n%v", got, err)
	}
}

func TestConfig_ValidateCreatesSQLiteDir(t *testing.T) {
	c := validConfig()
	c.Backend = "sqlite"
	c.SQLitePath = filepath.Join(t.TempDir(), "nested", "fc.db")
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(c.SQLitePath)); err != nil {
		t.Errorf("Validate() did not create the database directory: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("FCHAT_BACKEND", "sqlite")
	t.Setenv("FCHAT_RATE_LIMIT", "2.5")
	t.Setenv("FCHAT_RATE_BURST", "not a number")
	t.Setenv("FCHAT_CHART_DEBOUNCE", "100ms")
	t.Setenv("GEMINI_API_KEY", "")

	c := Load()
	if c.Backend != "sqlite" {
		t.Errorf("Load().Backend = %q, want %q", c.Backend, "sqlite")
	}
	if c.RateLimit != 2.5 {
		t.Errorf("Load().RateLimit = %v, want 2.5", c.RateLimit)
	}
	if c.RateBurst != 40 {
		t.Errorf("Load().RateBurst = %d, want the default 40", c.RateBurst)
	}
	if c.ChartDebounce != 100*time.Millisecond {
		t.Errorf("Load().ChartDebounce = %v, want 100ms", c.ChartDebounce)
	}
	if c.StorageKey != "financechat_data" {
		t.Errorf("Load().StorageKey = %q, want the default", c.StorageKey)
	}
	if c.AssistEnabled() {
		t.Error("Load().AssistEnabled() = true without an API key")
	}
}

func TestLoad_Verbose(t *testing.T) {
	testCases := []struct {
		name     string
		verbose  string
		logLevel string
		want     string
	}{
		{name: "unset", verbose: "", logLevel: "", want: "info"},
		{name: "true", verbose: "true", logLevel: "", want: "debug"},
		{name: "true over level", verbose: "1", logLevel: "warn", want: "debug"},
		{name: "false", verbose: "false", logLevel: "warn", want: "warn"},
		{name: "not a bool", verbose: "yes please", logLevel: "", want: "info"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("FCHAT_VERBOSE", tc.verbose)
			t.Setenv("FCHAT_LOG_LEVEL", tc.logLevel)
			if got := Load().LogLevel; got != tc.want {
				t.Errorf("Load().LogLevel = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("FCHAT_ADDR=:9999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FCHAT_ADDR", "")
	os.Unsetenv("FCHAT_ADDR")
	if err := LoadDotEnv(file); err != nil {
		t.Fatalf("LoadDotEnv() unexpected error: %v", err)
	}
	if got := Load().Addr; got != ":9999" {
		t.Errorf("Load().Addr = %q, want %q", got, ":9999")
	}
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("LoadDotEnv(missing) error = %v, want nil", err)
	}
}
