package config

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func validFixture() Config {
	return Config{
		Port:          "8080",
		LogLevelName:  "info",
		DBPath:        "data/db.db",
		SQLChunkSize:  10000,
		RefreshName:   "download-if-expired",
		IntervalHours: 24,
		JWTSecret:     "secret",
	}
}

func TestValidateConfig(t *testing.T) {
	t.Run("valid config resolves derived fields", func(t *testing.T) {
		cfg := validFixture()
		if err := validateConfig(&cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.LogLevel != zapcore.InfoLevel {
			t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.RefreshMode != RefreshDownloadIfExpired {
			t.Errorf("RefreshMode = %v, want download-if-expired", cfg.RefreshMode)
		}
		if cfg.ImportInterval != 24*time.Hour {
			t.Errorf("ImportInterval = %v, want 24h", cfg.ImportInterval)
		}
	})

	t.Run("mode none needs no interval", func(t *testing.T) {
		cfg := validFixture()
		cfg.RefreshName = "none"
		cfg.IntervalHours = 0
		if err := validateConfig(&cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	errorCases := []struct {
		name    string
		mutate  func(*Config)
		wantVar string
	}{
		{"missing port", func(c *Config) { c.Port = "" }, "PORT"},
		{"port not a number", func(c *Config) { c.Port = "eighty" }, "PORT"},
		{"missing log level", func(c *Config) { c.LogLevelName = "" }, "LOG_LEVEL"},
		{"invalid log level", func(c *Config) { c.LogLevelName = "loud" }, "LOG_LEVEL"},
		{"missing db path", func(c *Config) { c.DBPath = "" }, "DB_PATH"},
		{"zero chunk size", func(c *Config) { c.SQLChunkSize = 0 }, "SQL_CHUNK_SIZE"},
		{"negative chunk size", func(c *Config) { c.SQLChunkSize = -5 }, "SQL_CHUNK_SIZE"},
		{"missing refresh mode", func(c *Config) { c.RefreshName = "" }, "MOD_REFRESH"},
		{"invalid refresh mode", func(c *Config) { c.RefreshName = "hourly" }, "MOD_REFRESH"},
		{"cache-only without interval", func(c *Config) { c.RefreshName = "cache-only"; c.IntervalHours = 0 }, "MOD_IMPORT_INTERVAL_HOURS"},
		{"download without interval", func(c *Config) { c.IntervalHours = 0 }, "MOD_IMPORT_INTERVAL_HOURS"},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validFixture()
			tt.mutate(&cfg)
			err := validateConfig(&cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantVar) {
				t.Errorf("error %q does not name the variable %s", err, tt.wantVar)
			}
		})
	}
}

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("fills optional values", func(t *testing.T) {
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.CacheFile != defaultCacheFile {
			t.Errorf("CacheFile = %q, want %q", cfg.CacheFile, defaultCacheFile)
		}
		if cfg.UserAgent == "" {
			t.Error("expected UserAgent to have a default value")
		}
		if cfg.FeedURL == "" {
			t.Error("expected FeedURL to have a default value")
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		cfg := Config{
			CacheFile: "elsewhere/cache.json",
			UserAgent: "custom-agent",
			FeedURL:   "https://feed.test/",
		}
		processConfigDefaults(&cfg)

		if cfg.CacheFile != "elsewhere/cache.json" {
			t.Errorf("CacheFile = %q, want elsewhere/cache.json", cfg.CacheFile)
		}
		if cfg.UserAgent != "custom-agent" {
			t.Errorf("UserAgent = %q, want custom-agent", cfg.UserAgent)
		}
		if cfg.FeedURL != "https://feed.test/" {
			t.Errorf("FeedURL = %q, want https://feed.test/", cfg.FeedURL)
		}
	})
}

func TestRefreshMode(t *testing.T) {
	tests := []struct {
		mode          RefreshMode
		needsInterval bool
		downloads     bool
	}{
		{RefreshNone, false, false},
		{RefreshCacheOnly, true, false},
		{RefreshDownloadIfExpired, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := tt.mode.NeedsInterval(); got != tt.needsInterval {
				t.Errorf("NeedsInterval() = %v, want %v", got, tt.needsInterval)
			}
			if got := tt.mode.Downloads(); got != tt.downloads {
				t.Errorf("Downloads() = %v, want %v", got, tt.downloads)
			}
		})
	}
}
