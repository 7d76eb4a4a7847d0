package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// RefreshMode controls whether and how the catalog import pipeline runs.
type RefreshMode string

const (
	// RefreshNone disables catalog syncing entirely.
	RefreshNone RefreshMode = "none"
	// RefreshCacheOnly re-imports from the local cache file, never the network.
	RefreshCacheOnly RefreshMode = "cache-only"
	// RefreshDownloadIfExpired downloads a fresh feed once the previous import
	// is older than the configured interval.
	RefreshDownloadIfExpired RefreshMode = "download-if-expired"
)

// NeedsInterval reports whether the mode is gated by an expiration window.
func (m RefreshMode) NeedsInterval() bool {
	return m == RefreshCacheOnly || m == RefreshDownloadIfExpired
}

// Downloads reports whether the mode is allowed to hit the network.
func (m RefreshMode) Downloads() bool {
	return m == RefreshDownloadIfExpired
}

const defaultCacheFile = "data/mods_cache.json"

// Config holds all configuration for the application.
// Values are loaded by Viper from a .env file and/or environment variables.
type Config struct {
	Port           string        `mapstructure:"PORT"`
	LogLevelName   string        `mapstructure:"LOG_LEVEL"`
	DBPath         string        `mapstructure:"DB_PATH"`
	SQLChunkSize   int           `mapstructure:"SQL_CHUNK_SIZE"`
	RefreshName    string        `mapstructure:"MOD_REFRESH"`
	IntervalHours  int           `mapstructure:"MOD_IMPORT_INTERVAL_HOURS"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	FeedURL        string        `mapstructure:"FEED_URL"`
	CacheFile      string        `mapstructure:"MODS_CACHE_FILE"`
	UserAgent      string        `mapstructure:"USERAGENT"`
	LogLevel       zapcore.Level `mapstructure:"-"` // Parsed from LOG_LEVEL
	RefreshMode    RefreshMode   `mapstructure:"-"` // Parsed from MOD_REFRESH
	ImportInterval time.Duration `mapstructure:"-"` // Derived from MOD_IMPORT_INTERVAL_HOURS
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)   // Path to look for the config file in
	viper.SetConfigName(".env") // Name of config file (without extension)
	viper.SetConfigType("env")  // REQUIRED if the config file does not have the extension in the name

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	// Bind environment variables automatically.
	// Viper will check for an environment variable matching the key name (e.g., MOD_REFRESH)
	viper.AutomaticEnv()

	for key, envVar := range map[string]string{
		"port":                      "PORT",
		"log_level":                 "LOG_LEVEL",
		"db_path":                   "DB_PATH",
		"sql_chunk_size":            "SQL_CHUNK_SIZE",
		"mod_refresh":               "MOD_REFRESH",
		"mod_import_interval_hours": "MOD_IMPORT_INTERVAL_HOURS",
		"jwt_secret":                "JWT_SECRET",
		"feed_url":                  "FEED_URL",
		"mods_cache_file":           "MODS_CACHE_FILE",
		"useragent":                 "USERAGENT",
	} {
		if bindErr := viper.BindEnv(key, envVar); bindErr != nil {
			slog.Warn("Unable to bind env var", "var", envVar, "error", bindErr)
		}
	}

	// Unmarshal the config
	if vipErr = viper.Unmarshal(&config); vipErr != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vipErr)
	}

	processConfigDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return Config{}, err
	}

	return config, nil
}

// processConfigDefaults fills in the optional settings.
func processConfigDefaults(cfg *Config) {
	if cfg.CacheFile == "" {
		cfg.CacheFile = defaultCacheFile
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "thunderstore-mod-browser/dev"
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = "https://thunderstore.io/c/lethal-company/api/v1/package/"
	}
}

// validateConfig checks every required variable and resolves the derived
// fields. Errors name the offending variable so a bad deployment fails loudly.
func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("missing required variable: PORT")
	}
	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return fmt.Errorf("PORT is not a valid port number: '%s'", cfg.Port)
	}

	if cfg.LogLevelName == "" {
		return fmt.Errorf("missing required variable: LOG_LEVEL")
	}
	level, err := zapcore.ParseLevel(cfg.LogLevelName)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL is not a valid log level: '%s'", cfg.LogLevelName)
	}
	cfg.LogLevel = level

	if cfg.DBPath == "" {
		return fmt.Errorf("missing required variable: DB_PATH")
	}

	if cfg.SQLChunkSize <= 0 {
		return fmt.Errorf("SQL_CHUNK_SIZE must be a number greater than zero")
	}

	switch RefreshMode(cfg.RefreshName) {
	case RefreshNone, RefreshCacheOnly, RefreshDownloadIfExpired:
		cfg.RefreshMode = RefreshMode(cfg.RefreshName)
	case "":
		return fmt.Errorf("missing required variable: MOD_REFRESH")
	default:
		return fmt.Errorf("MOD_REFRESH is not a valid refresh mode: '%s'. Allowed values are: %s, %s, %s",
			cfg.RefreshName, RefreshNone, RefreshCacheOnly, RefreshDownloadIfExpired)
	}

	if cfg.RefreshMode.NeedsInterval() {
		if cfg.IntervalHours <= 0 {
			return fmt.Errorf("MOD_IMPORT_INTERVAL_HOURS must be set to a positive number of hours when MOD_REFRESH is '%s'", cfg.RefreshMode)
		}
		cfg.ImportInterval = time.Duration(cfg.IntervalHours) * time.Hour
	}

	if cfg.JWTSecret == "" {
		return fmt.Errorf("missing required variable: JWT_SECRET")
	}

	return nil
}
