package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Config represents the main application configuration
type Config struct {
	// Metadata provider
	TMDb TMDbConfig `yaml:"tmdb"`

	// Session page cache
	Cache CacheConfig `yaml:"cache"`

	// List screen behaviour
	Browse BrowseConfig `yaml:"browse"`

	// Optional surfaces
	Web      *WebConfig      `yaml:"web,omitempty"`
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// TMDbConfig holds TMDb API configuration
type TMDbConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	Language    string        `yaml:"language,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	MaxAttempts int           `yaml:"max_attempts,omitempty"` // 1 = no automatic retry
	RateLimit   float64       `yaml:"rate_limit,omitempty"`   // requests per second
}

// CacheConfig holds the API response cache settings
type CacheConfig struct {
	Disabled   bool          `yaml:"disabled,omitempty"`
	TTL        time.Duration `yaml:"ttl,omitempty"`
	MaxEntries int           `yaml:"max_entries,omitempty"`
}

// BrowseConfig holds pagination settings for the movie list
type BrowseConfig struct {
	Threshold float64 `yaml:"threshold,omitempty"` // fraction of the visible window
	Dedupe    bool    `yaml:"dedupe,omitempty"`
}

// WebConfig holds the HTTP server configuration
type WebConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
	DataDir  string `yaml:"data_dir"`  // Directory for the log file
	LogFile  string `yaml:"log_file,omitempty"`
}

// Defaults applied by setDefaults.
const (
	DefaultBaseURL     = "https://api.themoviedb.org/3"
	DefaultLanguage    = "ko-KR"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 1
	DefaultRateLimit   = 40
	DefaultCacheTTL    = 15 * time.Minute
	DefaultCacheSize   = 256
	DefaultThreshold   = 0.5
	DefaultWebAddr     = ":8080"
)

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Load loads configuration from a YAML file with environment variable overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() {
	// TMDb
	if v := os.Getenv("MARQUEE_TMDB_API_KEY"); v != "" {
		c.TMDb.APIKey = v
	}
	if v := os.Getenv("MARQUEE_TMDB_BASE_URL"); v != "" {
		c.TMDb.BaseURL = v
	}
	if v := os.Getenv("MARQUEE_TMDB_LANGUAGE"); v != "" {
		c.TMDb.Language = v
	}

	// Web
	if v := os.Getenv("MARQUEE_WEB_ADDR"); v != "" {
		if c.Web == nil {
			c.Web = &WebConfig{}
		}
		c.Web.Addr = v
	}

	// Telegram
	if v := os.Getenv("MARQUEE_TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}

	// App
	if v := os.Getenv("MARQUEE_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("MARQUEE_DATA_DIR"); v != "" {
		c.App.DataDir = v
	}
	if v := os.Getenv("MARQUEE_LOG_FILE"); v != "" {
		c.App.LogFile = v
	}
}

// Validate fills in defaults and validates the configuration
func (c *Config) Validate() error {
	c.setDefaults()

	if c.TMDb.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required (set it in the config file or MARQUEE_TMDB_API_KEY)")
	}
	if err := validateURL(c.TMDb.BaseURL, "tmdb.base_url"); err != nil {
		return err
	}
	if c.TMDb.Timeout < 0 {
		return fmt.Errorf("tmdb.timeout must not be negative")
	}
	if c.TMDb.MaxAttempts < 1 {
		return fmt.Errorf("tmdb.max_attempts must be at least 1")
	}
	if c.TMDb.RateLimit < 0 {
		return fmt.Errorf("tmdb.rate_limit must not be negative")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}

	if c.Browse.Threshold <= 0 || c.Browse.Threshold > 1 {
		return fmt.Errorf("browse.threshold must be in (0, 1]")
	}

	if c.Telegram != nil && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	if !isValidLogLevel(c.App.LogLevel) {
		return fmt.Errorf("app.log_level must be one of %s", strings.Join(validLogLevels, ", "))
	}

	return nil
}

// setDefaults fills zero values with their defaults
func (c *Config) setDefaults() {
	if c.TMDb.BaseURL == "" {
		c.TMDb.BaseURL = DefaultBaseURL
	}
	if c.TMDb.Language == "" {
		c.TMDb.Language = DefaultLanguage
	}
	if c.TMDb.Timeout == 0 {
		c.TMDb.Timeout = DefaultTimeout
	}
	if c.TMDb.MaxAttempts == 0 {
		c.TMDb.MaxAttempts = DefaultMaxAttempts
	}
	if c.TMDb.RateLimit == 0 {
		c.TMDb.RateLimit = DefaultRateLimit
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheSize
	}

	if c.Browse.Threshold == 0 {
		c.Browse.Threshold = DefaultThreshold
	}

	if c.Web != nil && c.Web.Addr == "" {
		c.Web.Addr = DefaultWebAddr
	}

	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.DataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			c.App.DataDir = filepath.Join(homeDir, ".marquee")
		} else {
			c.App.DataDir = ".marquee"
		}
	}
	if c.App.LogFile == "" {
		c.App.LogFile = filepath.Join(c.App.DataDir, "marquee.log")
	}
}

// validateURL checks that raw is an absolute http(s) URL
func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	for _, l := range validLogLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}
