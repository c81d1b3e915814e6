package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. It is built once at process
// start and passed by reference; no component reads the environment after
// that.
type Config struct {
	API struct {
		Key        string `yaml:"key"`
		BaseURL    string `yaml:"base_url"`
		TimeoutSec int    `yaml:"timeout_seconds"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"api"`
	Symbols []string `yaml:"symbols"`
	Storage struct {
		Bucket   string `yaml:"bucket"`
		Region   string `yaml:"region"`
		Prefix   string `yaml:"prefix"`
		Disabled bool   `yaml:"disabled"`
	} `yaml:"storage"`
	Notify struct {
		SlackWebhookURL string `yaml:"slack_webhook_url"`
	} `yaml:"notify"`
	Bulk struct {
		RequestsPerMinute int `yaml:"requests_per_minute"`
	} `yaml:"bulk"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	MockMode bool `yaml:"mock_mode"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("STOCK_SYMBOLS"); v != "" {
		cfg.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Storage.Bucket = stripComment(v)
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("S3_PREFIX"); v != "" {
		cfg.Storage.Prefix = v
	}
	if v := os.Getenv("SAVE_TO_S3"); v != "" {
		cfg.Storage.Disabled = !parseBool(v)
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Notify.SlackWebhookURL = v
	}
	if v := os.Getenv("BULK_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Bulk.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("MOCK_MODE"); v != "" {
		cfg.MockMode = parseBool(v)
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://www.alphavantage.co/query"
	}
	if cfg.API.TimeoutSec == 0 {
		cfg.API.TimeoutSec = 10
	}
	if cfg.API.MaxRetries == 0 {
		cfg.API.MaxRetries = 3
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []string{"NVDA"}
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-northeast-1"
	}
	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "stock-data"
	}
	if cfg.Bulk.RequestsPerMinute == 0 {
		cfg.Bulk.RequestsPerMinute = 5
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 22 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are set for a live run.
func (c *Config) Validate() error {
	if !c.MockMode && c.API.Key == "" {
		return fmt.Errorf("api.key is required (set ALPHA_VANTAGE_API_KEY)")
	}
	if !c.MockMode && !c.Storage.Disabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required (set S3_BUCKET)")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	return nil
}

// APITimeout returns the fixed request timeout for API calls.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// splitSymbols parses the comma-separated STOCK_SYMBOLS form, tolerating an
// inline comment after '#'.
func splitSymbols(s string) []string {
	s = stripComment(s)
	var symbols []string
	for _, part := range strings.Split(s, ",") {
		if sym := strings.TrimSpace(part); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

func stripComment(s string) string {
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
