package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockAnalyzer/internal/collector"
)

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Analysis struct {
		Symbol      string `yaml:"symbol"`
		Period      string `yaml:"period"`
		ShortWindow int    `yaml:"short_window"`
		LongWindow  int    `yaml:"long_window"`
	} `yaml:"analysis"`
	Output struct {
		Dir     string `yaml:"dir"`
		Parquet bool   `yaml:"parquet"`
		Show    *bool  `yaml:"show"`
		DPI     int    `yaml:"dpi"`
	} `yaml:"output"`
	DataSource struct {
		BaseURL        string  `yaml:"base_url"`
		Proxy          string  `yaml:"proxy"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		MaxRetries     int     `yaml:"max_retries"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		AutoAdjust     *bool   `yaml:"auto_adjust"`
	} `yaml:"data_source"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads .env, then config from a YAML file, then applies environment
// variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

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
	if v := os.Getenv("ANALYZER_SYMBOL"); v != "" {
		cfg.Analysis.Symbol = v
	}
	if v := os.Getenv("ANALYZER_PERIOD"); v != "" {
		cfg.Analysis.Period = v
	}
	if v := os.Getenv("ANALYZER_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("ANALYZER_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.MaxRetries = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("ANALYZER_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Analysis.Symbol == "" {
		cfg.Analysis.Symbol = "AAPL"
	}
	if cfg.Analysis.Period == "" {
		cfg.Analysis.Period = "1y"
	}
	if cfg.Analysis.ShortWindow == 0 {
		cfg.Analysis.ShortWindow = 5
	}
	if cfg.Analysis.LongWindow == 0 {
		cfg.Analysis.LongWindow = 20
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data"
	}
	if cfg.Output.Show == nil {
		cfg.Output.Show = boolPtr(true)
	}
	if cfg.Output.DPI == 0 {
		cfg.Output.DPI = 300
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = collector.DefaultYahooBaseURL
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.DataSource.RequestsPerSec == 0 {
		cfg.DataSource.RequestsPerSec = 2
	}
	if cfg.DataSource.AutoAdjust == nil {
		cfg.DataSource.AutoAdjust = boolPtr(true)
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 30 16 * * 1-5"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func boolPtr(b bool) *bool { return &b }

// ShowChart reports whether the rendered chart should be displayed.
func (c *Config) ShowChart() bool { return c.Output.Show == nil || *c.Output.Show }

// SetShowChart overrides output.show.
func (c *Config) SetShowChart(show bool) { c.Output.Show = boolPtr(show) }

// AutoAdjust reports whether prices are adjusted for splits and dividends.
func (c *Config) AutoAdjust() bool {
	return c.DataSource.AutoAdjust == nil || *c.DataSource.AutoAdjust
}

// Timeout returns the HTTP timeout for the data source.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Analysis.Symbol == "" {
		return errors.New("analysis.symbol is required")
	}
	if _, err := collector.NormalizePeriod(c.Analysis.Period); err != nil {
		return fmt.Errorf("analysis.period: %w", err)
	}
	if c.Analysis.ShortWindow <= 0 {
		return fmt.Errorf("analysis.short_window must be positive, got %d", c.Analysis.ShortWindow)
	}
	if c.Analysis.LongWindow <= 0 {
		return fmt.Errorf("analysis.long_window must be positive, got %d", c.Analysis.LongWindow)
	}
	if c.Output.DPI <= 0 {
		return fmt.Errorf("output.dpi must be positive, got %d", c.Output.DPI)
	}
	if c.DataSource.MaxRetries < 0 {
		return errors.New("data_source.max_retries must not be negative")
	}
	return nil
}
