package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"StockAnalyzer/internal/collector"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANALYZER_SYMBOL", "ANALYZER_PERIOD", "ANALYZER_OUTPUT_DIR", "YAHOO_BASE_URL",
		"HTTPS_PROXY", "ANALYZER_MAX_RETRIES", "SQLITE_PATH", "ANALYZER_CRON", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	// Keep godotenv away from any .env in the package directory.
	// os.Chdir + Cleanup restore: equivalent of t.Chdir (Go 1.24+) for older toolchains.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Analysis.Symbol != "AAPL" || cfg.Analysis.Period != "1y" {
		t.Errorf("analysis = %s/%s, want AAPL/1y", cfg.Analysis.Symbol, cfg.Analysis.Period)
	}
	if cfg.Analysis.ShortWindow != 5 || cfg.Analysis.LongWindow != 20 {
		t.Errorf("windows = %d/%d, want 5/20", cfg.Analysis.ShortWindow, cfg.Analysis.LongWindow)
	}
	if cfg.Output.Dir != "data" || cfg.Output.DPI != 300 || !cfg.ShowChart() {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.DataSource.MaxRetries != 0 || !cfg.AutoAdjust() {
		t.Errorf("unexpected data source defaults: %+v", cfg.DataSource)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Analysis.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want default", cfg.Analysis.Symbol)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
analysis:
  symbol: MSFT
  period: 6mo
  short_window: 10
  long_window: 50
output:
  dir: out
  show: false
  parquet: true
data_source:
  auto_adjust: false
  max_retries: 3
log_level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ANALYZER_SYMBOL", "TSLA")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.Symbol != "TSLA" {
		t.Errorf("env override: symbol = %q, want TSLA", cfg.Analysis.Symbol)
	}
	if cfg.Analysis.Period != "6mo" || cfg.Analysis.ShortWindow != 10 || cfg.Analysis.LongWindow != 50 {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Output.Dir != "out" || cfg.ShowChart() || !cfg.Output.Parquet {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.AutoAdjust() || cfg.DataSource.MaxRetries != 3 {
		t.Errorf("data source = %+v", cfg.DataSource)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	// Unset values still get defaults.
	if cfg.Output.DPI != 300 {
		t.Errorf("dpi = %d, want 300", cfg.Output.DPI)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("analysis: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"short not less than long", func(c *Config) { c.Analysis.ShortWindow = 30 }, false},
		{"zero short", func(c *Config) { c.Analysis.ShortWindow = -1 }, true},
		{"negative long", func(c *Config) { c.Analysis.LongWindow = -5 }, true},
		{"bad period", func(c *Config) { c.Analysis.Period = "forever" }, true},
		{"empty symbol", func(c *Config) { c.Analysis.Symbol = "" }, true},
		{"bad dpi", func(c *Config) { c.Output.DPI = -1 }, true},
		{"negative retries", func(c *Config) { c.DataSource.MaxRetries = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_PeriodErrorIsTyped(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Period = "sometime"
	if err := cfg.Validate(); !errors.Is(err, collector.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}
