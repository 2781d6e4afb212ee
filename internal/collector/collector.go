package collector

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/store"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	Days      int
	DailyData []model.OHLCV
	Err       error

	Calls []string // symbol/period pairs requested
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol, period string) ([]model.OHLCV, error) {
	m.Calls = append(m.Calls, symbol+"/"+period)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	days := m.Days
	if days == 0 {
		days = 250
	}
	return generateMockBars(m.Price, days), nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// CSVFetcher serves history from a table previously dumped by a Collector.
// The period is ignored; the whole file is returned.
type CSVFetcher struct {
	Path string
}

func (c *CSVFetcher) Name() string { return "csv" }

func (c *CSVFetcher) FetchHistory(_ context.Context, _, _ string) ([]model.OHLCV, error) {
	bars, err := store.ReadCSV(c.Path)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", c.Path, ErrNoData)
	}
	return bars, nil
}

// Collector acquires the price table for one symbol and dumps it to disk.
type Collector struct {
	Fetcher   Fetcher
	OutputDir string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, outputDir string) *Collector {
	return &Collector{Fetcher: fetcher, OutputDir: outputDir}
}

// Collect fetches the daily history of symbol over period and writes it to
// <OutputDir>/<symbol>_stock_data.csv. It returns the series and the CSV path.
func (c *Collector) Collect(ctx context.Context, symbol, period string) (*model.PriceSeries, string, error) {
	bars, err := c.Fetcher.FetchHistory(ctx, symbol, period)
	if err != nil {
		return nil, "", fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, "", fmt.Errorf("fetch daily bars: %w", ErrNoData)
	}

	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return nil, "", fmt.Errorf("create output directory: %w", err)
	}
	path := store.CSVPath(c.OutputDir, symbol)
	if err := store.WriteCSV(path, bars); err != nil {
		return nil, "", fmt.Errorf("save %s: %w", path, err)
	}
	log.Debug().Str("component", "collector").Str("source", c.Fetcher.Name()).
		Str("symbol", symbol).Int("rows", len(bars)).Str("path", path).Msg("history saved")

	return &model.PriceSeries{Symbol: symbol, Bars: bars}, path, nil
}
