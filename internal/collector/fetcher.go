package collector

import (
	"context"
	"errors"

	"StockAnalyzer/internal/model"
)

// ErrNoData is returned when a source yields no bars for a symbol.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching daily market history.
type Fetcher interface {
	// FetchHistory returns the daily bars of symbol over the trailing period,
	// oldest first. period is in the form accepted by NormalizePeriod.
	FetchHistory(ctx context.Context, symbol, period string) ([]model.OHLCV, error)
	Name() string
}
