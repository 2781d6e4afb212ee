package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockAnalyzer/internal/model"
)

// ErrInvalidWindow is returned for a non-positive moving average window.
var ErrInvalidWindow = errors.New("window must be positive")

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingSMA returns a slice aligned with values where entry i is the mean of
// values[i-window+1..i]. Entries before the window fills are NaN.
func RollingSMA(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i], _ = CalculateSMA(values[:i+1], window)
	}
	return out, nil
}

// AddMovingAverages computes the short and long close SMAs and stores them on
// the series.
func AddMovingAverages(series *model.PriceSeries, shortWindow, longWindow int) error {
	closes := series.Closes()
	short, err := RollingSMA(closes, shortWindow)
	if err != nil {
		return fmt.Errorf("short window %d: %w", shortWindow, err)
	}
	long, err := RollingSMA(closes, longWindow)
	if err != nil {
		return fmt.Errorf("long window %d: %w", longWindow, err)
	}
	series.ShortWindow = shortWindow
	series.LongWindow = longWindow
	series.MAShort = short
	series.MALong = long
	return nil
}
