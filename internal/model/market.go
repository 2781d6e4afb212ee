package model

import (
	"math"
	"time"
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	// Dividends is the cash dividend paid on the day, StockSplits the split
	// ratio taking effect. Both are 0 on ordinary days.
	Dividends   float64
	StockSplits float64
}

// PriceSeries holds the daily bars of one symbol plus the derived moving
// average columns. MAShort and MALong are nil until computed, otherwise they
// are aligned 1:1 with Bars and hold NaN where the window is not yet full.
type PriceSeries struct {
	Symbol      string
	Bars        []OHLCV
	ShortWindow int
	LongWindow  int
	MAShort     []float64
	MALong      []float64
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close column.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// HasMovingAverages reports whether both MA columns are present and aligned.
func (s *PriceSeries) HasMovingAverages() bool {
	return len(s.MAShort) == len(s.Bars) && len(s.MALong) == len(s.Bars)
}

// Last returns the final bar and its MA values. ok is false for an empty series.
func (s *PriceSeries) Last() (bar OHLCV, short, long float64, ok bool) {
	n := len(s.Bars)
	if n == 0 {
		return OHLCV{}, math.NaN(), math.NaN(), false
	}
	short, long = math.NaN(), math.NaN()
	if s.HasMovingAverages() {
		short, long = s.MAShort[n-1], s.MALong[n-1]
	}
	return s.Bars[n-1], short, long, true
}
