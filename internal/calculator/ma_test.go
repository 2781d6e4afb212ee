package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockAnalyzer/internal/model"
)

func assertClose(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %.6f, want %.6f", label, got, want)
	}
}

func seriesFromCloses(closes []float64) *model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "SMA(3)", got, 4)

	if _, err := CalculateSMA([]float64{1, 2}, 3); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestRollingSMA_MatchesTrailingMean(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14, 15, 16, 15.5, 14.25, 18}
	for _, window := range []int{1, 2, 3, 5, 10} {
		out, err := RollingSMA(values, window)
		if err != nil {
			t.Fatalf("window %d: %v", window, err)
		}
		if len(out) != len(values) {
			t.Fatalf("window %d: length %d, want %d", window, len(out), len(values))
		}
		for i := range values {
			if i < window-1 {
				if !math.IsNaN(out[i]) {
					t.Errorf("window %d index %d: expected NaN, got %f", window, i, out[i])
				}
				continue
			}
			sum := 0.0
			for j := i - window + 1; j <= i; j++ {
				sum += values[j]
			}
			assertClose(t, "rolling", out[i], sum/float64(window))
		}
	}
}

func TestRollingSMA_WindowLongerThanInput(t *testing.T) {
	out, err := RollingSMA([]float64{1, 2, 3}, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN, got %f", i, v)
		}
	}
}

func TestRollingSMA_InvalidWindow(t *testing.T) {
	for _, w := range []int{0, -3} {
		if _, err := RollingSMA([]float64{1, 2, 3}, w); !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("window %d: expected ErrInvalidWindow, got %v", w, err)
		}
	}
}

func TestAddMovingAverages_Alignment(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	s := seriesFromCloses(closes)
	if err := AddMovingAverages(s, 5, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.HasMovingAverages() {
		t.Fatal("expected both MA columns aligned with bars")
	}
	if s.ShortWindow != 5 || s.LongWindow != 20 {
		t.Errorf("windows = %d/%d, want 5/20", s.ShortWindow, s.LongWindow)
	}
	for i := range s.Bars {
		if s.Bars[i].Close != closes[i] {
			t.Fatalf("bar %d close changed", i)
		}
		shortDefined := !math.IsNaN(s.MAShort[i])
		longDefined := !math.IsNaN(s.MALong[i])
		if shortDefined != (i >= 4) {
			t.Errorf("index %d: short defined=%v", i, shortDefined)
		}
		if longDefined != (i >= 19) {
			t.Errorf("index %d: long defined=%v", i, longDefined)
		}
		if longDefined && !shortDefined {
			t.Errorf("index %d: long MA defined before short MA", i)
		}
	}
}

func TestAddMovingAverages_RejectsBadWindow(t *testing.T) {
	s := seriesFromCloses([]float64{1, 2, 3})
	if err := AddMovingAverages(s, 0, 20); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
	if s.MAShort != nil || s.MALong != nil {
		t.Error("series must not be modified on error")
	}
}
