package store

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"StockAnalyzer/internal/model"
)

// DateLayout is the format of the Date column.
const DateLayout = "2006-01-02"

// csvRow is one line of the OHLCV dump.
type csvRow struct {
	Date   string  `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume float64 `csv:"Volume"`

	Dividends   float64 `csv:"Dividends"`
	StockSplits float64 `csv:"Stock Splits"`
}

// WriteCSV writes bars to path with a header row, replacing any existing file.
func WriteCSV(path string, bars []model.OHLCV) error {
	rows := make([]*csvRow, len(bars))
	for i, b := range bars {
		rows[i] = &csvRow{
			Date:   b.Time.Format(DateLayout),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,

			Dividends:   b.Dividends,
			StockSplits: b.StockSplits,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Sync()
}

// ReadCSV loads a table previously written by WriteCSV. Dates are parsed in UTC.
func ReadCSV(path string) ([]model.OHLCV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	var rows []*csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(rows))
	for i, r := range rows {
		t, err := time.Parse(DateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse date %q: %w", i+1, r.Date, err)
		}
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,

			Dividends:   r.Dividends,
			StockSplits: r.StockSplits,
		})
	}
	return bars, nil
}
