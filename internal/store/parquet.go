package store

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"StockAnalyzer/internal/model"
)

// parquetRow is one bar with its moving averages. Undefined averages are null.
type parquetRow struct {
	Symbol    string   `parquet:"name=symbol, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Timestamp int64    `parquet:"name=timestamp, type=INT64, encoding=DELTA_BINARY_PACKED"`
	Date      string   `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Open      float64  `parquet:"name=open, type=DOUBLE, encoding=PLAIN"`
	High      float64  `parquet:"name=high, type=DOUBLE, encoding=PLAIN"`
	Low       float64  `parquet:"name=low, type=DOUBLE, encoding=PLAIN"`
	Close     float64  `parquet:"name=close, type=DOUBLE, encoding=PLAIN"`
	Volume    float64  `parquet:"name=volume, type=DOUBLE, encoding=PLAIN"`
	Dividends float64  `parquet:"name=dividends, type=DOUBLE, encoding=PLAIN"`
	Splits    float64  `parquet:"name=stock_splits, type=DOUBLE, encoding=PLAIN"`
	MAShort   *float64 `parquet:"name=ma_short, type=DOUBLE, repetitiontype=OPTIONAL"`
	MALong    *float64 `parquet:"name=ma_long, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// WriteParquet exports the series, including computed averages, to path.
func WriteParquet(path string, series *model.PriceSeries) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 4)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	withMA := series.HasMovingAverages()
	for i, b := range series.Bars {
		row := parquetRow{
			Symbol:    series.Symbol,
			Timestamp: b.Time.Unix(),
			Date:      b.Time.Format(DateLayout),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			Dividends: b.Dividends,
			Splits:    b.StockSplits,
		}
		if withMA {
			row.MAShort = optional(series.MAShort[i])
			row.MALong = optional(series.MALong[i])
		}
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("write parquet row %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	log.Debug().Str("path", path).Int("rows", len(series.Bars)).Msg("parquet export written")
	return nil
}

func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
