package store

import "path/filepath"

// CSVPath returns where the raw OHLCV table of symbol is dumped.
func CSVPath(dir, symbol string) string {
	return filepath.Join(dir, symbol+"_stock_data.csv")
}

// ParquetPath returns where the Parquet export of symbol is written.
func ParquetPath(dir, symbol string) string {
	return filepath.Join(dir, symbol+"_stock_data.parquet")
}

// ChartPath returns where the rendered chart of symbol is saved.
func ChartPath(dir, symbol string) string {
	return filepath.Join(dir, symbol+"_analysis.png")
}
