package recorder

import "time"

// RunSnapshot summarizes one completed analysis run.
type RunSnapshot struct {
	RunID       string
	Timestamp   time.Time
	Symbol      string
	Period      string
	Source      string
	Rows        int
	FirstDate   time.Time
	LastDate    time.Time
	LastClose   float64
	MAShort     float64 // NaN when undefined
	MALong      float64 // NaN when undefined
	ShortWindow int
	LongWindow  int
	Patterns    int
	LastPattern string
	CSVPath     string
	ChartPath   string
	ParquetPath string
}

// Recorder persists the history of analysis runs.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
