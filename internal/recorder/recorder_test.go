package recorder

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "sub", "runs.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordAndQuery(t *testing.T) {
	r := openTestRecorder(t)

	base := time.Date(2024, 5, 3, 21, 0, 0, 0, time.UTC)
	first := &RunSnapshot{
		Timestamp: base, Symbol: "AAPL", Period: "1y", Source: "yahoo", Rows: 251,
		FirstDate: time.Date(2023, 5, 3, 0, 0, 0, 0, time.UTC), LastDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		LastClose: 183.38, MAShort: 175.2, MALong: 171.9, ShortWindow: 5, LongWindow: 20,
		Patterns: 1, LastPattern: "Golden Cross", CSVPath: "data/AAPL_stock_data.csv", ChartPath: "data/AAPL_analysis.png",
	}
	if err := r.RecordRun(first); err != nil {
		t.Fatalf("record: %v", err)
	}
	if first.RunID == "" {
		t.Error("expected a generated run ID")
	}

	second := &RunSnapshot{
		Timestamp: base.Add(time.Hour), Symbol: "MSFT", Period: "6mo", Rows: 12,
		LastClose: 406.66, MAShort: 400, MALong: math.NaN(), ShortWindow: 5, LongWindow: 20,
	}
	if err := r.RecordRun(second); err != nil {
		t.Fatalf("record: %v", err)
	}

	all, err := r.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 2 || all[0].Symbol != "MSFT" || all[1].Symbol != "AAPL" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if !math.IsNaN(all[0].MALong) {
		t.Errorf("undefined MA should round-trip as NaN, got %f", all[0].MALong)
	}

	aapl, err := r.RecentRuns("AAPL", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(aapl) != 1 {
		t.Fatalf("expected 1 AAPL run, got %d", len(aapl))
	}
	got := aapl[0]
	if got.RunID != first.RunID || got.Rows != 251 || got.LastClose != 183.38 || got.LastPattern != "Golden Cross" {
		t.Errorf("unexpected row %+v", got)
	}
	if !got.LastDate.Equal(first.LastDate) {
		t.Errorf("last date = %s, want %s", got.LastDate, first.LastDate)
	}
}

func TestSQLiteRecorder_DuplicateRunID(t *testing.T) {
	r := openTestRecorder(t)
	snap := &RunSnapshot{RunID: "fixed", Symbol: "AAPL"}
	if err := r.RecordRun(snap); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.RecordRun(&RunSnapshot{RunID: "fixed", Symbol: "AAPL"}); err == nil {
		t.Error("expected unique constraint violation")
	}
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordRun(&RunSnapshot{Symbol: "AAPL"}); err != nil {
		t.Fatal(err)
	}
	r.Close()

	r, err = NewSQLiteRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	runs, err := r.RecentRuns("AAPL", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run after reopen, got %d", len(runs))
	}
}

func TestExecAll_ShortStatementError(t *testing.T) {
	r := openTestRecorder(t)
	err := execAll(r.db, []string{"BOGUS"})
	if err == nil || !strings.Contains(err.Error(), `"BOGUS"`) {
		t.Errorf("expected error naming the statement, got %v", err)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordRun(&RunSnapshot{}); err != nil {
		t.Error(err)
	}
	if err := r.Close(); err != nil {
		t.Error(err)
	}
}
