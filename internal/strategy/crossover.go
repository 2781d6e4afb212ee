package strategy

import "StockAnalyzer/internal/model"

// lookbackRows bounds how many of the most recent rows are scanned.
const lookbackRows = 10

const (
	goldenCrossDescription = "Buy signal: Short-term MA crossed above long-term MA"
	deadCrossDescription   = "Sell signal: Short-term MA crossed below long-term MA"
)

// DetectPatterns scans the adjacent day pairs among the last
// min(10, len) rows, walking backward from the newest bar, and returns every
// golden or dead cross found, nearest date first.
// Pairs touching an undefined (NaN) average never match.
func DetectPatterns(series *model.PriceSeries) []model.Pattern {
	if series == nil || !series.HasMovingAverages() {
		return nil
	}
	n := series.Len()
	limit := n
	if limit > lookbackRows {
		limit = lookbackRows
	}

	var patterns []model.Pattern
	for i := 1; i < limit; i++ {
		cur := n - i
		prev := cur - 1

		prevShort, prevLong := series.MAShort[prev], series.MALong[prev]
		curShort, curLong := series.MAShort[cur], series.MALong[cur]
		bar := series.Bars[cur]

		if prevShort < prevLong && curShort > curLong {
			patterns = append(patterns, model.Pattern{
				Date:        bar.Time,
				Kind:        model.GoldenCross,
				Price:       bar.Close,
				Description: goldenCrossDescription,
			})
		}
		if prevShort > prevLong && curShort < curLong {
			patterns = append(patterns, model.Pattern{
				Date:        bar.Time,
				Kind:        model.DeadCross,
				Price:       bar.Close,
				Description: deadCrossDescription,
			})
		}
	}
	return patterns
}
