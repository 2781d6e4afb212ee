package notifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"StockAnalyzer/internal/model"
)

const ruleWidth = 60

// FormatBanner frames a title between two horizontal rules.
func FormatBanner(title string) string {
	rule := strings.Repeat("=", ruleWidth)
	return rule + "\n" + title + "\n" + rule + "\n"
}

// FormatPrice renders a price as dollars with two decimals, rounding the
// exact binary value as printf does.
func FormatPrice(price float64) string {
	return "$" + fixed2(price)
}

func fixed2(v float64) string {
	return decimal.RequireFromString(strconv.FormatFloat(v, 'f', 2, 64)).StringFixed(2)
}

// FormatPatterns lists detected crossovers, or says none were found.
func FormatPatterns(patterns []model.Pattern) string {
	if len(patterns) == 0 {
		return "\n✓ No recent patterns detected\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n🎯 Found %d pattern(s):\n", len(patterns)))
	for _, p := range patterns {
		b.WriteString(fmt.Sprintf("\n  📅 Date: %s\n", p.Date.Format("2006-01-02")))
		b.WriteString(fmt.Sprintf("  📊 Type: %s\n", p.Kind))
		b.WriteString(fmt.Sprintf("  💵 Price: %s\n", FormatPrice(p.Price)))
		b.WriteString(fmt.Sprintf("  📝 %s\n", p.Description))
	}
	return b.String()
}

// FormatMovingAverages announces the windows being computed.
func FormatMovingAverages(short, long int) string {
	return fmt.Sprintf("\nCalculating moving averages...\nShort MA: %d days\nLong MA: %d days\n", short, long)
}

// FormatSummary reports the latest bar and its averages.
func FormatSummary(series *model.PriceSeries) string {
	bar, short, long, ok := series.Last()
	if !ok {
		return ""
	}
	return fmt.Sprintf("\nLatest %s close on %s: %s (MA%d %s, MA%d %s)\n",
		series.Symbol, bar.Time.Format("2006-01-02"), FormatPrice(bar.Close),
		series.ShortWindow, formatAverage(short), series.LongWindow, formatAverage(long))
}

func formatAverage(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fixed2(v)
}
