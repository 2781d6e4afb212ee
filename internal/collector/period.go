package collector

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPeriod is returned for a lookback period that cannot be mapped to a provider range.
var ErrInvalidPeriod = errors.New("invalid period")

var periodRe = regexp.MustCompile(`^(\d+)\s*([a-z]+)$`)

var periodUnits = map[string]string{
	"d": "d", "day": "d", "days": "d",
	"wk": "wk", "w": "wk", "week": "wk", "weeks": "wk",
	"mo": "mo", "month": "mo", "months": "mo",
	"y": "y", "yr": "y", "yrs": "y", "year": "y", "years": "y",
}

// NormalizePeriod maps "1y", "6mo", "1 year", "30 days", "ytd" or "max" to
// the Yahoo range form ("1y", "6mo", "30d", "ytd", "max").
func NormalizePeriod(period string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	switch p {
	case "ytd", "max":
		return p, nil
	}
	m := periodRe.FindStringSubmatch(p)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	unit, ok := periodUnits[m[2]]
	if !ok || strings.TrimLeft(m[1], "0") == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return strings.TrimLeft(m[1], "0") + unit, nil
}
