// Package analytics aggregates normalized offers into market indicators:
// skill frequencies, salary coverage, locations and related job titles.
package analytics

import (
	"errors"
	"math"
)

var ErrUnknownSource = errors.New("unknown source")

func pct(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round(100*float64(count)/float64(total), 2)
}

func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}
