package rates

import (
	"fmt"
	"time"
)

// Range selects a chart window and the label granularity that goes with it:
// a week of daily points, a month of daily points, or a year of monthly
// averages.
type Range string

const (
	RangeWeek  Range = "1W"
	RangeMonth Range = "1M"
	RangeYear  Range = "1Y"
)

// SupportedRanges lists the chart ranges the API and TUI accept.
var SupportedRanges = []Range{RangeWeek, RangeMonth, RangeYear}

// ParseRange validates a user-supplied range string.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case RangeWeek, RangeMonth, RangeYear:
		return Range(s), nil
	}
	return "", fmt.Errorf("unsupported range: %q", s)
}

// Resolve returns the [start, end] date bounds for a query issued at now:
// seven days, one calendar month, or one calendar year back.
func (r Range) Resolve(now time.Time) (start, end time.Time) {
	end = now
	switch r {
	case RangeWeek:
		start = now.AddDate(0, 0, -7)
	case RangeMonth:
		start = now.AddDate(0, -1, 0)
	case RangeYear:
		start = now.AddDate(-1, 0, 0)
	default:
		start = now
	}
	return start, end
}

// Label formats the chart label for a date at this range's granularity.
func (r Range) Label(date time.Time) string {
	switch r {
	case RangeWeek:
		return date.Format("02 Mon")
	case RangeMonth:
		return date.Format("2 Jan")
	default:
		return date.Format("Jan")
	}
}
