package rates

import (
	"sort"
	"time"
)

// BuildSeries combines two legs' observations into an ordered cross-rate
// series. Legs are aligned by calendar date, never by slice position: a
// point is emitted only when both legs have a rate for the date, so a
// trading-day gap on one leg drops that date instead of pairing mismatched
// observations.
//
// The driving dates come from the from leg when it is quoted, otherwise
// from the to leg. A pair of identical currencies yields an empty series
// for every range; a self-conversion chart is defined as empty, not flat.
func BuildSeries(from, to string, fromSeries, toSeries []Observation, rng Range) []Point {
	if from == to {
		return nil
	}

	fromLeg := LookupFor(from, fromSeries)
	toLeg := LookupFor(to, toSeries)

	driving := fromSeries
	if fromLeg.IsBase() {
		driving = toSeries
	}

	dates := make([]time.Time, 0, len(driving))
	for _, obs := range driving {
		dates = append(dates, obs.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if rng == RangeYear {
		return buildMonthly(fromLeg, toLeg, dates, rng)
	}
	return buildDaily(fromLeg, toLeg, dates, rng)
}

func crossRate(fromLeg, toLeg Lookup, date time.Time) (float64, bool) {
	fromRate, ok := fromLeg.Rate(date)
	if !ok {
		return 0, false
	}
	toRate, ok := toLeg.Rate(date)
	if !ok {
		return 0, false
	}
	return fromRate / toRate, true
}

func buildDaily(fromLeg, toLeg Lookup, dates []time.Time, rng Range) []Point {
	points := make([]Point, 0, len(dates))
	for _, d := range dates {
		value, ok := crossRate(fromLeg, toLeg, d)
		if !ok {
			continue
		}
		points = append(points, Point{Label: rng.Label(d), Value: value, Date: d})
	}
	return points
}

// buildMonthly emits at most one point per month label. The first date of a
// month encountered in ascending order fixes the point's position; its value
// is the arithmetic mean of every aligned cross-rate carrying that month
// label across the whole window.
func buildMonthly(fromLeg, toLeg Lookup, dates []time.Time, rng Range) []Point {
	var points []Point
	seen := make(map[time.Month]bool)

	for _, d := range dates {
		month := d.Month()
		if seen[month] {
			continue
		}
		seen[month] = true

		sum := 0.0
		n := 0
		for _, md := range dates {
			if md.Month() != month {
				continue
			}
			if v, ok := crossRate(fromLeg, toLeg, md); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		points = append(points, Point{Label: rng.Label(d), Value: sum / float64(n), Date: d})
	}
	return points
}
