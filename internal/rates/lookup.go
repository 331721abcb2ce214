package rates

import (
	"time"

	"kantor/internal/domain"
)

// Lookup resolves one leg's rate for a calendar date. It has two variants:
// the base currency (always 1.0, no observations behind it) and a quoted
// currency backed by fetched observations keyed by date. Centralizing the
// distinction here keeps base-currency conditionals out of the engine loops.
type Lookup struct {
	base   bool
	byDate map[string]float64
}

// BaseLookup returns the base-currency variant.
func BaseLookup() Lookup {
	return Lookup{base: true}
}

// QuotedLookup builds a date-keyed lookup from a fetched series.
func QuotedLookup(series []Observation) Lookup {
	byDate := make(map[string]float64, len(series))
	for _, obs := range series {
		byDate[dateKey(obs.Date)] = obs.Mid
	}
	return Lookup{byDate: byDate}
}

// LookupFor picks the variant for a currency code.
func LookupFor(code string, series []Observation) Lookup {
	if code == domain.BaseCurrency {
		return BaseLookup()
	}
	return QuotedLookup(series)
}

// Rate returns the leg's rate on date. For the base currency it is always
// 1.0; for a quoted currency it is the observation's mid, absent when the
// provider had no reading for that date.
func (l Lookup) Rate(date time.Time) (float64, bool) {
	if l.base {
		return 1.0, true
	}
	mid, ok := l.byDate[dateKey(date)]
	return mid, ok
}

// IsBase reports whether this is the base-currency variant.
func (l Lookup) IsBase() bool {
	return l.base
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
