// Package rates is the conversion and aggregation engine. It is pure: it
// performs no I/O and operates only on observations already fetched for the
// two legs of a currency pair.
package rates

import (
	"time"

	"kantor/internal/domain"
)

// Observation is one mid-rate reading for a quoted currency on a trading
// day. Mid is quoted in base-currency units per one unit of Code.
type Observation struct {
	Code string    `json:"code"`
	Date time.Time `json:"effectiveDate"`
	Mid  float64   `json:"mid"`
}

// Point is one chart point of a cross-rate series.
type Point struct {
	Label string    `json:"label"`
	Value float64   `json:"value"`
	Date  time.Time `json:"date"`
}

// Convert turns an amount of the from currency into the to currency, with
// both rates quoted against the same base currency.
func Convert(amount, fromRate, toRate float64) float64 {
	return amount * fromRate / toRate
}

// ConvertAmount converts at current mid-rates. Identical currencies are an
// identity conversion and skip the rate lookup entirely, so rounding noise
// from dividing a rate by itself cannot appear. A non-positive amount or a
// missing rate yields 0, the neutral "nothing entered yet" result.
// The result keeps full float precision; presentation layers round.
func ConvertAmount(amount float64, from, to string, mids map[string]float64) float64 {
	if amount <= 0 {
		return 0
	}
	if from == to {
		return amount
	}
	fromRate, ok := currentRate(from, mids)
	if !ok {
		return 0
	}
	toRate, ok := currentRate(to, mids)
	if !ok {
		return 0
	}
	return Convert(amount, fromRate, toRate)
}

func currentRate(code string, mids map[string]float64) (float64, bool) {
	if code == domain.BaseCurrency {
		return 1.0, true
	}
	mid, ok := mids[code]
	if !ok || mid <= 0 {
		return 0, false
	}
	return mid, true
}
