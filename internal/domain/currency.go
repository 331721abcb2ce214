package domain

// BaseCurrency is the currency all NBP table A rates are quoted against.
// It never appears in provider responses and its rate is 1.0 by definition.
const BaseCurrency = "PLN"

// Currency is one row of the NBP table A snapshot. The JSON field names
// follow the NBP payload so the API relays rows unchanged.
type Currency struct {
	Name string  `json:"currency"`
	Code string  `json:"code"`
	Mid  float64 `json:"mid"`
}

// BaseCurrencyEntry is the PLN row callers prepend to provider results;
// the provider itself never returns the base currency.
func BaseCurrencyEntry() Currency {
	return Currency{Name: "Polish zloty", Code: BaseCurrency, Mid: 1.0}
}

// ValidCode reports whether code looks like an ISO 4217 currency code:
// exactly three uppercase ASCII letters.
func ValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
