package domain

import "testing"

func TestValidCode(t *testing.T) {
	valid := []string{"USD", "EUR", "PLN", "CHF"}
	for _, code := range valid {
		if !ValidCode(code) {
			t.Errorf("expected %q to be valid", code)
		}
	}

	invalid := []string{"", "us", "usd", "USDX", "U$D", "12A"}
	for _, code := range invalid {
		if ValidCode(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}

func TestBaseCurrencyEntry(t *testing.T) {
	entry := BaseCurrencyEntry()
	if entry.Code != BaseCurrency {
		t.Fatalf("expected code %s, got %s", BaseCurrency, entry.Code)
	}
	if entry.Mid != 1.0 {
		t.Fatalf("base currency mid must be exactly 1.0, got %f", entry.Mid)
	}
}
