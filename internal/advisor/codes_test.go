package advisor

import "testing"

var knownCodes = map[string]bool{"EUR": true, "USD": true, "CHF": true, "GBP": true, "PLN": true}

func TestExtractCodesSingleMention(t *testing.T) {
	got := ExtractCodes("What about CHF?", knownCodes)
	if len(got) != 1 || got[0] != "CHF" {
		t.Fatalf("expected [CHF], got %v", got)
	}
}

func TestExtractCodesMultipleMentions(t *testing.T) {
	got := ExtractCodes("Compare EUR and USD", knownCodes)
	if len(got) != 2 {
		t.Fatalf("expected 2 codes, got %v", got)
	}
	codes := map[string]bool{}
	for _, c := range got {
		codes[c] = true
	}
	if !codes["EUR"] || !codes["USD"] {
		t.Fatalf("expected EUR and USD, got %v", got)
	}
}

func TestExtractCodesNoMention(t *testing.T) {
	got := ExtractCodes("Which rate looks good right now?", knownCodes)
	if len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestExtractCodesCaseInsensitive(t *testing.T) {
	got := ExtractCodes("how's chf doing?", knownCodes)
	if len(got) != 1 || got[0] != "CHF" {
		t.Fatalf("expected [CHF], got %v", got)
	}
}

func TestExtractCodesDeduplication(t *testing.T) {
	got := ExtractCodes("EUR EUR EUR is the best EUR", knownCodes)
	if len(got) != 1 || got[0] != "EUR" {
		t.Fatalf("expected [EUR], got %v", got)
	}
}

func TestExtractCodesUnknownIgnored(t *testing.T) {
	got := ExtractCodes("Should I hold XYZ or GBP?", knownCodes)
	if len(got) != 1 || got[0] != "GBP" {
		t.Fatalf("expected [GBP], got %v", got)
	}
}
