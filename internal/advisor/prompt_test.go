package advisor

import (
	"strings"
	"testing"

	"kantor/internal/domain"
)

func TestBuildSystemPromptContainsPhilosophy(t *testing.T) {
	prompt := BuildSystemPrompt("some context")
	if !strings.Contains(prompt, "currency exchange assistant") {
		t.Fatal("expected exchange philosophy in prompt")
	}
	if !strings.Contains(prompt, "Polish zloty") {
		t.Fatal("expected base currency explanation in prompt")
	}
	if !strings.Contains(prompt, "CURRENT EXCHANGE RATES") {
		t.Fatal("expected rate data header in prompt")
	}
	if !strings.Contains(prompt, "some context") {
		t.Fatal("expected rate context in prompt")
	}
}

func TestFormatRateContextAllCurrencies(t *testing.T) {
	currencies := []domain.Currency{
		{Name: "euro", Code: "EUR", Mid: 4.3021},
		{Name: "US dollar", Code: "USD", Mid: 4.0005},
	}

	ctx := FormatRateContext(currencies, nil)
	if !strings.Contains(ctx, "EUR (euro): 4.3021 PLN") {
		t.Fatalf("expected EUR row, got: %s", ctx)
	}
	if !strings.Contains(ctx, "USD (US dollar): 4.0005 PLN") {
		t.Fatalf("expected USD row, got: %s", ctx)
	}
}

func TestFormatRateContextFiltersMentioned(t *testing.T) {
	currencies := []domain.Currency{
		{Name: "euro", Code: "EUR", Mid: 4.3},
		{Name: "US dollar", Code: "USD", Mid: 4.0},
		{Name: "Swiss franc", Code: "CHF", Mid: 4.5},
	}

	ctx := FormatRateContext(currencies, []string{"CHF"})
	if !strings.Contains(ctx, "CHF") {
		t.Fatal("expected CHF row")
	}
	if strings.Contains(ctx, "EUR") || strings.Contains(ctx, "USD") {
		t.Fatalf("expected only mentioned currencies, got: %s", ctx)
	}
}

func TestFormatRateContextEmpty(t *testing.T) {
	ctx := FormatRateContext(nil, nil)
	if ctx != "No exchange rate data currently available." {
		t.Fatalf("expected fallback text, got: %s", ctx)
	}
}
