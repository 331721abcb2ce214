package advisor

import (
	"fmt"
	"strings"
	"time"

	"kantor/internal/domain"
)

const exchangePhilosophy = `You are a currency exchange assistant for a kantor (exchange office). Your role is to explain published exchange rates and help users understand conversions, NOT to predict future rates.

Rules:
- All rates are mid rates quoted against the Polish zloty (PLN). A rate of 4.30 for EUR means 1 EUR = 4.30 PLN.
- To convert between two non-PLN currencies, go through PLN: amount * fromRate / toRate.
- Always reference the actual rates from the table below when making observations.
- Never fabricate rates. If a currency is not in the table, say so.
- Do not speculate about where rates are heading. You may describe how a rate compares to others in the table.
- Keep responses concise. You are talking via Telegram.
- When asked about a currency, summarize its current rate and show an example conversion if helpful.`

func BuildSystemPrompt(rateContext string) string {
	var sb strings.Builder
	sb.WriteString(exchangePhilosophy)
	sb.WriteString("\n\n--- CURRENT EXCHANGE RATES (as of ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	sb.WriteString(") ---\n")
	sb.WriteString(rateContext)
	return sb.String()
}

// FormatRateContext renders the rate table for the system prompt. When the
// user mentioned specific currencies, only those rows are included.
func FormatRateContext(currencies []domain.Currency, mentioned []string) string {
	wanted := make(map[string]bool, len(mentioned))
	for _, code := range mentioned {
		wanted[code] = true
	}

	var sb strings.Builder
	for _, c := range currencies {
		if len(wanted) > 0 && !wanted[c.Code] {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s (%s): %.4f PLN\n", c.Code, c.Name, c.Mid))
	}

	if sb.Len() == 0 {
		return "No exchange rate data currently available."
	}
	return "\nMid rates against PLN:\n" + sb.String()
}
