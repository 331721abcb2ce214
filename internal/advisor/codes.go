package advisor

import "strings"

// ExtractCodes scans the user message for mentions of known currency codes.
// Returns deduplicated uppercase codes found.
func ExtractCodes(text string, known map[string]bool) []string {
	upper := strings.ToUpper(text)
	words := strings.FieldsFunc(upper, func(r rune) bool {
		return r < 'A' || r > 'Z'
	})

	seen := make(map[string]bool)
	var result []string
	for _, w := range words {
		if known[w] && !seen[w] {
			seen[w] = true
			result = append(result, w)
		}
	}
	return result
}
