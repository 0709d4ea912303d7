package pricing

import "fmt"

// FormatCents renders integer cents in the fixed "$X.YY" convention the
// views expect: 99900 -> "$999.00".
func FormatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// FormatRange renders a min-max price range, collapsing to a single
// value when they are equal.
func FormatRange(minCents, maxCents int) string {
	if minCents == maxCents {
		return FormatCents(minCents)
	}
	return fmt.Sprintf("%s - %s", FormatCents(minCents), FormatCents(maxCents))
}
