package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Matches amounts like "85.000 €", "85,000 EUR", "90000 euro", "95 €"
// (two-or-three digit shorthand means thousands).
var salaryRe = regexp.MustCompile(`(\d{2,3})[.,]?(\d{3})?\s*(?:€|eur|euro)`)

// DetectSalary extracts an annual EUR amount from free text. Ambiguous
// or absent amounts return ok=false; scoring treats that as neutral.
func DetectSalary(text string) (amount int, ok bool) {
	m := salaryRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}

	head, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		tail, err := strconv.Atoi(m[1] + m[2])
		if err != nil {
			return 0, false
		}
		return tail, true
	}
	// "85 €" style shorthand: treat as thousands
	return head * 1000, true
}
