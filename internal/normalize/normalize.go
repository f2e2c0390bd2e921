package normalize

import (
	"strings"
	"time"

	"jobscout/internal/domain"
)

// Drop reasons surfaced in run counters and logs.
const (
	ReasonMissingIdentity = "missing_identity"
)

// Normalize converts a raw source record into a canonical Posting.
// It is a pure transformation: no I/O, no shared state. Records without
// a usable URL are dropped with ReasonMissingIdentity, never scored.
func Normalize(raw domain.RawRecord) (domain.Posting, string) {
	url := strings.TrimSpace(raw.URL)
	if url == "" {
		return domain.Posting{}, ReasonMissingIdentity
	}

	p := domain.Posting{
		Title:    CleanText(raw.Title),
		Company:  CleanText(raw.Company),
		Location: CleanText(raw.Location),
		URL:      url,
		Source:   CleanText(raw.Source),
	}
	p.LocationKey = strings.ToLower(p.Location)
	p.TextBlob = buildBlob(raw)

	if amount, ok := DetectSalary(raw.SalaryInfo + " " + clip(raw.Description, 1000)); ok {
		p.Salary = amount
		p.HasSalary = true
	}

	if raw.PostedAt != "" {
		if t, err := time.Parse(time.RFC3339, raw.PostedAt); err == nil {
			p.PostedAt = &t
		} else if t, err := time.Parse("2006-01-02", raw.PostedAt); err == nil {
			p.PostedAt = &t
		}
	}

	return p, ""
}

// buildBlob concatenates every keyword-bearing field, lower-cased, to
// maximize recall in the keyword pass.
func buildBlob(raw domain.RawRecord) string {
	parts := []string{raw.Title, raw.Company, raw.Description, raw.Location, raw.SalaryInfo}
	return strings.ToLower(CleanText(strings.Join(parts, " ")))
}

// CleanText collapses whitespace (including NBSP and embedded newlines)
// and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
