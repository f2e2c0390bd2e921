package dedupe

import (
	"testing"

	"jobscout/internal/domain"
)

var genericPatterns = []string{"/careers", "/jobs"}

func TestCanonicalizeURL(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		// tracking params are identity-irrelevant
		{"https://x.test/jobs/123?utm_source=mail&utm_campaign=a", "https://x.test/jobs/123"},
		{"https://x.test/jobs/123?gclid=abc", "https://x.test/jobs/123"},
		// trailing slash
		{"https://x.test/jobs/123/", "https://x.test/jobs/123"},
		// scheme-insensitive
		{"http://x.test/jobs/123", "https://x.test/jobs/123"},
		// host casing
		{"https://X.Test/jobs/123", "https://x.test/jobs/123"},
	}
	for _, c := range cases {
		if CanonicalizeURL(c.a) != CanonicalizeURL(c.b) {
			t.Errorf("canonical forms differ: %q=%q vs %q=%q",
				c.a, CanonicalizeURL(c.a), c.b, CanonicalizeURL(c.b))
		}
	}
}

func TestCanonicalizeURLKeepsMeaningfulQuery(t *testing.T) {
	a := CanonicalizeURL("https://x.test/jobs?id=1")
	b := CanonicalizeURL("https://x.test/jobs?id=2")
	if a == b {
		t.Errorf("distinct job ids collapsed: %q", a)
	}
}

func TestFingerprintStability(t *testing.T) {
	f := New(genericPatterns)
	a := f.Fingerprint(domain.Posting{URL: "https://x.test/jobs/123?utm_source=mail", Source: "s", Title: "T"})
	b := f.Fingerprint(domain.Posting{URL: "http://x.test/jobs/123/", Source: "s", Title: "T"})
	if a != b {
		t.Errorf("fingerprints differ for same listing: %q vs %q", a, b)
	}
}

func TestFingerprintGenericFallbackKeepsRolesDistinct(t *testing.T) {
	f := New(genericPatterns)
	a := f.Fingerprint(domain.Posting{URL: "https://acme.test/careers", Source: "careers:ACME", Title: "Director of Strategy"})
	b := f.Fingerprint(domain.Posting{URL: "https://acme.test/careers", Source: "careers:ACME", Title: "Head of Innovation"})
	if a == b {
		t.Errorf("distinct roles on generic page collapsed")
	}
}

func TestFingerprintGenericFallbackCollapsesBoilerplate(t *testing.T) {
	f := New(genericPatterns)
	// empty titles on a catch-all page: one stub per source, not 40 new jobs
	a := f.Fingerprint(domain.Posting{URL: "https://acme.test/careers/", Source: "careers:ACME"})
	b := f.Fingerprint(domain.Posting{URL: "https://acme.test/careers", Source: "careers:ACME"})
	if a != b {
		t.Errorf("boilerplate stubs from one source did not collapse")
	}
	// but a different source stays distinct
	c := f.Fingerprint(domain.Posting{URL: "https://other.test/careers", Source: "careers:Other"})
	if a == c {
		t.Errorf("stubs from different sources collapsed")
	}
}

func TestFingerprintSpecificPageIgnoresTitle(t *testing.T) {
	f := New(genericPatterns)
	a := f.Fingerprint(domain.Posting{URL: "https://x.test/jobs/123", Source: "s", Title: "A"})
	b := f.Fingerprint(domain.Posting{URL: "https://x.test/jobs/123", Source: "s", Title: "B"})
	if a != b {
		t.Errorf("title changed identity of a specific posting URL")
	}
}
