package dedupe

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"jobscout/internal/domain"
)

// Fingerprinter derives stable cross-run identities for postings.
type Fingerprinter struct {
	genericPatterns []string
}

func New(genericURLPatterns []string) *Fingerprinter {
	pats := make([]string, 0, len(genericURLPatterns))
	for _, p := range genericURLPatterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			pats = append(pats, p)
		}
	}
	return &Fingerprinter{genericPatterns: pats}
}

// Fingerprint hashes the canonical URL. When the URL matches a generic
// listing-page pattern (a company's catch-all /careers root), identity
// falls back to source + normalized title so distinct roles on one page
// stay distinct — and boilerplate stubs with empty titles collapse to
// one fingerprint per source instead of surfacing as many new jobs.
func (f *Fingerprinter) Fingerprint(p domain.Posting) string {
	canon := CanonicalizeURL(p.URL)
	if f.isGeneric(canon) {
		key := strings.ToLower(strings.TrimSpace(p.Source)) + "|" + strings.ToLower(strings.TrimSpace(p.Title))
		return hashString("src:" + key)
	}
	return hashString("url:" + canon)
}

// isGeneric reports whether the canonical URL is a bare listing root
// rather than an individual posting page. A query string counts as
// identifying (board roots with ?id=... are specific postings).
func (f *Fingerprinter) isGeneric(canon string) bool {
	if strings.Contains(canon, "?") {
		return false
	}
	slash := strings.Index(canon, "/")
	if slash < 0 {
		return true // bare host, nothing identifying a single job
	}
	path := strings.TrimRight(canon[slash:], "/")
	if path == "" {
		return true
	}
	for _, pat := range f.genericPatterns {
		if path == strings.TrimRight(pat, "/") {
			return true
		}
	}
	return false
}

func hashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
