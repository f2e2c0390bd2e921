package dedupe

import (
	"net/url"
	"sort"
	"strings"
)

// CanonicalizeURL normalizes a posting URL for identity comparison:
// lower-cased scheme and host, fragment dropped, tracking params
// removed, trailing slash trimmed, deterministic query ordering.
// Unparseable input is returned trimmed so it still hashes stably.
func CanonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")

	// drop common tracking params
	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" || lk == "ref" {
			q.Del(k)
		}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()

	out := u.String()
	// scheme-insensitive identity: http vs https is the same listing
	out = strings.TrimPrefix(out, "https://")
	out = strings.TrimPrefix(out, "http://")
	return strings.ToLower(out)
}
