package source

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Conservative politeness floor used when config leaves the knobs
// unset: one request per two seconds, no burst.
const (
	defaultPerHostRPS   = 0.5
	defaultPerHostBurst = 1
)

// HostLimiter rate-limits per origin so politeness holds even when
// sources run in parallel and several adapters hit the same site.
type HostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if reqPerSec <= 0 {
		reqPerSec = defaultPerHostRPS
	}
	if burst < 1 {
		burst = defaultPerHostBurst
	}
	return &HostLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (hl *HostLimiter) limiterFor(origin string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[origin]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[origin] = lim
	return lim
}

// WaitURL blocks until a request to the URL's origin is allowed.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	return hl.limiterFor(originKey(raw)).Wait(ctx)
}

// originKey maps a URL to its limiter bucket: lower-cased host with
// the www prefix folded in, so www.x.test and x.test draw from one
// budget. Unparseable URLs share a catch-all bucket.
func originKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "_"
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}
