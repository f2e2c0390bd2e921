package source

import (
	"context"
	"testing"

	"golang.org/x/time/rate"
)

func TestOriginKeyFoldsSpellingVariants(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"https://www.X.test/jobs", "https://x.test/other"},
		{"https://x.test/a", "http://x.test/b"},
	}
	for _, c := range cases {
		if originKey(c.a) != originKey(c.b) {
			t.Errorf("origins differ: %q=%q vs %q=%q",
				c.a, originKey(c.a), c.b, originKey(c.b))
		}
	}

	if originKey("https://x.test/") == originKey("https://other.test/") {
		t.Error("distinct hosts share an origin key")
	}
	if originKey("not a url") != "_" {
		t.Errorf("unparseable URL key = %q, want catch-all", originKey("not a url"))
	}
}

func TestHostLimiterSharesBucketPerOrigin(t *testing.T) {
	hl := NewHostLimiter(100, 10)
	a := hl.limiterFor(originKey("https://www.x.test/jobs"))
	b := hl.limiterFor(originKey("https://x.test/careers"))
	if a != b {
		t.Error("same origin got two limiter buckets")
	}
	c := hl.limiterFor(originKey("https://other.test/"))
	if a == c {
		t.Error("different origins share a limiter bucket")
	}
}

func TestHostLimiterAppliesPolitenessDefaults(t *testing.T) {
	hl := NewHostLimiter(0, 0)
	lim := hl.limiterFor("x.test")
	if lim.Limit() != rate.Limit(defaultPerHostRPS) {
		t.Errorf("Limit = %v, want %v", lim.Limit(), defaultPerHostRPS)
	}
	if lim.Burst() != defaultPerHostBurst {
		t.Errorf("Burst = %d, want %d", lim.Burst(), defaultPerHostBurst)
	}
}

func TestWaitURLUnparseableStillRateLimited(t *testing.T) {
	hl := NewHostLimiter(100, 10)
	if err := hl.WaitURL(context.Background(), "not a url"); err != nil {
		t.Errorf("WaitURL on garbage input errored: %v", err)
	}
}
