package careers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobscout/internal/config"
	"jobscout/internal/source"
)

const careersHTML = `<!DOCTYPE html>
<html><body>
<div class="job-listing">
  <a href="/jobs/1042">Director of Business Development, Oncology</a>
  <a href="/jobs/1043">Head of Digital Health Partnerships</a>
</div>
<a href="https://boards.greenhouse.io/acme/jobs/55">Innovation Program Lead</a>
<a href="/about">About</a>
<a href="/jobs/1042">Director of Business Development, Oncology</a>
</body></html>`

func TestFetchHarvestsJobLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(careersHTML))
	}))
	defer srv.Close()

	s := New(Config{Companies: []config.Company{
		{Name: "ACME Health", URL: srv.URL, HQ: "Hamburg, Germany"},
	}}, source.NewHostLimiter(100, 10))

	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// duplicate href collected once; /about has no job-ish href or
	// container, but matching any selector is enough
	urls := map[string]bool{}
	for _, r := range records {
		if urls[r.URL] {
			t.Errorf("duplicate href yielded twice: %q", r.URL)
		}
		urls[r.URL] = true

		if r.Company != "ACME Health" {
			t.Errorf("Company = %q", r.Company)
		}
		if r.Location != "Hamburg, Germany" {
			t.Errorf("Location = %q (want company HQ)", r.Location)
		}
		if r.Source != "careers:ACME Health" {
			t.Errorf("Source = %q", r.Source)
		}
	}

	if !urls[srv.URL+"/jobs/1042"] || !urls[srv.URL+"/jobs/1043"] {
		t.Errorf("relative job links missing: %v", urls)
	}
	if !urls["https://boards.greenhouse.io/acme/jobs/55"] {
		t.Errorf("embedded ATS link missing: %v", urls)
	}
}

func TestFetchFailsWhenEveryPageFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(Config{Companies: []config.Company{
		{Name: "ACME", URL: srv.URL},
	}}, source.NewHostLimiter(100, 10))

	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatal("want error when all career pages fail")
	}
}
