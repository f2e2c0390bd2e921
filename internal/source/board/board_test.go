package board

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobscout/internal/config"
	"jobscout/internal/source"
)

const boardHTML = `<!DOCTYPE html>
<html><body>
<article class="job-card">
  <h2><a href="/jobs/director-bd-123">Director of Business Development</a></h2>
  <span class="company">AstraZeneca Innovation</span>
  <span class="location">Hamburg, Germany</span>
  <span class="salary">110.000 €</span>
</article>
<article class="job-card">
  <h2><a href="https://other.test/jobs/77">Head of Strategy</a></h2>
  <span class="company">Bayer G4A</span>
  <span class="location">Berlin</span>
</article>
<article class="job-card">
  <span class="company">No Title Here GmbH</span>
</article>
</body></html>`

func testBoard(url string) config.Board {
	return config.Board{
		Name:        "TestBoard",
		URL:         url,
		CardSel:     ".job-card",
		TitleSel:    "h2 a",
		CompanySel:  ".company",
		LocationSel: ".location",
		LinkSel:     "h2 a",
		SalarySel:   ".salary",
	}
}

func TestFetchParsesCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(boardHTML))
	}))
	defer srv.Close()

	s := New(Config{Boards: []config.Board{testBoard(srv.URL)}}, source.NewHostLimiter(100, 10))
	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (titleless card skipped): %+v", len(records), records)
	}

	first := records[0]
	if first.Title != "Director of Business Development" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Company != "AstraZeneca Innovation" {
		t.Errorf("Company = %q", first.Company)
	}
	if first.URL != srv.URL+"/jobs/director-bd-123" {
		t.Errorf("relative href not absolutized: %q", first.URL)
	}
	if first.SalaryInfo == "" {
		t.Error("salary snippet lost")
	}
	if first.Source != "TestBoard" {
		t.Errorf("Source = %q", first.Source)
	}

	if records[1].URL != "https://other.test/jobs/77" {
		t.Errorf("absolute href rewritten: %q", records[1].URL)
	}
}

func TestFetchReportsFailureWhenAllBoardsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(Config{Boards: []config.Board{testBoard(srv.URL)}}, source.NewHostLimiter(100, 10))
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatal("all boards failing should surface as a source failure")
	}
}

func TestFetchToleratesPartialBoardFailure(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(boardHTML))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer bad.Close()

	s := New(Config{Boards: []config.Board{testBoard(bad.URL), testBoard(good.URL)}}, source.NewHostLimiter(100, 10))
	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not fail the source: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records from healthy board, want 2", len(records))
	}
}
