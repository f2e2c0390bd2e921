package careers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/config"
	"jobscout/internal/domain"
	"jobscout/internal/source"
)

// Scraper harvests posting links from company career pages. Pages vary
// wildly, so it casts a wide selector net and lets the scoring engine
// sort out relevance.
type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *source.HostLimiter
}

type Config struct {
	Companies []config.Company
}

// selectors cover the common career-page markups: direct job links,
// listing containers, and embedded ATS links.
var selectors = []string{
	"a[href*='job'], a[href*='position'], a[href*='career']",
	".job-listing a, .opening a, .position a",
	"[class*='job'] a, [class*='opening'] a, [class*='position'] a",
	"li a[href*='lever.co'], li a[href*='greenhouse.io'], li a[href*='workable.com']",
	"li a[href*='smartrecruiters'], li a[href*='recruitee']",
	"a[href*='ashbyhq.com'], a[href*='personio']",
}

func New(cfg Config, limiter *source.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "careers" }

func (s *Scraper) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	var out []domain.RawRecord
	var lastErr error
	failed := 0

	for _, co := range s.cfg.Companies {
		records, err := s.fetchCompany(ctx, co)
		if err != nil {
			// one broken page shouldn't sink the whole source
			lastErr = err
			failed++
			continue
		}
		out = append(out, records...)
	}

	// every page failing is a source failure, partial coverage is not
	if failed > 0 && failed == len(s.cfg.Companies) {
		return nil, fmt.Errorf("all %d career pages failed, last: %w", failed, lastErr)
	}
	return out, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co config.Company) ([]domain.RawRecord, error) {
	if err := s.limiter.WaitURL(ctx, co.URL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, co.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("careers request %s: %w", co.Name, err)
	}
	req.Header.Set("User-Agent", source.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("careers get %s: %w", co.Name, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("careers %s status %d", co.Name, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("careers parse %s: %w", co.Name, err)
	}

	seen := map[string]bool{}
	var records []domain.RawRecord

	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			href = strings.TrimSpace(href)
			text := strings.TrimSpace(a.Text())
			if href == "" || len(text) <= 5 || seen[href] {
				return
			}
			seen[href] = true

			if !strings.HasPrefix(href, "http") {
				href = strings.TrimRight(co.URL, "/") + "/" + strings.TrimLeft(href, "/")
			}

			records = append(records, domain.RawRecord{
				Title:    text,
				Company:  co.Name,
				Location: co.HQ,
				URL:      href,
				Source:   "careers:" + co.Name,
			})
		})
	}

	return records, nil
}
