package board

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

// Scraper reads selector-driven job boards. Each board config names
// the card container plus per-field selectors, so new boards are a
// config change, not code.
type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *source.HostLimiter
}

type Config struct {
	Boards []config.Board
}

const maxCardsPerBoard = 25

func New(cfg Config, limiter *source.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "boards" }

func (s *Scraper) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	var out []domain.RawRecord
	var lastErr error
	failed := 0

	for _, b := range s.cfg.Boards {
		records, err := s.fetchBoard(ctx, b)
		if err != nil {
			lastErr = err
			failed++
			continue
		}
		out = append(out, records...)
	}

	if failed > 0 && failed == len(s.cfg.Boards) {
		return nil, fmt.Errorf("all %d boards failed, last: %w", failed, lastErr)
	}
	return out, nil
}

func (s *Scraper) fetchBoard(ctx context.Context, b config.Board) ([]domain.RawRecord, error) {
	if err := s.limiter.WaitURL(ctx, b.URL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("board request %s: %w", b.Name, err)
	}
	req.Header.Set("User-Agent", source.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,de;q=0.8")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("board get %s: %w", b.Name, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("board %s status %d", b.Name, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("board parse %s: %w", b.Name, err)
	}

	var records []domain.RawRecord
	doc.Find(b.CardSel).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCardsPerBoard {
			return false
		}

		title := firstText(card, b.TitleSel)
		if title == "" {
			return true
		}

		href := firstHref(card, b.LinkSel)
		if href != "" && strings.HasPrefix(href, "/") {
			href = baseURL(b.URL) + href
		}

		records = append(records, domain.RawRecord{
			Title:      title,
			Company:    firstText(card, b.CompanySel),
			Location:   firstText(card, b.LocationSel),
			URL:        href,
			Source:     b.Name,
			SalaryInfo: firstText(card, b.SalarySel),
		})
		return true
	})

	return records, nil
}

func firstText(sel *goquery.Selection, css string) string {
	if css == "" {
		return ""
	}
	return strings.TrimSpace(sel.Find(css).First().Text())
}

func firstHref(sel *goquery.Selection, css string) string {
	if css == "" {
		css = "a"
	}
	href, _ := sel.Find(css).First().Attr("href")
	return strings.TrimSpace(href)
}

func baseURL(raw string) string {
	i := strings.Index(raw, "://")
	if i < 0 {
		return raw
	}
	rest := raw[i+3:]
	if j := strings.Index(rest, "/"); j >= 0 {
		return raw[:i+3] + rest[:j]
	}
	return raw
}
