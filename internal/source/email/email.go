package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"jobscout/internal/domain"
	"jobscout/internal/secrets"
)

// Adapter pulls job-alert emails over IMAP and extracts posting links
// from their HTML bodies. Messages are fetched with BODY.PEEK[] so the
// mailbox state is untouched.
type Adapter struct {
	Host       string
	Port       int
	Username   string
	Mailbox    string
	SubjectAny []string
	MaxFetch   int
}

func (a *Adapter) Name() string { return "email" }

func (a *Adapter) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	account := secrets.IMAPAccount(a.Username, a.Host)
	password, err := secrets.GetIMAPPassword(account)
	if err != nil {
		return nil, fmt.Errorf("email source: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", a.Host, a.Port)
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: a.Host},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}
	defer func() { _ = c.Close() }()

	// best-effort close on context cancel
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(a.Username, password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	defer func() { _ = c.Logout().Wait() }()

	if _, err := c.Select(a.Mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", a.Mailbox, err)
	}

	messages, err := a.fetchRecent(ctx, c)
	if err != nil {
		return nil, err
	}

	var out []domain.RawRecord
	for _, m := range messages {
		if !a.subjectMatches(m.subject) {
			continue
		}
		out = append(out, extractRecords(m.subject, m.body)...)
	}
	return out, nil
}

type message struct {
	subject string
	body    []byte
}

func (a *Adapter) fetchRecent(ctx context.Context, c *imapclient.Client) ([]message, error) {
	cutoff := time.Now().AddDate(0, 0, -7)
	criteria := &imap.SearchCriteria{Since: cutoff}

	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	max := a.MaxFetch
	if max <= 0 {
		max = 50
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	var out []message
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		var m message
		if buf.Envelope != nil {
			m.subject = buf.Envelope.Subject
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			m.body = append([]byte(nil), b...)
		}
		out = append(out, m)
	}
	return out, nil
}

func (a *Adapter) subjectMatches(subject string) bool {
	if len(a.SubjectAny) == 0 {
		return true
	}
	low := strings.ToLower(subject)
	for _, want := range a.SubjectAny {
		if strings.Contains(low, strings.ToLower(want)) {
			return true
		}
	}
	return false
}

// extractRecords walks the HTML part of an alert mail and yields one
// record per plausible job link. Alert mails don't carry company or
// location reliably; normalization and scoring work off what's here.
func extractRecords(subject string, body []byte) []domain.RawRecord {
	html := extractHTMLPart(body)
	if len(html) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var out []domain.RawRecord
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		text := strings.TrimSpace(sel.Text())
		if href == "" || len(text) <= 5 || seen[href] {
			return
		}
		if !strings.HasPrefix(href, "http") || isJunkURL(href) {
			return
		}
		seen[href] = true
		out = append(out, domain.RawRecord{
			Title:       text,
			URL:         href,
			Source:      "email",
			Description: subject,
		})
	})
	return out
}

// isJunkURL drops template links every alert mail carries.
func isJunkURL(u string) bool {
	lu := strings.ToLower(u)
	junks := []string{
		"unsubscribe", "preferences", "manage-preferences", "email-preferences",
		"privacy", "terms", "view-in-browser", "viewaswebpage",
		"tracking", "pixel", "beacon", "/alerts", "/settings", "/help", "/legal",
	}
	for _, j := range junks {
		if strings.Contains(lu, j) {
			return true
		}
	}
	return false
}
