package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobscout/internal/domain"
)

// Generator renders the daily HTML and Markdown reports. Rendering is
// best-effort output plumbing; it never influences pipeline state.
type Generator struct {
	OutDir     string
	MaxResults int
}

type entry struct {
	Rank     int
	Title    string
	Company  string
	Location string
	URL      string
	Source   string
	Score    int
	Color    string
	Reasons  []string
}

type page struct {
	Date          string
	Time          string
	Entries       []entry
	NewCount      int
	HighCount     int
	FailedSources []string
}

// Generate writes the dated HTML report, a latest-report.html copy for
// mailing, and latest-report.md. Returns the dated report path.
func (g *Generator) Generate(res domain.RunResult, now time.Time) (string, error) {
	if err := os.MkdirAll(g.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("report dir: %w", err)
	}

	matches := res.Matches
	if g.MaxResults > 0 && len(matches) > g.MaxResults {
		matches = matches[:g.MaxResults]
	}

	pg := page{
		Date:          now.Format("2006-01-02"),
		Time:          now.Format("15:04"),
		NewCount:      res.NewCount,
		HighCount:     res.HighCount,
		FailedSources: res.FailedSources,
	}
	for i, m := range matches {
		pg.Entries = append(pg.Entries, entry{
			Rank:     i + 1,
			Title:    m.Posting.Title,
			Company:  m.Posting.Company,
			Location: m.Posting.Location,
			URL:      m.Posting.URL,
			Source:   m.Posting.Source,
			Score:    m.Breakdown.Total,
			Color:    scoreColor(m.Breakdown.Total),
			Reasons:  reasons(m.Breakdown),
		})
	}

	var html strings.Builder
	if err := htmlTmpl.Execute(&html, pg); err != nil {
		return "", fmt.Errorf("report html: %w", err)
	}

	dated := filepath.Join(g.OutDir, "job-report-"+pg.Date+".html")
	if err := os.WriteFile(dated, []byte(html.String()), 0o644); err != nil {
		return "", fmt.Errorf("report write: %w", err)
	}
	if err := os.WriteFile(filepath.Join(g.OutDir, "latest-report.html"), []byte(html.String()), 0o644); err != nil {
		return "", fmt.Errorf("report write: %w", err)
	}

	md := g.Markdown(res, now)
	if err := os.WriteFile(filepath.Join(g.OutDir, "latest-report.md"), []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("report write: %w", err)
	}

	return dated, nil
}

// Markdown renders the report body as Markdown (also used for mail).
func (g *Generator) Markdown(res domain.RunResult, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Job Report — %s\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "**%d** new matches | **%d** high relevance\n\n", res.NewCount, res.HighCount)
	if len(res.FailedSources) > 0 {
		fmt.Fprintf(&b, "> Failed sources (coverage degraded): %s\n\n", strings.Join(res.FailedSources, ", "))
	}
	b.WriteString("---\n\n")

	matches := res.Matches
	if g.MaxResults > 0 && len(matches) > g.MaxResults {
		matches = matches[:g.MaxResults]
	}
	for i, m := range matches {
		fmt.Fprintf(&b, "### %d. %s\n", i+1, m.Posting.Title)
		fmt.Fprintf(&b, "**%s** · %s · Score: %d\n", m.Posting.Company, m.Posting.Location, m.Breakdown.Total)
		fmt.Fprintf(&b, "[%s](%s)\n", m.Posting.Source, m.Posting.URL)
		for _, r := range reasons(m.Breakdown) {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func reasons(bd domain.ScoreBreakdown) []string {
	out := make([]string, 0, len(bd.Factors))
	for _, f := range bd.Factors {
		out = append(out, fmt.Sprintf("%s (%+d): %s", f.Name, f.Points, f.Evidence))
	}
	return out
}

func scoreColor(score int) string {
	switch {
	case score >= 70:
		return "#16a34a"
	case score >= 50:
		return "#ca8a04"
	default:
		return "#94a3b8"
	}
}

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Job Report — {{.Date}}</title>
<style>
  :root { --bg: #0f172a; --card: #1e293b; --text: #e2e8f0; --muted: #94a3b8; --accent: #38bdf8; }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, system-ui, sans-serif; background: var(--bg); color: var(--text); padding: 2rem; }
  .container { max-width: 960px; margin: 0 auto; }
  header { text-align: center; margin-bottom: 2rem; padding: 2rem; background: var(--card); border-radius: 16px; border: 1px solid #334155; }
  header h1 { font-size: 1.8rem; margin-bottom: 0.5rem; color: var(--accent); }
  .stats { display: flex; gap: 1rem; justify-content: center; margin-top: 1rem; flex-wrap: wrap; }
  .stat { background: #334155; padding: 0.5rem 1rem; border-radius: 8px; font-size: 0.85rem; }
  .stat strong { color: var(--accent); }
  .warn { color: #f59e0b; margin-top: 0.8rem; font-size: 0.85rem; }
  table { width: 100%; border-collapse: collapse; }
  .job-row { background: var(--card); }
  .job-row td { padding: 1rem; border-bottom: 1px solid #334155; vertical-align: top; }
  .rank { width: 40px; text-align: center; color: var(--muted); font-weight: 600; }
  .title a { color: var(--accent); text-decoration: none; font-weight: 600; font-size: 1.05rem; }
  .company { color: #f1f5f9; margin: 0.25rem 0; font-weight: 500; }
  .meta { color: var(--muted); font-size: 0.8rem; margin-top: 0.4rem; }
  .score { width: 42px; height: 42px; border-radius: 50%; display: flex; align-items: center; justify-content: center; color: white; font-weight: 700; font-size: 0.85rem; }
  .reasons { margin-top: 0.6rem; font-size: 0.8rem; color: var(--muted); line-height: 1.6; }
  .empty { text-align: center; padding: 3rem; color: var(--muted); }
</style>
</head>
<body>
<div class="container">
  <header>
    <h1>Daily Job Report</h1>
    <div class="stats">
      <div class="stat"><strong>{{.NewCount}}</strong> new matches</div>
      <div class="stat"><strong>{{.Date}}</strong> {{.Time}}</div>
      <div class="stat"><strong>{{.HighCount}}</strong> high relevance</div>
    </div>
    {{if .FailedSources}}<div class="warn">Failed sources: {{range $i, $s := .FailedSources}}{{if $i}}, {{end}}{{$s}}{{end}}</div>{{end}}
  </header>
  <table>
    <tbody>
      {{range .Entries}}
      <tr class="job-row">
        <td class="rank">{{.Rank}}</td>
        <td>
          <div class="title"><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a></div>
          <div class="company">{{.Company}}</div>
          <div class="meta">{{.Location}} · via {{.Source}}</div>
          <div class="reasons">{{range .Reasons}}• {{.}}<br>{{end}}</div>
        </td>
        <td><div class="score" style="background-color: {{.Color}}">{{.Score}}</div></td>
      </tr>
      {{else}}
      <tr><td colspan="3" class="empty">No new relevant jobs found today.</td></tr>
      {{end}}
    </tbody>
  </table>
</div>
</body>
</html>
`))
