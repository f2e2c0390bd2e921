package rank

import (
	"fmt"
	"strings"

	"jobscout/internal/config"
	"jobscout/internal/domain"
)

// Factor names recorded in breakdowns and shown in reports.
const (
	FactorTitle           = "title"
	FactorSeniority       = "seniority"
	FactorKeywords        = "keywords"
	FactorLocation        = "location"
	FactorLocationExclude = "location_exclude"
	FactorCompany         = "company"
	FactorSalary          = "salary"
	FactorNegative        = "negative"
)

// ProfileScorer scores postings against the configured target profile.
// Score is a pure function of the posting and the config; factor order
// in the breakdown is fixed so output is deterministic.
type ProfileScorer struct {
	cfg config.Config

	targetTitles []string
	seniority    []string
	keywords     []config.Keyword
	locInclude   []string
	locExclude   []string
	companies    []string
	negative     []string
}

func NewProfileScorer(cfg config.Config) *ProfileScorer {
	return &ProfileScorer{
		cfg:          cfg,
		targetTitles: lowerAll(cfg.Profile.TargetTitles),
		seniority:    lowerAll(cfg.Profile.SeniorityIndicators),
		keywords:     lowerKeywords(cfg.Profile.Keywords),
		locInclude:   lowerAll(cfg.Profile.LocationsInclude),
		locExclude:   lowerAll(cfg.Profile.LocationsExclude),
		companies:    lowerAll(cfg.Profile.TargetCompanies),
		negative:     lowerAll(cfg.Profile.NegativeKeywords),
	}
}

func (s *ProfileScorer) Score(p domain.Posting) domain.ScoreBreakdown {
	var bd domain.ScoreBreakdown
	title := strings.ToLower(p.Title)
	company := strings.ToLower(p.Company)
	source := strings.ToLower(p.Source)

	add := func(name string, points int, evidence string) {
		bd.Total += points
		bd.Factors = append(bd.Factors, domain.Factor{Name: name, Points: points, Evidence: evidence})
	}

	// Title match, or seniority fallback only when no title matched.
	matched := false
	for _, target := range s.targetTitles {
		if strings.Contains(title, target) {
			add(FactorTitle, s.cfg.Weights.Title, target)
			matched = true
			break
		}
	}
	if !matched {
		for _, ind := range s.seniority {
			if strings.Contains(title, ind) {
				add(FactorSeniority, s.cfg.Weights.Seniority, ind)
				break
			}
		}
	}

	// Keywords: each counted once, sum capped. Empty blob scores 0.
	kwPoints := 0
	var kwHits []string
	for _, kw := range s.keywords {
		if strings.Contains(p.TextBlob, kw.Term) {
			kwPoints += kw.Points
			kwHits = append(kwHits, kw.Term)
		}
	}
	if kwPoints > 0 {
		if kwPoints > s.cfg.Profile.KeywordCap {
			kwPoints = s.cfg.Profile.KeywordCap
		}
		add(FactorKeywords, kwPoints, strings.Join(kwHits, ", "))
	}

	// Location: missing location key scores 0, not an error.
	for _, loc := range s.locInclude {
		if p.LocationKey != "" && strings.Contains(p.LocationKey, loc) {
			add(FactorLocation, s.cfg.Weights.Location, loc)
			break
		}
	}
	for _, exc := range s.locExclude {
		if p.LocationKey != "" && strings.Contains(p.LocationKey, exc) {
			add(FactorLocationExclude, s.cfg.Weights.LocationExclude, exc)
		}
	}

	// Target company: either direction, company name or provenance tag.
	for _, tc := range s.companies {
		if matchesCompany(company, tc) || matchesCompany(source, tc) {
			add(FactorCompany, s.cfg.Weights.Company, tc)
			break
		}
	}

	// Salary signal: neutral when absent or between thresholds.
	if p.HasSalary {
		switch {
		case p.Salary >= s.cfg.Profile.SalaryHigh:
			add(FactorSalary, s.cfg.Weights.SalaryHigh, fmt.Sprintf("~€%d", p.Salary))
		case p.Salary < s.cfg.Profile.SalaryLow:
			add(FactorSalary, s.cfg.Weights.SalaryLow, fmt.Sprintf("low ~€%d", p.Salary))
		}
	}

	// Negative keyword in title: flat penalty, applied once.
	for _, neg := range s.negative {
		if strings.Contains(title, neg) {
			add(FactorNegative, s.cfg.Weights.Negative, neg)
			break
		}
	}

	if bd.Total < s.cfg.Profile.ScoreFloor {
		bd.Total = s.cfg.Profile.ScoreFloor
	}
	return bd
}

func matchesCompany(name, target string) bool {
	if name == "" || target == "" {
		return false
	}
	return strings.Contains(name, target) || strings.Contains(target, name)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerKeywords(in []config.Keyword) []config.Keyword {
	out := make([]config.Keyword, 0, len(in))
	for _, kw := range in {
		term := strings.ToLower(strings.TrimSpace(kw.Term))
		if term != "" {
			out = append(out, config.Keyword{Term: term, Points: kw.Points})
		}
	}
	return out
}
