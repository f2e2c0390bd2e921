package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate rejects configs that would make scoring silently wrong.
// Missing weights and thresholds are hard errors, not defaults.
func Validate(cfg Config) error {
	var errs []string

	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if cfg.Weights.Title <= 0 {
		add("weights.title must be > 0")
	}
	if cfg.Weights.Seniority <= 0 {
		add("weights.seniority must be > 0")
	}
	if cfg.Weights.Location <= 0 {
		add("weights.location must be > 0")
	}
	if cfg.Weights.Company <= 0 {
		add("weights.company must be > 0")
	}
	if cfg.Weights.SalaryHigh <= 0 {
		add("weights.salary_high must be > 0")
	}
	if cfg.Weights.SalaryLow >= 0 {
		add("weights.salary_low must be < 0")
	}
	if cfg.Weights.Negative >= 0 {
		add("weights.negative must be < 0")
	}
	if cfg.Weights.LocationExclude >= 0 {
		add("weights.location_exclude must be < 0")
	}

	if cfg.Profile.MinRelevanceScore <= 0 {
		add("profile.min_relevance_score must be > 0")
	}
	if cfg.Profile.HighRelevanceScore < cfg.Profile.MinRelevanceScore {
		add("profile.high_relevance_score must be >= profile.min_relevance_score")
	}
	if cfg.Profile.KeywordCap <= 0 {
		add("profile.keyword_cap must be > 0")
	}
	if cfg.Profile.SalaryHigh <= 0 || cfg.Profile.SalaryLow <= 0 {
		add("profile.salary_high and profile.salary_low must be > 0")
	}
	if cfg.Profile.SalaryHigh <= cfg.Profile.SalaryLow {
		add("profile.salary_high must be > profile.salary_low")
	}
	if cfg.Profile.ScoreFloor > 0 {
		add("profile.score_floor must be <= 0")
	}

	if len(cfg.Profile.TargetTitles) == 0 {
		add("profile.target_titles must have at least 1 entry")
	}
	for i, kw := range cfg.Profile.Keywords {
		if strings.TrimSpace(kw.Term) == "" {
			add("profile.keywords[%d].term cannot be empty", i)
		}
		if kw.Points <= 0 {
			add("profile.keywords[%d].points must be > 0", i)
		}
	}

	if cfg.Sources.Email.Enabled {
		if strings.TrimSpace(cfg.Sources.Email.IMAPHost) == "" {
			add("sources.email.imap_host is required when email is enabled")
		}
		if cfg.Sources.Email.IMAPPort == 0 {
			add("sources.email.imap_port is required when email is enabled")
		}
		if strings.TrimSpace(cfg.Sources.Email.Username) == "" {
			add("sources.email.username is required when email is enabled")
		}
		if strings.TrimSpace(cfg.Sources.Email.Mailbox) == "" {
			add("sources.email.mailbox is required when email is enabled")
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
