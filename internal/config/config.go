package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Keyword struct {
	Term   string `yaml:"term"`
	Points int    `yaml:"points"`
}

type Company struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	HQ   string `yaml:"hq"`
}

// Board describes a selector-driven job board page.
type Board struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	CardSel     string `yaml:"card_selector"`
	TitleSel    string `yaml:"title_selector"`
	CompanySel  string `yaml:"company_selector"`
	LocationSel string `yaml:"location_selector"`
	LinkSel     string `yaml:"link_selector"`
	SalarySel   string `yaml:"salary_selector"`
}

type Config struct {
	App struct {
		DataDir              string  `yaml:"data_dir"`
		PerHostRPS           float64 `yaml:"per_host_rps"`
		PerHostBurst         int     `yaml:"per_host_burst"`
		SourceTimeoutSeconds int     `yaml:"source_timeout_seconds"`
		MaxParallelSources   int     `yaml:"max_parallel_sources"`
	} `yaml:"app"`

	Profile struct {
		TargetTitles        []string  `yaml:"target_titles"`
		SeniorityIndicators []string  `yaml:"seniority_indicators"`
		Keywords            []Keyword `yaml:"keywords"`
		KeywordCap          int       `yaml:"keyword_cap"`
		LocationsInclude    []string  `yaml:"locations_include"`
		LocationsExclude    []string  `yaml:"locations_exclude"`
		TargetCompanies     []string  `yaml:"target_companies"`
		NegativeKeywords    []string  `yaml:"negative_keywords"`
		SalaryHigh          int       `yaml:"salary_high"`
		SalaryLow           int       `yaml:"salary_low"`
		MinRelevanceScore   int       `yaml:"min_relevance_score"`
		HighRelevanceScore  int       `yaml:"high_relevance_score"`
		ScoreFloor          int       `yaml:"score_floor"`
	} `yaml:"profile"`

	Weights struct {
		Title           int `yaml:"title"`
		Seniority       int `yaml:"seniority"`
		Location        int `yaml:"location"`
		Company         int `yaml:"company"`
		SalaryHigh      int `yaml:"salary_high"`
		SalaryLow       int `yaml:"salary_low"`
		Negative        int `yaml:"negative"`
		LocationExclude int `yaml:"location_exclude"`
	} `yaml:"weights"`

	Dedupe struct {
		GenericURLPatterns []string `yaml:"generic_url_patterns"`
	} `yaml:"dedupe"`

	Report struct {
		MaxResults int    `yaml:"max_results"`
		OutDir     string `yaml:"out_dir"`
	} `yaml:"report"`

	Sources struct {
		Careers struct {
			Enabled   bool      `yaml:"enabled"`
			Companies []Company `yaml:"companies"`
		} `yaml:"careers"`
		Boards struct {
			Enabled bool    `yaml:"enabled"`
			Boards  []Board `yaml:"boards"`
		} `yaml:"boards"`
		Email struct {
			Enabled    bool     `yaml:"enabled"`
			IMAPHost   string   `yaml:"imap_host"`
			IMAPPort   int      `yaml:"imap_port"`
			Username   string   `yaml:"username"`
			Mailbox    string   `yaml:"mailbox"`
			SubjectAny []string `yaml:"subject_any"`
			MaxFetch   int      `yaml:"max_fetch"`
		} `yaml:"email"`
	} `yaml:"sources"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults fills operational knobs only. Scoring weights and
// thresholds are never defaulted; Validate rejects missing ones.
func applyDefaults(cfg *Config) {
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = "./data"
	}
	if cfg.App.PerHostRPS == 0 {
		cfg.App.PerHostRPS = 0.5
	}
	if cfg.App.PerHostBurst == 0 {
		cfg.App.PerHostBurst = 1
	}
	if cfg.App.SourceTimeoutSeconds == 0 {
		cfg.App.SourceTimeoutSeconds = 120
	}
	if cfg.App.MaxParallelSources == 0 {
		cfg.App.MaxParallelSources = 3
	}
	if cfg.Report.MaxResults == 0 {
		cfg.Report.MaxResults = 50
	}
	if cfg.Report.OutDir == "" {
		cfg.Report.OutDir = "./reports"
	}
	if cfg.Sources.Email.MaxFetch == 0 {
		cfg.Sources.Email.MaxFetch = 50
	}
	if len(cfg.Dedupe.GenericURLPatterns) == 0 {
		cfg.Dedupe.GenericURLPatterns = []string{"/careers", "/jobs", "/career", "/join-us", "/vacancies"}
	}
}
