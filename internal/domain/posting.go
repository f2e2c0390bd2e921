package domain

import "time"

// RawRecord is what a source adapter yields before normalization.
// Fields may be empty, duplicated, or garbage; the normalizer decides.
type RawRecord struct {
	Title       string
	Company     string
	Location    string
	URL         string
	Source      string
	Description string
	SalaryInfo  string
	PostedAt    string
}

// Posting is the canonical job listing after normalization.
type Posting struct {
	Title       string
	Company     string
	Location    string
	LocationKey string // lower-cased matching key; Location keeps display casing
	URL         string
	Source      string
	TextBlob    string // title + description + metadata, lower-cased, for keyword matching
	Salary      int    // detected annual amount in EUR, 0 if absent
	HasSalary   bool
	PostedAt    *time.Time
}
