package domain

// Factor is one scoring contribution with the evidence that triggered it.
type Factor struct {
	Name     string
	Points   int
	Evidence string
}

// ScoreBreakdown is the full itemized score for one posting.
// Factors keep insertion order so reports are reproducible.
type ScoreBreakdown struct {
	Total   int
	Factors []Factor
}

// SourceResult is the outcome of one adapter invocation. Err is set on
// failure; an empty Records with a nil Err is valid output (the source
// parsed cleanly and had nothing), which needs different remediation
// than an outright failure.
type SourceResult struct {
	Source  string
	Records []RawRecord
	Err     error
}

// Match pairs a new posting with its breakdown in the final ranking.
type Match struct {
	Posting   Posting
	Breakdown ScoreBreakdown
}

// RunResult is one pipeline execution's output.
type RunResult struct {
	Matches       []Match
	NewCount      int // matches above min_relevance_score
	HighCount     int // matches at or above the high-relevance sub-threshold
	RawCount      int // raw records across all sources
	DroppedCount  int // records dropped in normalization
	DupCount      int // postings suppressed as previously seen
	FailedSources []string
}
