package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"jobscout/internal/dedupe"
	"jobscout/internal/domain"
	"jobscout/internal/normalize"
	"jobscout/internal/rank"
	"jobscout/internal/source"
)

// SeenStore is the persistence boundary. The sqlite implementation
// lives in seenstore; tests inject an in-memory one.
type SeenStore interface {
	Load(ctx context.Context) (*dedupe.SeenSet, error)
	Save(ctx context.Context, set *dedupe.SeenSet, reported int) error
}

// PersistenceError aborts the run: "new" classification is meaningless
// without correct prior state, so a partial RunResult would mislead.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("seen set %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type Pipeline struct {
	Orchestrator *source.Orchestrator
	Fingerprints *dedupe.Fingerprinter
	Scorer       rank.Scorer
	Store        SeenStore
	MinScore     int
	HighScore    int
	Log          *logrus.Logger
	Now          func() time.Time // injectable for tests; defaults to time.Now
}

// Run executes one full aggregation pass: orchestrate sources,
// normalize, dedupe against persisted history, score, filter, sort,
// persist. Individual source failures degrade the result; only
// persistence failures are fatal.
func (p *Pipeline) Run(ctx context.Context, adapters []source.Adapter) (domain.RunResult, error) {
	var res domain.RunResult

	seen, err := p.Store.Load(ctx)
	if err != nil {
		return res, &PersistenceError{Op: "load", Err: err}
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	sourceResults := p.Orchestrator.Run(ctx, adapters)

	// Sequential aggregation keeps seen-set mutation single-writer and
	// the whole run deterministic for identical inputs.
	var fresh []domain.Posting
	for _, sr := range sourceResults {
		if sr.Err != nil {
			res.FailedSources = append(res.FailedSources, sr.Source)
			continue
		}
		res.RawCount += len(sr.Records)

		for _, raw := range sr.Records {
			posting, reason := normalize.Normalize(raw)
			if reason != "" {
				res.DroppedCount++
				p.Log.WithFields(logrus.Fields{
					"source": sr.Source,
					"title":  raw.Title,
					"reason": reason,
				}).Debug("record dropped")
				continue
			}

			fp := p.Fingerprints.Fingerprint(posting)
			if !seen.IsNew(fp) {
				res.DupCount++
				continue
			}
			// Marking immediately also collapses same-fingerprint
			// duplicates arriving later in this run.
			seen.MarkSeen(fp, now().UTC())
			fresh = append(fresh, posting)
		}
	}

	for _, posting := range fresh {
		bd := p.Scorer.Score(posting)
		if bd.Total < p.MinScore {
			continue
		}
		res.Matches = append(res.Matches, domain.Match{Posting: posting, Breakdown: bd})
	}

	sortMatches(res.Matches)

	res.NewCount = len(res.Matches)
	for _, m := range res.Matches {
		if m.Breakdown.Total >= p.HighScore {
			res.HighCount++
		}
	}

	if err := p.Store.Save(ctx, seen, res.NewCount); err != nil {
		return domain.RunResult{}, &PersistenceError{Op: "save", Err: err}
	}

	p.Log.WithFields(logrus.Fields{
		"raw":     res.RawCount,
		"dropped": res.DroppedCount,
		"dup":     res.DupCount,
		"new":     res.NewCount,
		"high":    res.HighCount,
		"failed":  len(res.FailedSources),
	}).Info("run complete")

	return res, nil
}

// sortMatches orders by score descending, ties broken by source then
// title so identical inputs always produce identical reports.
func sortMatches(matches []domain.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Breakdown.Total != b.Breakdown.Total {
			return a.Breakdown.Total > b.Breakdown.Total
		}
		if a.Posting.Source != b.Posting.Source {
			return a.Posting.Source < b.Posting.Source
		}
		return a.Posting.Title < b.Posting.Title
	})
}
