package source

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"jobscout/internal/domain"
)

// Orchestrator runs every adapter under an isolating boundary: one
// source failing, timing out, or panicking never aborts the run.
type Orchestrator struct {
	Timeout  time.Duration
	Parallel int
	Log      *logrus.Logger
}

// Run invokes all adapters and returns one SourceResult per adapter,
// in adapter order regardless of completion order. A source yielding
// zero records with no error is valid output, not a failure.
func (o *Orchestrator) Run(ctx context.Context, adapters []Adapter) []domain.SourceResult {
	results := make([]domain.SourceResult, len(adapters))

	var g errgroup.Group
	if o.Parallel > 0 {
		g.SetLimit(o.Parallel)
	}

	for i, a := range adapters {
		i, a := i, a
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, o.Timeout)
			defer cancel()

			o.Log.WithField("source", a.Name()).Info("fetching")
			records, err := fetchIsolated(fctx, a)
			if err != nil {
				o.Log.WithField("source", a.Name()).WithError(err).Warn("source failed")
				results[i] = domain.SourceResult{Source: a.Name(), Err: err}
				return nil // best-effort: don't cancel siblings
			}
			o.Log.WithFields(logrus.Fields{"source": a.Name(), "records": len(records)}).Info("fetched")
			results[i] = domain.SourceResult{Source: a.Name(), Records: records}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// fetchIsolated converts adapter panics into ordinary source failures.
func fetchIsolated(ctx context.Context, a Adapter) (records []domain.RawRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("source %s panicked: %v", a.Name(), r)
		}
	}()
	return a.Fetch(ctx)
}
