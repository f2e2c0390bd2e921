package source

import (
	"context"

	"jobscout/internal/domain"
)

// Adapter is the one contract the engine requires of a source: yield
// raw records or fail. Everything else (HTML shape, auth, pagination)
// is the adapter's business.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// UserAgent sent by all HTTP adapters. Some boards serve a stripped
// page to unknown agents, so this mimics a current desktop browser.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
