// Package pipeline defines the stage interfaces of the plant data
// pipeline: fetch, ingest, canonicalize, scrape, normalize, index,
// export. Each stage is pure contract; the internal io* packages
// provide the implementations.
package pipeline

import (
	"context"

	"github.com/Don-Green-Here/npdb/pkg/schema"
)

// Ledger is the append-only record of HTTP retrievals. Every fetch
// attempt is recorded, including failures, so downstream stages can
// replay parsing without touching the network.
type Ledger interface {
	// RecordFetch appends a fetch row and returns its ID.
	// Fetch rows are never updated or deleted.
	RecordFetch(ctx context.Context, f *schema.Fetch) (int64, error)

	// GetFetch returns a fetch by ID.
	GetFetch(ctx context.Context, id int64) (*schema.Fetch, error)

	// LatestSuccess returns the most recent fetch of the URL that
	// completed with HTTP 200 and a non-empty body, or nil if none.
	LatestSuccess(ctx context.Context, url string) (*schema.Fetch, error)
}

// Fetcher retrieves USDA documents over HTTP and records every attempt
// in the Ledger. Fetching and parsing are decoupled: a Fetcher only
// stores payloads, it never interprets them.
type Fetcher interface {
	// FetchChecklist downloads the state checklist CSV for a state code
	// and returns the ledger ID of the recorded fetch.
	FetchChecklist(ctx context.Context, stateCode string) (int64, error)

	// FetchPage downloads a per-symbol plant page ('profile' or
	// 'characteristics') and returns the ledger ID.
	FetchPage(ctx context.Context, symbol, pageType string) (int64, error)
}
