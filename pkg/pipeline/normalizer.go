package pipeline

import (
	"context"

	"github.com/Don-Green-Here/npdb/pkg/schema"
)

// ScrapeResult summarizes one page-scraping pass over a state's
// canonical plants.
type ScrapeResult struct {
	// Fetched is the number of pages retrieved from the network.
	Fetched int

	// SkippedDone is the number of symbol/page pairs skipped because a
	// prior status row already settled them.
	SkippedDone int

	// NoData counts pages that loaded but contained no trait data.
	NoData int

	// Errors counts failed retrievals. Failures are recorded and
	// skipped on later runs; they never abort the pass.
	Errors int

	// KVs is the number of trait key-value rows stored.
	KVs int
}

// NormalizeResult summarizes one trait normalization pass.
type NormalizeResult struct {
	// Symbols is the number of plants processed.
	Symbols int

	// Traits is the number of normalized trait rows written.
	Traits int

	// Unrecognized is the number of KV rows projected with a slugified
	// text key because no mapping rule matched the trait name.
	Unrecognized int
}

// TraitManager scrapes per-symbol USDA pages into the lossless trait
// KV store and projects the KVs into normalized, typed trait rows.
// Extraction is gated by page status: pages known to hold no data or
// to have failed are not revisited unless a refetch is forced.
type TraitManager interface {
	// ScrapeState fetches profile and characteristics pages for every
	// canonical plant present in the state and extracts trait KVs.
	// With refetch true the page status gate is bypassed.
	ScrapeState(ctx context.Context, stateCode string, refetch bool) (*ScrapeResult, error)

	// ExtractFetch re-runs trait extraction over an already recorded
	// page fetch, without any network access.
	ExtractFetch(ctx context.Context, fetchID int64) (*ScrapeResult, error)

	// NormalizeSymbol recomputes normalized traits for one plant,
	// replacing previous rows in place.
	NormalizeSymbol(ctx context.Context, symbol string) (*NormalizeResult, error)

	// NormalizeState recomputes normalized traits for every plant
	// present in the state.
	NormalizeState(ctx context.Context, stateCode string) (*NormalizeResult, error)

	// GetTraits returns the raw KV rows for a symbol.
	GetTraits(ctx context.Context, symbol string) ([]schema.PlantTraitKV, error)

	// GetNormalized returns one normalized trait row by symbol and
	// trait key, or nil when the plant has no such trait.
	GetNormalized(ctx context.Context, symbol, traitKey string) (*schema.NormalizedTrait, error)

	// GetAllNormalized returns the normalized trait rows for a symbol.
	GetAllNormalized(ctx context.Context, symbol string) ([]schema.NormalizedTrait, error)
}
