package pipeline

import (
	"context"

	"github.com/Don-Green-Here/npdb/pkg/schema"
)

// IndexResult summarizes a filter index rebuild.
type IndexResult struct {
	// Indexed is the number of symbols whose rows were recomputed.
	Indexed int

	// Failed is the number of symbols that could not be indexed.
	// Per-symbol failures are logged, not fatal.
	Failed int
}

// SearchQuery is a conjunction of facet filters against the
// denormalized index. Keys must belong to the closed facet set;
// unknown keys are rejected rather than silently ignored.
type SearchQuery struct {
	// Filters maps facet name to required value, e.g.
	// {"shade_tolerance": "Tolerant", "duration": "Perennial"}.
	// The multi-valued facets "duration" and "growth_habit" match via
	// their child tables.
	Filters map[string]string

	// Limit caps result count; zero means the default limit.
	Limit int
}

// Indexer maintains the denormalized per-plant filter rows and answers
// facet queries over them. Rebuilds are deterministic: the same
// canonical and trait data always produce the same index row.
type Indexer interface {
	// RebuildSymbol recomputes one plant's index row and its duration
	// and growth habit child rows in a single transaction, returning
	// the stored row.
	RebuildSymbol(ctx context.Context, symbol string) (*schema.PlantFilterIndex, error)

	// RebuildState rebuilds index rows for every plant present in the
	// state.
	RebuildState(ctx context.Context, stateCode string) (*IndexResult, error)

	// RebuildAll rebuilds index rows for every canonical plant.
	RebuildAll(ctx context.Context) (*IndexResult, error)

	// Search returns index rows matching all filters.
	Search(ctx context.Context, q SearchQuery) ([]schema.PlantFilterIndex, error)
}
