package pipeline

import (
	"context"

	"github.com/Don-Green-Here/npdb/pkg/schema"
)

// CanonResult summarizes one canonicalization pass.
type CanonResult struct {
	// Created is the number of new canonical plants.
	Created int

	// Updated is the number of existing plants enriched with at least
	// one previously-empty field.
	Updated int

	// Rejected is the number of raw rows dropped (blank scientific
	// name and no prior canonical row for the symbol).
	Rejected int

	// Presences, Synonyms and CommonNames count relationship rows
	// inserted (duplicates excluded).
	Presences   int
	Synonyms    int
	CommonNames int
}

// Canonicalizer reconciles raw checklist rows into the single trusted
// canonical row per symbol, plus presence, synonym and common-name
// relationship edges. Merging is fill-only-empty: existing non-empty
// canonical fields are never overwritten.
type Canonicalizer interface {
	// CanonicalizeFetch reconciles all raw rows of one fetch in a
	// single transaction.
	CanonicalizeFetch(ctx context.Context, fetchID int64) (*CanonResult, error)

	// GetCanonical returns the canonical row for a symbol.
	GetCanonical(ctx context.Context, symbol string) (*schema.CanonicalPlant, error)

	// GetStates returns the state codes a symbol was observed in,
	// sorted.
	GetStates(ctx context.Context, symbol string) ([]string, error)

	// GetSynonyms returns the distinct synonym symbols recorded for a
	// symbol, sorted.
	GetSynonyms(ctx context.Context, symbol string) ([]string, error)
}
