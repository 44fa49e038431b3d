// Package iocanon reconciles raw checklist rows into canonical plants
// and their relationship edges. The canonical store is append-and-
// enrich: a symbol's row is created on first observation and later
// only filled where empty, never overwritten, so re-running
// canonicalization in any order converges to the same result.
package iocanon

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/parserpool"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/jackc/pgx/v5"
)

type canonicalizer struct {
	operator db.Operator
	parser   parserpool.Pool
}

// New creates a Canonicalizer.
func New(op db.Operator, parser parserpool.Pool) pipeline.Canonicalizer {
	return &canonicalizer{operator: op, parser: parser}
}

// mergedPlant is the per-symbol outcome of the merge pre-pass over one
// fetch: the first non-blank value of each field, in raw row order.
type mergedPlant struct {
	symbol         string
	scientificName string
	family         string
	commonName     string
	rejectedRows   int
}

type rawEdge struct {
	symbol        string
	synonymSymbol string
	commonName    string
}

func (c *canonicalizer) CanonicalizeFetch(
	ctx context.Context,
	fetchID int64,
) (*pipeline.CanonResult, error) {
	pool := c.operator.Pool()

	merged, edges, stateCode, err := c.loadAndMerge(ctx, fetchID)
	if err != nil {
		return nil, err
	}

	res := &pipeline.CanonResult{}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, MergeError(fetchID, err)
	}
	defer tx.Rollback(ctx)

	existing, err := existingSymbols(ctx, tx)
	if err != nil {
		return nil, MergeError(fetchID, err)
	}

	now := time.Now().UTC()
	accepted := make(map[string]bool)

	for _, m := range merged {
		// every blank-name raw row counts in the reject report, even
		// when a sibling row anchors the symbol
		res.Rejected += m.rejectedRows

		if m.scientificName == "" && !existing[m.symbol] {
			// nothing trustworthy to anchor a canonical row on
			slog.Warn("rejected symbol without scientific name",
				"fetchID", fetchID, "symbol", m.symbol)
			continue
		}
		accepted[m.symbol] = true

		if m.scientificName == "" {
			// existing canonical row carries the name; only edges are
			// added for this observation
			continue
		}

		canonical := c.parser.Canonical(m.scientificName)

		q := `
INSERT INTO canonical_plants
  (symbol, scientific_name, canonical_name, family,
   preferred_common_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (symbol) DO UPDATE SET
  scientific_name = CASE
    WHEN canonical_plants.scientific_name = ''
    THEN EXCLUDED.scientific_name
    ELSE canonical_plants.scientific_name END,
  canonical_name = COALESCE(
    canonical_plants.canonical_name, EXCLUDED.canonical_name),
  family = COALESCE(canonical_plants.family, EXCLUDED.family),
  preferred_common_name = COALESCE(
    canonical_plants.preferred_common_name,
    EXCLUDED.preferred_common_name),
  updated_at = EXCLUDED.updated_at
WHERE canonical_plants.scientific_name = ''
   OR (canonical_plants.canonical_name IS NULL
       AND EXCLUDED.canonical_name IS NOT NULL)
   OR (canonical_plants.family IS NULL
       AND EXCLUDED.family IS NOT NULL)
   OR (canonical_plants.preferred_common_name IS NULL
       AND EXCLUDED.preferred_common_name IS NOT NULL)`

		tag, err := tx.Exec(ctx, q,
			m.symbol,
			m.scientificName,
			nullIfEmpty(canonical),
			nullIfEmpty(m.family),
			nullIfEmpty(m.commonName),
			now,
		)
		if err != nil {
			return nil, MergeError(fetchID, err)
		}
		if tag.RowsAffected() > 0 {
			if existing[m.symbol] {
				res.Updated++
			} else {
				res.Created++
			}
		}
	}

	for _, e := range edges {
		if !accepted[e.symbol] && !existing[e.symbol] {
			continue
		}

		tag, err := tx.Exec(ctx, `
INSERT INTO plant_state_presences (fetch_id, state_code, symbol)
VALUES ($1, $2, $3)
ON CONFLICT (fetch_id, state_code, symbol) DO NOTHING`,
			fetchID, stateCode, e.symbol)
		if err != nil {
			return nil, MergeError(fetchID, err)
		}
		res.Presences += int(tag.RowsAffected())

		if e.synonymSymbol != "" {
			tag, err = tx.Exec(ctx, `
INSERT INTO plant_synonyms (fetch_id, state_code, symbol, synonym_symbol)
VALUES ($1, $2, $3, $4)
ON CONFLICT (fetch_id, state_code, symbol, synonym_symbol) DO NOTHING`,
				fetchID, stateCode, e.symbol, e.synonymSymbol)
			if err != nil {
				return nil, MergeError(fetchID, err)
			}
			res.Synonyms += int(tag.RowsAffected())
		}

		if e.commonName != "" {
			tag, err = tx.Exec(ctx, `
INSERT INTO plant_common_names
  (symbol, common_name, state_key, source_system, is_preferred)
VALUES ($1, $2, $3, $4, FALSE)
ON CONFLICT (symbol, common_name, state_key, source_system) DO NOTHING`,
				e.symbol, e.commonName, stateCode, schema.SourceStateFile)
			if err != nil {
				return nil, MergeError(fetchID, err)
			}
			res.CommonNames += int(tag.RowsAffected())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, MergeError(fetchID, err)
	}

	slog.Info("canonicalized fetch",
		"fetchID", fetchID,
		"state", stateCode,
		"created", res.Created,
		"updated", res.Updated,
		"rejected", res.Rejected,
	)
	return res, nil
}

// loadAndMerge reads the raw rows of one fetch and folds them into
// per-symbol merged plants plus relationship edges.
func (c *canonicalizer) loadAndMerge(
	ctx context.Context,
	fetchID int64,
) ([]*mergedPlant, []rawEdge, string, error) {
	rows, err := c.operator.Pool().Query(ctx, `
SELECT state_code, symbol, synonym_symbol, scientific_name,
       common_name, family
FROM raw_state_plants
WHERE fetch_id = $1
ORDER BY id`, fetchID)
	if err != nil {
		return nil, nil, "", QueryError(err)
	}
	defer rows.Close()

	var (
		stateCode string
		order     []string
		bySymbol  = make(map[string]*mergedPlant)
		edges     []rawEdge
	)
	for rows.Next() {
		var (
			symbol, sciName      string
			synonym, common, fam sql.NullString
		)
		if err := rows.Scan(&stateCode, &symbol, &synonym,
			&sciName, &common, &fam); err != nil {
			return nil, nil, "", QueryError(err)
		}

		m, ok := bySymbol[symbol]
		if !ok {
			m = &mergedPlant{symbol: symbol}
			bySymbol[symbol] = m
			order = append(order, symbol)
		}
		if m.scientificName == "" {
			m.scientificName = sciName
		}
		if m.family == "" && fam.Valid {
			m.family = fam.String
		}
		if m.commonName == "" && common.Valid {
			m.commonName = common.String
		}
		if sciName == "" {
			m.rejectedRows++
		}

		edges = append(edges, rawEdge{
			symbol:        symbol,
			synonymSymbol: synonym.String,
			commonName:    common.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, "", QueryError(err)
	}

	merged := make([]*mergedPlant, 0, len(order))
	for _, sym := range order {
		merged = append(merged, bySymbol[sym])
	}
	return merged, edges, stateCode, nil
}

func existingSymbols(
	ctx context.Context,
	tx pgx.Tx,
) (map[string]bool, error) {
	rows, err := tx.Query(ctx, "SELECT symbol FROM canonical_plants")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]bool)
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		res[sym] = true
	}
	return res, rows.Err()
}

func (c *canonicalizer) GetCanonical(
	ctx context.Context,
	symbol string,
) (*schema.CanonicalPlant, error) {
	var p schema.CanonicalPlant
	err := c.operator.Pool().QueryRow(ctx, `
SELECT symbol, scientific_name, canonical_name, family,
       preferred_common_name, created_at, updated_at
FROM canonical_plants WHERE symbol = $1`, symbol).Scan(
		&p.Symbol, &p.ScientificName, &p.CanonicalName,
		&p.Family, &p.PreferredCommonName,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, QueryError(err)
	}
	return &p, nil
}

func (c *canonicalizer) GetStates(
	ctx context.Context,
	symbol string,
) ([]string, error) {
	return c.stringColumn(ctx, `
SELECT DISTINCT state_code FROM plant_state_presences
WHERE symbol = $1 ORDER BY state_code`, symbol)
}

func (c *canonicalizer) GetSynonyms(
	ctx context.Context,
	symbol string,
) ([]string, error) {
	return c.stringColumn(ctx, `
SELECT DISTINCT synonym_symbol FROM plant_synonyms
WHERE symbol = $1 ORDER BY synonym_symbol`, symbol)
}

func (c *canonicalizer) stringColumn(
	ctx context.Context,
	q, symbol string,
) ([]string, error) {
	rows, err := c.operator.Pool().Query(ctx, q, symbol)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, QueryError(err)
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
