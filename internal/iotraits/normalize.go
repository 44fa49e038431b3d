package iotraits

import (
	"context"
	"log/slog"
	"time"

	"github.com/Don-Green-Here/npdb/pkg/facet"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/Don-Green-Here/npdb/pkg/usda"
	"github.com/cheggaaa/pb/v3"
	"github.com/jackc/pgx/v5"
)

// bestKV is one winning raw observation per trait name.
type bestKV struct {
	name    string
	value   string
	section string
}

// NormalizeSymbol recomputes normalized traits for one plant from its
// best KV per trait name, replacing previous rows in place. The best
// observation prefers the direct summary lookup, then non-blank
// values, then recency.
func (tm *traitManager) NormalizeSymbol(
	ctx context.Context,
	symbol string,
) (*pipeline.NormalizeResult, error) {
	best, err := tm.bestKVs(ctx, symbol)
	if err != nil {
		return nil, err
	}

	res := &pipeline.NormalizeResult{Symbols: 1}

	now := time.Now().UTC()
	seen := make(map[string]bool)
	type projected struct {
		n       facet.Normalized
		nameRaw string
		valRaw  string
	}
	var out []projected

	for _, kv := range best {
		n := facet.NormalizeTrait(kv.name, kv.value)
		if seen[n.Key] {
			// alias spellings of the same trait collapse to one key;
			// the first winner stays
			continue
		}
		seen[n.Key] = true
		if !facet.KnownTrait(kv.name) {
			res.Unrecognized++
		}
		out = append(out, projected{
			n: n, nameRaw: kv.name, valRaw: kv.value,
		})
	}

	tx, err := tm.operator.Pool().Begin(ctx)
	if err != nil {
		return nil, NormalizeError(symbol, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM plant_traits_normalized WHERE symbol = $1",
		symbol); err != nil {
		return nil, NormalizeError(symbol, err)
	}

	for _, p := range out {
		_, err := tx.Exec(ctx, `
INSERT INTO plant_traits_normalized
  (symbol, trait_key, trait_value, value_type,
   trait_name_raw, trait_value_raw, source_system, last_computed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			symbol, p.n.Key, p.n.Value, string(p.n.Kind),
			p.nameRaw, p.valRaw, schema.SourcePlantProfile, now)
		if err != nil {
			return nil, NormalizeError(symbol, err)
		}
		res.Traits++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, NormalizeError(symbol, err)
	}
	return res, nil
}

// NormalizeState recomputes normalized traits for every plant present
// in the state.
func (tm *traitManager) NormalizeState(
	ctx context.Context,
	stateCode string,
) (*pipeline.NormalizeResult, error) {
	symbols, err := tm.stateSymbols(ctx, stateCode)
	if err != nil {
		return nil, err
	}

	bar := pb.Full.Start(len(symbols))
	bar.Set("prefix", "Normalizing traits: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	total := &pipeline.NormalizeResult{}
	for _, symbol := range symbols {
		one, err := tm.NormalizeSymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}
		total.Symbols += one.Symbols
		total.Traits += one.Traits
		total.Unrecognized += one.Unrecognized
		bar.Increment()
	}

	slog.Info("normalized state traits",
		"state", stateCode,
		"symbols", total.Symbols,
		"traits", total.Traits,
		"unrecognized", total.Unrecognized,
	)
	return total, nil
}

// bestKVs picks one observation per trait name with a window query:
// the direct summary lookup beats page sections, non-blank beats
// blank, newer beats older.
func (tm *traitManager) bestKVs(
	ctx context.Context,
	symbol string,
) ([]bestKV, error) {
	rows, err := tm.operator.Pool().Query(ctx, `
SELECT trait_name, trait_value, section FROM (
  SELECT trait_name, trait_value, section,
    ROW_NUMBER() OVER (
      PARTITION BY trait_name
      ORDER BY (section = $2) DESC,
               (trait_value = '') ASC,
               fetched_at DESC, id DESC
    ) AS rn
  FROM plant_trait_kvs
  WHERE symbol = $1
) t
WHERE rn = 1
ORDER BY trait_name`, symbol, usda.SectionDirect)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	var res []bestKV
	for rows.Next() {
		var kv bestKV
		if err := rows.Scan(&kv.name, &kv.value, &kv.section); err != nil {
			return nil, QueryError(err)
		}
		res = append(res, kv)
	}
	return res, rows.Err()
}

// GetNormalized returns one normalized trait row by symbol and trait
// key, or nil when the plant has no such trait.
func (tm *traitManager) GetNormalized(
	ctx context.Context,
	symbol, traitKey string,
) (*schema.NormalizedTrait, error) {
	var nt schema.NormalizedTrait
	err := tm.operator.Pool().QueryRow(ctx, `
SELECT symbol, trait_key, trait_value, value_type,
       trait_name_raw, trait_value_raw, source_system, last_computed_at
FROM plant_traits_normalized
WHERE symbol = $1 AND trait_key = $2`, symbol, traitKey).Scan(
		&nt.Symbol, &nt.TraitKey, &nt.TraitValue, &nt.ValueType,
		&nt.TraitNameRaw, &nt.TraitValueRaw, &nt.SourceSystem,
		&nt.LastComputedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, QueryError(err)
	}
	return &nt, nil
}

// GetAllNormalized returns the normalized trait rows for a symbol.
func (tm *traitManager) GetAllNormalized(
	ctx context.Context,
	symbol string,
) ([]schema.NormalizedTrait, error) {
	rows, err := tm.operator.Pool().Query(ctx, `
SELECT symbol, trait_key, trait_value, value_type,
       trait_name_raw, trait_value_raw, source_system, last_computed_at
FROM plant_traits_normalized
WHERE symbol = $1
ORDER BY trait_key`, symbol)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	var res []schema.NormalizedTrait
	for rows.Next() {
		var nt schema.NormalizedTrait
		if err := rows.Scan(&nt.Symbol, &nt.TraitKey, &nt.TraitValue,
			&nt.ValueType, &nt.TraitNameRaw, &nt.TraitValueRaw,
			&nt.SourceSystem, &nt.LastComputedAt); err != nil {
			return nil, QueryError(err)
		}
		res = append(res, nt)
	}
	return res, rows.Err()
}
