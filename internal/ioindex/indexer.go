// Package ioindex maintains the denormalized per-plant filter rows
// and answers facet queries over them. An index row collapses a
// plant's canonical record and normalized traits into fixed columns;
// multi-valued durations and growth habits live in child tables.
package ioindex

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/facet"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/Don-Green-Here/npdb/pkg/usda"
	"github.com/cheggaaa/pb/v3"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// defaultSearchLimit caps a search when the query does not set one.
const defaultSearchLimit = 100

type indexer struct {
	operator db.Operator
	cfg      *config.Config

	// symLocks serializes concurrent rebuilds of the same symbol.
	symLocks sync.Map
}

// New creates an Indexer.
func New(op db.Operator, cfg *config.Config) pipeline.Indexer {
	return &indexer{operator: op, cfg: cfg}
}

// RebuildSymbol recomputes one plant's index row and its duration and
// growth habit child rows in a single transaction, returning the
// stored row.
func (idx *indexer) RebuildSymbol(
	ctx context.Context,
	symbol string,
) (*schema.PlantFilterIndex, error) {
	mu, _ := idx.symLocks.LoadOrStore(symbol, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	plant, err := idx.loadCanonical(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if plant == nil {
		return nil, MissingCanonicalError(symbol)
	}

	traits, err := idx.loadNormalized(ctx, symbol)
	if err != nil {
		return nil, err
	}

	hasProfile, hasChar, err := idx.kvPresence(ctx, symbol)
	if err != nil {
		return nil, err
	}

	row, durations, habits := computeRow(plant, traits, hasProfile, hasChar)
	if err := idx.storeRow(ctx, row, durations, habits); err != nil {
		return nil, err
	}
	return row, nil
}

// RebuildState rebuilds index rows for every plant present in the
// state.
func (idx *indexer) RebuildState(
	ctx context.Context,
	stateCode string,
) (*pipeline.IndexResult, error) {
	symbols, err := idx.symbols(ctx, `
SELECT DISTINCT symbol FROM plant_state_presences
WHERE state_code = $1 ORDER BY symbol`, stateCode)
	if err != nil {
		return nil, err
	}
	return idx.rebuildMany(ctx, symbols)
}

// RebuildAll rebuilds index rows for every canonical plant.
func (idx *indexer) RebuildAll(ctx context.Context) (*pipeline.IndexResult, error) {
	symbols, err := idx.symbols(ctx,
		"SELECT symbol FROM canonical_plants ORDER BY symbol")
	if err != nil {
		return nil, err
	}
	return idx.rebuildMany(ctx, symbols)
}

// rebuildMany runs RebuildSymbol over a symbol list with a worker
// pool. Per-symbol failures are logged and counted, never fatal.
func (idx *indexer) rebuildMany(
	ctx context.Context,
	symbols []string,
) (*pipeline.IndexResult, error) {
	res := &pipeline.IndexResult{}
	var mu sync.Mutex

	bar := pb.Full.Start(len(symbols))
	bar.Set("prefix", "Indexing plants: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	jobs := make(chan string)
	g, ctx := errgroup.WithContext(ctx)

	for range idx.cfg.JobsNumber {
		g.Go(func() error {
			for symbol := range jobs {
				_, err := idx.RebuildSymbol(ctx, symbol)
				mu.Lock()
				if err != nil {
					res.Failed++
					slog.Warn("cannot index plant",
						"symbol", symbol, "error", err)
				} else {
					res.Indexed++
				}
				mu.Unlock()
				bar.Increment()
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("rebuilt filter index",
		"indexed", res.Indexed, "failed", res.Failed)
	return res, nil
}

// computeRow derives the index row and its child facet sets from a
// canonical plant and its normalized traits. Pure: the same inputs
// always produce the same row.
func computeRow(
	plant *schema.CanonicalPlant,
	traits []schema.NormalizedTrait,
	hasProfileKV, hasCharKV bool,
) (*schema.PlantFilterIndex, []string, []string) {
	byKey := make(map[string]string, len(traits))
	for _, nt := range traits {
		byKey[nt.TraitKey] = nt.TraitValue
	}

	shade := facet.ParseShadeTolerance(byKey["shade_tolerance"])
	bloom := facet.ParseBloomPeriod(byKey["bloom_period"])
	flower := facet.ParseYesNo(byKey["flower_conspicuous"])
	fall := facet.ParseYesNo(byKey["fall_conspicuous"])
	leaf := facet.ParseYesNo(byKey["leaf_retention"])

	durationRaw := byKey["duration"]
	habitsRaw := byKey["growth_habit"]

	row := &schema.PlantFilterIndex{
		Symbol:              plant.Symbol,
		PreferredCommonName: plant.PreferredCommonName,
		ScientificName:      plant.ScientificName,
		Family:              plant.Family,

		PlantGroup:      nullIfEmpty(byKey["plant_group"]),
		GrowthHabitsRaw: nullIfEmpty(habitsRaw),
		NativeStatusRaw: nullIfEmpty(byKey["native_status"]),
		DurationRaw:     nullIfEmpty(durationRaw),

		DurationPrimary:   string(facet.ParseDurationPrimary(durationRaw)),
		ShadeTolerance:    string(shade),
		MoistureUse:       string(facet.ParseMoistureUse(byKey["moisture_use"])),
		BloomPeriod:       bloom,
		FlowerConspicuous: string(flower),
		FallConspicuous:   string(fall),
		LeafRetention:     string(leaf),

		IsShadeTolerant: facet.IsShadeTolerant(shade),
		IsShowyBloomer:  facet.IsShowyBloomer(flower),
		HasFallInterest: facet.HasFallInterest(fall),
		IsEvergreen:     facet.IsEvergreen(leaf),
		IsNonFlowering:  facet.IsNonFlowering(bloom),

		HasProfileKV:         hasProfileKV,
		HasCharacteristicsKV: hasCharKV,
	}
	return row, facet.DurationSet(durationRaw), facet.SplitGrowthHabits(habitsRaw)
}

// storeRow writes the index row and replaces the child facet rows in
// one transaction. The index timestamp is stamped here, not in
// computeRow, so the computation stays deterministic.
func (idx *indexer) storeRow(
	ctx context.Context,
	row *schema.PlantFilterIndex,
	durations, habits []string,
) error {
	tx, err := idx.operator.Pool().Begin(ctx)
	if err != nil {
		return RebuildError(row.Symbol, err)
	}
	defer tx.Rollback(ctx)

	row.LastIndexedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `
INSERT INTO plant_filter_indices
  (symbol, preferred_common_name, scientific_name, family,
   plant_group, growth_habits_raw, native_status_raw, duration_raw,
   duration_primary, shade_tolerance, moisture_use, bloom_period,
   flower_conspicuous, fall_conspicuous, leaf_retention,
   is_shade_tolerant, is_showy_bloomer, has_fall_interest,
   is_evergreen, is_non_flowering,
   has_profile_kv, has_characteristics_kv, last_indexed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
        $15, $16, $17, $18, $19, $20, $21, $22, $23)
ON CONFLICT (symbol) DO UPDATE SET
  preferred_common_name = EXCLUDED.preferred_common_name,
  scientific_name = EXCLUDED.scientific_name,
  family = EXCLUDED.family,
  plant_group = EXCLUDED.plant_group,
  growth_habits_raw = EXCLUDED.growth_habits_raw,
  native_status_raw = EXCLUDED.native_status_raw,
  duration_raw = EXCLUDED.duration_raw,
  duration_primary = EXCLUDED.duration_primary,
  shade_tolerance = EXCLUDED.shade_tolerance,
  moisture_use = EXCLUDED.moisture_use,
  bloom_period = EXCLUDED.bloom_period,
  flower_conspicuous = EXCLUDED.flower_conspicuous,
  fall_conspicuous = EXCLUDED.fall_conspicuous,
  leaf_retention = EXCLUDED.leaf_retention,
  is_shade_tolerant = EXCLUDED.is_shade_tolerant,
  is_showy_bloomer = EXCLUDED.is_showy_bloomer,
  has_fall_interest = EXCLUDED.has_fall_interest,
  is_evergreen = EXCLUDED.is_evergreen,
  is_non_flowering = EXCLUDED.is_non_flowering,
  has_profile_kv = EXCLUDED.has_profile_kv,
  has_characteristics_kv = EXCLUDED.has_characteristics_kv,
  last_indexed_at = EXCLUDED.last_indexed_at`,
		row.Symbol, row.PreferredCommonName, row.ScientificName,
		row.Family, row.PlantGroup, row.GrowthHabitsRaw,
		row.NativeStatusRaw, row.DurationRaw, row.DurationPrimary,
		row.ShadeTolerance, row.MoistureUse, row.BloomPeriod,
		row.FlowerConspicuous, row.FallConspicuous, row.LeafRetention,
		row.IsShadeTolerant, row.IsShowyBloomer, row.HasFallInterest,
		row.IsEvergreen, row.IsNonFlowering,
		row.HasProfileKV, row.HasCharacteristicsKV, row.LastIndexedAt)
	if err != nil {
		return RebuildError(row.Symbol, err)
	}

	for table, values := range map[string][]string{
		"plant_durations":     durations,
		"plant_growth_habits": habits,
	} {
		column := "duration"
		if table == "plant_growth_habits" {
			column = "growth_habit"
		}
		_, err = tx.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE symbol = $1", table),
			row.Symbol)
		if err != nil {
			return RebuildError(row.Symbol, err)
		}
		for _, v := range values {
			_, err = tx.Exec(ctx, fmt.Sprintf(
				"INSERT INTO %s (symbol, %s) VALUES ($1, $2)",
				table, column), row.Symbol, v)
			if err != nil {
				return RebuildError(row.Symbol, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return RebuildError(row.Symbol, err)
	}
	return nil
}

// scalarFilters maps facet names to index columns.
var scalarFilters = map[string]string{
	"shade_tolerance":    "shade_tolerance",
	"moisture_use":       "moisture_use",
	"bloom_period":       "bloom_period",
	"duration_primary":   "duration_primary",
	"flower_conspicuous": "flower_conspicuous",
	"fall_conspicuous":   "fall_conspicuous",
	"leaf_retention":     "leaf_retention",
	"plant_group":        "plant_group",
	"family":             "family",
}

// boolFilters maps facet names to derived flag columns. Values are
// parsed as yes/no.
var boolFilters = map[string]string{
	"is_shade_tolerant": "is_shade_tolerant",
	"is_showy_bloomer":  "is_showy_bloomer",
	"has_fall_interest": "has_fall_interest",
	"is_evergreen":      "is_evergreen",
	"is_non_flowering":  "is_non_flowering",
}

// Search returns index rows matching every filter. Filter keys belong
// to a closed set; an unknown key is an error rather than a silently
// ignored condition.
func (idx *indexer) Search(
	ctx context.Context,
	q pipeline.SearchQuery,
) ([]schema.PlantFilterIndex, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	// deterministic condition order for stable query plans and tests
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := q.Filters[key]
		switch {
		case scalarFilters[key] != "":
			conds = append(conds,
				fmt.Sprintf("%s = %s", scalarFilters[key], arg(value)))
		case boolFilters[key] != "":
			yn := facet.ParseYesNo(value)
			if yn == facet.YesNoUnkn {
				return nil, SearchError(key,
					fmt.Errorf("value %q is not yes/no", value))
			}
			conds = append(conds,
				fmt.Sprintf("%s = %s", boolFilters[key], arg(yn == facet.Yes)))
		case key == "duration":
			conds = append(conds, fmt.Sprintf(`EXISTS (
  SELECT FROM plant_durations d
  WHERE d.symbol = i.symbol AND d.duration = %s)`, arg(value)))
		case key == "growth_habit":
			conds = append(conds, fmt.Sprintf(`EXISTS (
  SELECT FROM plant_growth_habits h
  WHERE h.symbol = i.symbol AND h.growth_habit = %s)`, arg(value)))
		case key == "state":
			conds = append(conds, fmt.Sprintf(`EXISTS (
  SELECT FROM plant_state_presences p
  WHERE p.symbol = i.symbol AND p.state_code = %s)`,
				arg(usda.NormalizeSymbol(value))))
		default:
			return nil, SearchError(key, fmt.Errorf("unknown facet"))
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := `
SELECT symbol, preferred_common_name, scientific_name, family,
       plant_group, growth_habits_raw, native_status_raw, duration_raw,
       duration_primary, shade_tolerance, moisture_use, bloom_period,
       flower_conspicuous, fall_conspicuous, leaf_retention,
       is_shade_tolerant, is_showy_bloomer, has_fall_interest,
       is_evergreen, is_non_flowering,
       has_profile_kv, has_characteristics_kv, last_indexed_at
FROM plant_filter_indices i`
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, "\n  AND ")
	}
	query += "\nORDER BY symbol LIMIT " + arg(limit)

	rows, err := idx.operator.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, SearchError("", err)
	}
	defer rows.Close()

	var res []schema.PlantFilterIndex
	for rows.Next() {
		var r schema.PlantFilterIndex
		if err := rows.Scan(&r.Symbol, &r.PreferredCommonName,
			&r.ScientificName, &r.Family, &r.PlantGroup,
			&r.GrowthHabitsRaw, &r.NativeStatusRaw, &r.DurationRaw,
			&r.DurationPrimary, &r.ShadeTolerance, &r.MoistureUse,
			&r.BloomPeriod, &r.FlowerConspicuous, &r.FallConspicuous,
			&r.LeafRetention, &r.IsShadeTolerant, &r.IsShowyBloomer,
			&r.HasFallInterest, &r.IsEvergreen, &r.IsNonFlowering,
			&r.HasProfileKV, &r.HasCharacteristicsKV,
			&r.LastIndexedAt); err != nil {
			return nil, SearchError("", err)
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func (idx *indexer) loadCanonical(
	ctx context.Context,
	symbol string,
) (*schema.CanonicalPlant, error) {
	var p schema.CanonicalPlant
	err := idx.operator.Pool().QueryRow(ctx, `
SELECT symbol, scientific_name, canonical_name, family,
       preferred_common_name
FROM canonical_plants WHERE symbol = $1`, symbol).Scan(
		&p.Symbol, &p.ScientificName, &p.CanonicalName, &p.Family,
		&p.PreferredCommonName)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, RebuildError(symbol, err)
	}
	return &p, nil
}

func (idx *indexer) loadNormalized(
	ctx context.Context,
	symbol string,
) ([]schema.NormalizedTrait, error) {
	rows, err := idx.operator.Pool().Query(ctx, `
SELECT trait_key, trait_value
FROM plant_traits_normalized WHERE symbol = $1`, symbol)
	if err != nil {
		return nil, RebuildError(symbol, err)
	}
	defer rows.Close()

	var res []schema.NormalizedTrait
	for rows.Next() {
		var nt schema.NormalizedTrait
		if err := rows.Scan(&nt.TraitKey, &nt.TraitValue); err != nil {
			return nil, RebuildError(symbol, err)
		}
		res = append(res, nt)
	}
	return res, rows.Err()
}

// kvPresence reports whether any trait KVs exist for the symbol on
// each page type. Profile KVs carry one of the three profile section
// labels; everything else came from a characteristics page.
func (idx *indexer) kvPresence(
	ctx context.Context,
	symbol string,
) (hasProfile, hasChar bool, err error) {
	err = idx.operator.Pool().QueryRow(ctx, `
SELECT
  EXISTS (SELECT FROM plant_trait_kvs
          WHERE symbol = $1 AND section IN ($2, $3, $4)),
  EXISTS (SELECT FROM plant_trait_kvs
          WHERE symbol = $1 AND section NOT IN ($2, $3, $4))`,
		symbol, usda.SectionProfile, usda.SectionClassification,
		usda.SectionDirect).Scan(&hasProfile, &hasChar)
	if err != nil {
		return false, false, RebuildError(symbol, err)
	}
	return hasProfile, hasChar, nil
}

func (idx *indexer) symbols(
	ctx context.Context,
	query string,
	args ...any,
) ([]string, error) {
	rows, err := idx.operator.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, SearchError("", err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, SearchError("", err)
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
