package ioindex_test

import (
	"context"
	"testing"

	"github.com/Don-Green-Here/npdb/internal/iodb"
	"github.com/Don-Green-Here/npdb/internal/iofs"
	"github.com/Don-Green-Here/npdb/internal/ioindex"
	"github.com/Don-Green-Here/npdb/internal/ioschema"
	"github.com/Don-Green-Here/npdb/internal/iotesting"
	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/facet"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests: require PostgreSQL, skip with go test -short.

type testEnv struct {
	op  db.Operator
	idx pipeline.Indexer
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := iotesting.GetTestConfig()
	cfg.JobsNumber = 2
	op := iodb.NewPgxOperator()
	ctx := context.Background()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { op.Close() })

	require.NoError(t, op.DropAllTables(ctx))
	reg, err := states.New([]byte(iofs.StatesYAML))
	require.NoError(t, err)
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg, reg))

	return &testEnv{op: op, idx: ioindex.New(op, cfg)}
}

// seedPlant creates a canonical plant, its state presence and its
// normalized traits.
func (e *testEnv) seedPlant(
	t *testing.T,
	symbol, state string,
	traits map[string]string,
) {
	t.Helper()
	ctx := context.Background()

	_, err := e.op.Pool().Exec(ctx, `
INSERT INTO canonical_plants
  (symbol, scientific_name, preferred_common_name,
   created_at, updated_at)
VALUES ($1::text, $1::text || ' scientific', $1::text || ' common', now(), now())`,
		symbol)
	require.NoError(t, err)

	if state != "" {
		var fetchID int64
		err = e.op.Pool().QueryRow(ctx, `
INSERT INTO fetches (url, state_code, fetched_at, http_status, body)
VALUES ('test://seed', $1, now(), 200, 'x') RETURNING id`,
			state).Scan(&fetchID)
		require.NoError(t, err)

		_, err = e.op.Pool().Exec(ctx, `
INSERT INTO plant_state_presences (fetch_id, state_code, symbol)
VALUES ($1, $2, $3)`, fetchID, state, symbol)
		require.NoError(t, err)
	}

	for key, value := range traits {
		_, err = e.op.Pool().Exec(ctx, `
INSERT INTO plant_traits_normalized
  (symbol, trait_key, trait_value, value_type,
   trait_name_raw, trait_value_raw, source_system, last_computed_at)
VALUES ($1, $2, $3, 'text', $2, $3, 'USDA_PLANT_PROFILE', now())`,
			symbol, key, value)
		require.NoError(t, err)
	}
}

func TestRebuildSymbol(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	env.seedPlant(t, "ACRU", "NC", map[string]string{
		"shade_tolerance":    "Tolerant",
		"moisture_use":       "Medium",
		"bloom_period":       "Spring",
		"flower_conspicuous": "true",
		"duration":           "Perennial",
		"growth_habit":       "Tree, Shrub",
	})

	built, err := env.idx.RebuildSymbol(ctx, "ACRU")
	require.NoError(t, err)
	require.NotNil(t, built)
	assert.Equal(t, "ACRU", built.Symbol)
	assert.Equal(t, "Tolerant", built.ShadeTolerance)
	assert.False(t, built.LastIndexedAt.IsZero(),
		"returned row carries the stored stamp")

	rows, err := env.idx.Search(ctx, pipeline.SearchQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ACRU", row.Symbol)
	assert.Equal(t, "ACRU scientific", row.ScientificName)
	assert.Equal(t, "Tolerant", row.ShadeTolerance)
	assert.Equal(t, "Perennial", row.DurationPrimary)
	assert.Equal(t, facet.Unknown, row.LeafRetention)
	assert.True(t, row.IsShadeTolerant)
	assert.True(t, row.IsShowyBloomer)
	assert.False(t, row.IsEvergreen)
	assert.False(t, row.LastIndexedAt.IsZero())

	var habits int
	err = env.op.Pool().QueryRow(ctx, `
SELECT count(*) FROM plant_growth_habits
WHERE symbol = 'ACRU'`).Scan(&habits)
	require.NoError(t, err)
	assert.Equal(t, 2, habits)
}

func TestRebuildSymbolReplacesChildren(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	env.seedPlant(t, "MIXD", "NC", map[string]string{
		"duration": "Annual, Perennial",
	})
	_, err := env.idx.RebuildSymbol(ctx, "MIXD")
	require.NoError(t, err)

	// trait data changes; a rebuild must converge on the new set, not
	// accumulate the old one
	_, err = env.op.Pool().Exec(ctx, `
UPDATE plant_traits_normalized
SET trait_value = 'Perennial'
WHERE symbol = 'MIXD' AND trait_key = 'duration'`)
	require.NoError(t, err)
	_, err = env.idx.RebuildSymbol(ctx, "MIXD")
	require.NoError(t, err)

	var durations []string
	rows, err := env.op.Pool().Query(ctx, `
SELECT duration FROM plant_durations
WHERE symbol = 'MIXD' ORDER BY duration`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var d string
		require.NoError(t, rows.Scan(&d))
		durations = append(durations, d)
	}
	assert.Equal(t, []string{"Perennial"}, durations)
}

func TestRebuildSymbolMissingCanonical(t *testing.T) {
	env := setup(t)

	row, err := env.idx.RebuildSymbol(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Nil(t, row)
}

func TestRebuildState(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	env.seedPlant(t, "AAAA", "NC", nil)
	env.seedPlant(t, "BBBB", "NC", nil)
	env.seedPlant(t, "CCCC", "VA", nil)

	res, err := env.idx.RebuildState(ctx, "NC")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Indexed)
	assert.Equal(t, 0, res.Failed)

	var count int
	err = env.op.Pool().QueryRow(ctx,
		"SELECT count(*) FROM plant_filter_indices").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRebuildAll(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	env.seedPlant(t, "AAAA", "NC", nil)
	env.seedPlant(t, "BBBB", "", nil)

	res, err := env.idx.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Indexed)
}

func TestSearch(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	env.seedPlant(t, "SHADY", "NC", map[string]string{
		"shade_tolerance": "Tolerant",
		"duration":        "Perennial",
		"growth_habit":    "Tree",
	})
	env.seedPlant(t, "SUNNY", "NC", map[string]string{
		"shade_tolerance": "Intolerant",
		"duration":        "Annual, Perennial",
		"growth_habit":    "Forb/herb",
	})
	env.seedPlant(t, "OTHER", "VA", map[string]string{
		"shade_tolerance": "Tolerant",
	})
	_, err := env.idx.RebuildAll(ctx)
	require.NoError(t, err)

	for _, tt := range []struct {
		msg     string
		filters map[string]string
		want    []string
	}{
		{"scalar facet", map[string]string{
			"shade_tolerance": "Tolerant",
		}, []string{"OTHER", "SHADY"}},
		{"derived flag", map[string]string{
			"is_shade_tolerant": "yes",
		}, []string{"OTHER", "SHADY"}},
		{"multi-valued duration", map[string]string{
			"duration": "Annual",
		}, []string{"SUNNY"}},
		{"duration shared by both", map[string]string{
			"duration": "Perennial",
		}, []string{"SHADY", "SUNNY"}},
		{"conjunction with state", map[string]string{
			"shade_tolerance": "Tolerant",
			"state":           "nc",
		}, []string{"SHADY"}},
		{"growth habit", map[string]string{
			"growth_habit": "Tree",
		}, []string{"SHADY"}},
		{"no match", map[string]string{
			"moisture_use": "High",
		}, nil},
	} {
		rows, err := env.idx.Search(ctx,
			pipeline.SearchQuery{Filters: tt.filters})
		require.NoError(t, err, tt.msg)
		var got []string
		for _, r := range rows {
			got = append(got, r.Symbol)
		}
		assert.Equal(t, tt.want, got, tt.msg)
	}
}

func TestSearchRejectsUnknownFacet(t *testing.T) {
	env := setup(t)

	_, err := env.idx.Search(context.Background(), pipeline.SearchQuery{
		Filters: map[string]string{"favorite_color": "blue"},
	})
	require.Error(t, err)

	_, err = env.idx.Search(context.Background(), pipeline.SearchQuery{
		Filters: map[string]string{"is_evergreen": "maybe"},
	})
	require.Error(t, err, "derived flags take yes/no values only")
}

func TestSearchLimit(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	env.seedPlant(t, "AAAA", "NC", nil)
	env.seedPlant(t, "BBBB", "NC", nil)
	env.seedPlant(t, "CCCC", "NC", nil)
	_, err := env.idx.RebuildAll(ctx)
	require.NoError(t, err)

	rows, err := env.idx.Search(ctx, pipeline.SearchQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "AAAA", rows[0].Symbol)
}
