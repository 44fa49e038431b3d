package ioschema_test

import (
	"context"
	"testing"

	"github.com/Don-Green-Here/npdb/internal/iodb"
	"github.com/Don-Green-Here/npdb/internal/iofs"
	"github.com/Don-Green-Here/npdb/internal/ioschema"
	"github.com/Don-Green-Here/npdb/internal/iotesting"
	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/Don-Green-Here/npdb/pkg/db"
	"github.com/Don-Green-Here/npdb/pkg/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests: require PostgreSQL, see internal/iodb tests for
// configuration. Skip with: go test -short

func setupOperator(t *testing.T) (db.Operator, *config.Config) {
	t.Helper()
	cfg := iotesting.GetTestConfig()
	op := iodb.NewPgxOperator()
	err := op.Connect(context.Background(), &cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { op.Close() })
	return op, cfg
}

func testRegistry(t *testing.T) *states.Registry {
	t.Helper()
	reg, err := states.New([]byte(iofs.StatesYAML))
	require.NoError(t, err)
	return reg
}

func TestSchemaCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op, cfg := setupOperator(t)
	ctx := context.Background()

	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	err := mgr.Create(ctx, cfg, testRegistry(t))
	require.NoError(t, err)

	for _, table := range []string{
		"states", "fetches", "raw_state_plants", "canonical_plants",
		"plant_state_presences", "plant_synonyms", "plant_common_names",
		"plant_images", "page_fetches", "plant_trait_kvs",
		"plant_traits_normalized", "plant_filter_indices",
		"plant_durations", "plant_growth_habits",
	} {
		exists, err := op.TableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}

func TestSchemaCreateSeedsStates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op, cfg := setupOperator(t)
	ctx := context.Background()

	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg, testRegistry(t)))

	var count int
	err := op.Pool().QueryRow(ctx,
		"SELECT count(*) FROM states").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 51, count, "50 states plus DC")

	var slug string
	err = op.Pool().QueryRow(ctx,
		"SELECT state_slug FROM states WHERE state_code = 'NC'").
		Scan(&slug)
	require.NoError(t, err)
	assert.Equal(t, "NCplants", slug)
}

func TestSchemaCreateIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op, cfg := setupOperator(t)
	ctx := context.Background()

	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg, testRegistry(t)))

	// Second create over an existing schema must not fail and must
	// not overwrite manual state edits.
	_, err := op.Pool().Exec(ctx,
		"UPDATE states SET is_active = FALSE WHERE state_code = 'HI'")
	require.NoError(t, err)

	require.NoError(t, mgr.Create(ctx, cfg, testRegistry(t)))

	var active bool
	err = op.Pool().QueryRow(ctx,
		"SELECT is_active FROM states WHERE state_code = 'HI'").
		Scan(&active)
	require.NoError(t, err)
	assert.False(t, active, "manual deactivation should survive")
}

func TestSchemaRejectsOrphanPlantRows(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op, cfg := setupOperator(t)
	ctx := context.Background()

	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg, testRegistry(t)))

	// no canonical row exists for NOPE; every plant-scoped insert
	// must hit a foreign key
	_, err := op.Pool().Exec(ctx, `
INSERT INTO page_fetches
  (symbol, page_type, page_url, fetched_at, status)
VALUES ('NOPE', 'profile', 'test://page', now(), 'HAS_DATA')`)
	assert.Error(t, err, "page status for an unknown plant")

	_, err = op.Pool().Exec(ctx, `
INSERT INTO plant_trait_kvs
  (symbol, section, trait_name, trait_value, value_key, kv_uuid,
   page_url, fetched_at)
VALUES ('NOPE', 'Growth Requirements', 'Shade Tolerance', 'Tolerant',
        'Tolerant', gen_random_uuid(), 'test://page', now())`)
	assert.Error(t, err, "trait KV for an unknown plant")

	_, err = op.Pool().Exec(ctx, `
INSERT INTO plant_traits_normalized
  (symbol, trait_key, trait_value, value_type,
   trait_name_raw, trait_value_raw, source_system, last_computed_at)
VALUES ('NOPE', 'shade_tolerance', 'Tolerant', 'enum',
        'Shade Tolerance', 'Tolerant', 'USDA_PLANT_PROFILE', now())`)
	assert.Error(t, err, "normalized trait for an unknown plant")
}

func TestSchemaMigrate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op, cfg := setupOperator(t)
	ctx := context.Background()

	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg, testRegistry(t)))
	require.NoError(t, mgr.Migrate(ctx, cfg))
}

func TestSchemaNotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewPgxOperator())
	ctx := context.Background()
	cfg := iotesting.GetTestConfig()

	err := mgr.Create(ctx, cfg, testRegistry(t))
	assert.Error(t, err)

	err = mgr.Migrate(ctx, cfg)
	assert.Error(t, err)
}
