package schema_test

import (
	"strings"
	"testing"

	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStateTableDDL tests DDL generation for the State model
func TestStateTableDDL(t *testing.T) {
	s := schema.State{}
	ddl := s.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE states")
	assert.Contains(t, ddl, "state_code CHAR(2) PRIMARY KEY")
	assert.Contains(t, ddl, "state_name VARCHAR(100) NOT NULL")
	assert.Contains(t, ddl, "state_slug VARCHAR(50) NOT NULL")
	assert.Contains(t, ddl, "is_active BOOLEAN NOT NULL DEFAULT TRUE")
}

// TestFetchTableDDL tests DDL generation for the Fetch model
func TestFetchTableDDL(t *testing.T) {
	f := schema.Fetch{}
	ddl := f.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE fetches")
	assert.Contains(t, ddl, "id BIGSERIAL PRIMARY KEY")
	assert.Contains(t, ddl, "url TEXT NOT NULL")

	// Nullable columns for failed fetches
	assert.Contains(t, ddl, "http_status INT")
	assert.Contains(t, ddl, "error TEXT")
	assert.NotContains(t, ddl, "http_status INT NOT NULL")
}

// TestRawStatePlantDedupIndex tests the replay-safe uniqueness scope
func TestRawStatePlantDedupIndex(t *testing.T) {
	rp := schema.RawStatePlant{}
	indexes := rp.IndexDDL()
	require.NotEmpty(t, indexes)

	var dedup string
	for _, idx := range indexes {
		if strings.Contains(idx, "idx_raw_state_plants_dedup") {
			dedup = idx
		}
	}
	require.NotEmpty(t, dedup, "dedup index must exist")
	assert.Contains(t, dedup, "UNIQUE")
	assert.Contains(t, dedup, "(fetch_id, symbol, synonym_key)")
}

// TestRawStatePlantSynonymKeySentinel ensures the synonym key
// column defaults to empty string rather than allowing NULL, so
// rows without a synonym dedup against each other.
func TestRawStatePlantSynonymKeySentinel(t *testing.T) {
	rp := schema.RawStatePlant{}
	ddl := rp.TableDDL()
	assert.Contains(t, ddl, "synonym_key VARCHAR(20) NOT NULL DEFAULT ''")
}

// TestCanonicalPlantTableDDL tests the canonical plant model
func TestCanonicalPlantTableDDL(t *testing.T) {
	cp := schema.CanonicalPlant{}
	ddl := cp.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE canonical_plants")
	assert.Contains(t, ddl, "symbol VARCHAR(20) PRIMARY KEY")
	assert.Contains(t, ddl, "scientific_name VARCHAR(255) NOT NULL")
	// Enrichable fields stay nullable
	assert.Contains(t, ddl, "canonical_name VARCHAR(255)")
	assert.Contains(t, ddl, "family VARCHAR(100)")
}

// TestPageFetchUniqueness tests one status row per symbol and page type
func TestPageFetchUniqueness(t *testing.T) {
	pf := schema.PageFetch{}
	indexes := pf.IndexDDL()

	var unique string
	for _, idx := range indexes {
		if strings.Contains(idx, "idx_page_fetches_symbol_type") {
			unique = idx
		}
	}
	require.NotEmpty(t, unique)
	assert.Contains(t, unique, "UNIQUE")
	assert.Contains(t, unique, "(symbol, page_type)")
}

// TestPlantTraitKVDedupIndex tests the bounded value-key dedup scope
func TestPlantTraitKVDedupIndex(t *testing.T) {
	kv := schema.PlantTraitKV{}

	ddl := kv.TableDDL()
	assert.Contains(t, ddl, "value_key VARCHAR(160) NOT NULL")
	// Value itself must not be truncated
	assert.Contains(t, ddl, "trait_value TEXT NOT NULL")

	var dedup string
	for _, idx := range kv.IndexDDL() {
		if strings.Contains(idx, "idx_plant_trait_kvs_dedup") {
			dedup = idx
		}
	}
	require.NotEmpty(t, dedup)
	assert.Contains(t, dedup, "(symbol, section, trait_name, value_key)")
}

// TestNormalizedTraitTableName tests that the projection table keeps
// its own name distinct from the raw KV table
func TestNormalizedTraitTableName(t *testing.T) {
	nt := schema.NormalizedTrait{}
	assert.Equal(t, "plant_traits_normalized", nt.TableName())
	assert.Contains(t, nt.TableDDL(), "CREATE TABLE plant_traits_normalized")
}

// TestPlantFilterIndexDDL tests the denormalized search row
func TestPlantFilterIndexDDL(t *testing.T) {
	fi := schema.PlantFilterIndex{}
	ddl := fi.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE plant_filter_indices")
	assert.Contains(t, ddl, "symbol VARCHAR(20) PRIMARY KEY")

	// Enum facets are NOT NULL; absence is the Unknown variant.
	assert.Contains(t, ddl, "duration_primary VARCHAR(20) NOT NULL")
	assert.Contains(t, ddl, "shade_tolerance VARCHAR(20) NOT NULL")
	assert.Contains(t, ddl, "moisture_use VARCHAR(20) NOT NULL")
	assert.Contains(t, ddl, "bloom_period VARCHAR(20) NOT NULL")

	assert.Contains(t, ddl, "is_shade_tolerant BOOLEAN NOT NULL")
	assert.Contains(t, ddl, "is_non_flowering BOOLEAN NOT NULL")
	assert.Contains(t, ddl, "has_profile_kv BOOLEAN NOT NULL")
	assert.Contains(t, ddl, "has_characteristics_kv BOOLEAN NOT NULL")
}

// TestAllModelsComplete verifies every table participates in migration
func TestAllModelsComplete(t *testing.T) {
	models := schema.AllModels()
	assert.Len(t, models, 14)

	names := make(map[string]bool)
	for _, m := range models {
		gen, ok := m.(schema.DDLGenerator)
		require.True(t, ok, "model %T must implement DDLGenerator", m)
		names[gen.TableName()] = true
	}

	for _, want := range []string{
		"states", "fetches", "raw_state_plants", "canonical_plants",
		"plant_state_presences", "plant_synonyms", "plant_common_names",
		"plant_images", "page_fetches", "plant_trait_kvs",
		"plant_traits_normalized", "plant_filter_indices",
		"plant_durations", "plant_growth_habits",
	} {
		assert.True(t, names[want], "missing model for table %s", want)
	}
}

// TestPlantScopedTablesReferenceCanonical verifies every table keyed
// by a plant symbol declares a constraint back to canonical_plants, so
// plant-scoped rows cannot outlive or precede their canonical row.
func TestPlantScopedTablesReferenceCanonical(t *testing.T) {
	covered := make(map[string]bool)
	for _, stmt := range schema.ForeignKeys() {
		if strings.Contains(stmt, "REFERENCES canonical_plants(symbol)") {
			covered[strings.Fields(stmt)[2]] = true
		}
	}

	for _, table := range []string{
		"plant_state_presences", "plant_synonyms", "plant_common_names",
		"plant_images", "page_fetches", "plant_trait_kvs",
		"plant_traits_normalized", "plant_filter_indices",
	} {
		assert.True(t, covered[table],
			"table %s must reference canonical_plants", table)
	}
}

// TestForeignKeysTargetExistingTables cross-checks constraint SQL
// against the model list
func TestForeignKeysTargetExistingTables(t *testing.T) {
	names := make(map[string]bool)
	for _, m := range schema.AllModels() {
		names[m.(schema.DDLGenerator).TableName()] = true
	}

	for _, stmt := range schema.ForeignKeys() {
		assert.Contains(t, stmt, "FOREIGN KEY")
		i := strings.Index(stmt, "REFERENCES ")
		require.Greater(t, i, 0, "constraint must reference a table: %s", stmt)
		rest := stmt[i+len("REFERENCES "):]
		table := rest[:strings.Index(rest, "(")]
		assert.True(t, names[table], "unknown referenced table %q", table)
	}
}
