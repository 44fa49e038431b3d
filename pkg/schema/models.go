// Package schema provides database schema models for npdb.
// The schema is the normalized source of truth for the USDA
// native-plants reconciliation pipeline plus its denormalized
// filter index projection.
package schema

import (
	"database/sql"
	"time"
)

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// Page fetch status values. Set exactly once per (symbol, page type)
// unless a refetch is forced; NO_DATA and ERROR gate trait extraction.
const (
	PageStatusHasData = "HAS_DATA"
	PageStatusNoData  = "NO_DATA"
	PageStatusError   = "ERROR"
)

// Page types for per-symbol USDA pages.
const (
	PageTypeProfile         = "profile"
	PageTypeCharacteristics = "characteristics"
)

// Source system tags recorded with provenance-bearing rows.
const (
	SourceStateFile    = "USDA_STATE_FILE"
	SourcePlantProfile = "USDA_PLANT_PROFILE"
)

// State is immutable reference data for one jurisdiction, seeded from
// the embedded states.yaml registry. The pipeline never writes here.
type State struct {
	// StateCode is the two-letter jurisdiction code, e.g. "NC".
	StateCode string `db:"state_code" ddl:"CHAR(2) PRIMARY KEY" gorm:"primaryKey;type:char(2)"`

	// StateName is the human-readable name.
	StateName string `db:"state_name" ddl:"VARCHAR(100) NOT NULL" gorm:"type:varchar(100);not null"`

	// StateSlug is the URL slug used to build the checklist download URL.
	StateSlug string `db:"state_slug" ddl:"VARCHAR(50) NOT NULL" gorm:"type:varchar(50);not null"`

	// IsActive is false for jurisdictions that should not be fetched.
	IsActive bool `db:"is_active" ddl:"BOOLEAN NOT NULL DEFAULT TRUE" gorm:"not null;default:true"`
}

// Fetch is one HTTP retrieval attempt. Append-only: a Fetch row is never
// mutated after creation, it is the unit of provenance for every
// downstream raw record.
type Fetch struct {
	// ID identifies the fetch; every raw row carries it as provenance.
	ID int64 `db:"id" ddl:"BIGSERIAL PRIMARY KEY" gorm:"primaryKey;autoIncrement"`

	// URL is the target that was requested.
	URL string `db:"url" ddl:"TEXT NOT NULL" gorm:"type:text;not null"`

	// StateCode is set for state checklist fetches, NULL for page fetches.
	StateCode sql.NullString `db:"state_code" ddl:"CHAR(2)" gorm:"type:char(2)"`

	// FetchedAt is the retrieval timestamp (UTC).
	FetchedAt time.Time `db:"fetched_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`

	// HTTPStatus is NULL when the request failed before a response.
	HTTPStatus sql.NullInt32 `db:"http_status" ddl:"INT"`

	// ContentType is the Content-Type response header, if any.
	ContentType sql.NullString `db:"content_type" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`

	// Body is the raw payload. Kept even for non-200 responses so failed
	// fetches can be inspected.
	Body sql.NullString `db:"body" ddl:"TEXT" gorm:"type:text"`

	// Error holds transport error text when the request never completed.
	Error sql.NullString `db:"error" ddl:"TEXT" gorm:"type:text"`
}

// RawStatePlant is one row parsed from a state checklist fetch. Not yet
// trusted as canonical; uniqueness is scoped to
// (fetch_id, symbol, synonym_key) so re-parsing a fetch cannot duplicate.
type RawStatePlant struct {
	ID int64 `db:"id" ddl:"BIGSERIAL PRIMARY KEY" gorm:"primaryKey;autoIncrement"`

	// FetchID is the provenance fetch.
	FetchID int64 `db:"fetch_id" ddl:"BIGINT NOT NULL" gorm:"not null;uniqueIndex:idx_raw_state_plants_dedup,priority:1"`

	// StateCode is the state the checklist belongs to.
	StateCode string `db:"state_code" ddl:"CHAR(2) NOT NULL" gorm:"type:char(2);not null;index"`

	// Symbol is the USDA species code, uppercased.
	Symbol string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_raw_state_plants_dedup,priority:2;index"`

	// SynonymSymbol is the alternate symbol as given, NULL when absent.
	SynonymSymbol sql.NullString `db:"synonym_symbol" ddl:"VARCHAR(20)" gorm:"type:varchar(20)"`

	// SynonymKey is SynonymSymbol normalized for dedup: uppercased and
	// trimmed, with the empty string standing in for an absent synonym.
	// An absent optional field must compare as a stable sentinel, not as
	// a SQL NULL wildcard.
	SynonymKey string `db:"synonym_key" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"type:varchar(20);not null;default:'';uniqueIndex:idx_raw_state_plants_dedup,priority:3"`

	// ScientificName is the scientific name with author, verbatim.
	ScientificName string `db:"scientific_name" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`

	// CommonName is the state common name, if any.
	CommonName sql.NullString `db:"common_name" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`

	// Family is the botanical family, if any.
	Family sql.NullString `db:"family" ddl:"VARCHAR(100)" gorm:"type:varchar(100)"`

	// RecordUUID is UUID v5 of the normalized dedup key
	// fetch_id|symbol|synonym_key; a stable cross-store identity for the
	// same logical row.
	RecordUUID string `db:"record_uuid" ddl:"UUID NOT NULL" gorm:"type:uuid;not null"`

	// CreatedAt is the ingest timestamp.
	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`
}

// CanonicalPlant is the one trusted row per species symbol. Created on
// first observation, updated fill-only-empty as richer raw data arrives,
// never deleted. Every plant-scoped table references it by symbol.
type CanonicalPlant struct {
	// Symbol is the canonical plant identity key.
	Symbol string `db:"symbol" ddl:"VARCHAR(20) PRIMARY KEY" gorm:"primaryKey;type:varchar(20)"`

	// ScientificName is the merged scientific name with author.
	ScientificName string `db:"scientific_name" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`

	// CanonicalName is the gnparser simple canonical form, when the
	// scientific name parses.
	CanonicalName sql.NullString `db:"canonical_name" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`

	// Family is the merged botanical family.
	Family sql.NullString `db:"family" ddl:"VARCHAR(100)" gorm:"type:varchar(100)"`

	// PreferredCommonName is the merged preferred common name.
	PreferredCommonName sql.NullString `db:"preferred_common_name" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`

	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`
}

// PlantStatePresence records that a given fetch observed a given symbol
// in a given state. Supports "which states is this plant native to".
type PlantStatePresence struct {
	FetchID   int64  `db:"fetch_id" ddl:"BIGINT NOT NULL" gorm:"not null;uniqueIndex:idx_plant_state_presences_dedup,priority:1"`
	StateCode string `db:"state_code" ddl:"CHAR(2) NOT NULL" gorm:"type:char(2);not null;uniqueIndex:idx_plant_state_presences_dedup,priority:2;index"`
	Symbol    string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_state_presences_dedup,priority:3;index"`
}

// PlantSynonym is a symbol -> synonym_symbol edge observed within one
// fetch/state. Raw material for symbol-equivalence reporting; edges are
// never collapsed into canonical identities automatically.
type PlantSynonym struct {
	FetchID       int64  `db:"fetch_id" ddl:"BIGINT NOT NULL" gorm:"not null;uniqueIndex:idx_plant_synonyms_dedup,priority:1"`
	StateCode     string `db:"state_code" ddl:"CHAR(2) NOT NULL" gorm:"type:char(2);not null;uniqueIndex:idx_plant_synonyms_dedup,priority:2"`
	Symbol        string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_synonyms_dedup,priority:3;index"`
	SynonymSymbol string `db:"synonym_symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_synonyms_dedup,priority:4;index"`
}

// PlantCommonName is one of zero-or-more names per symbol, optionally
// state-scoped, with a source tag.
type PlantCommonName struct {
	ID     int64  `db:"id" ddl:"BIGSERIAL PRIMARY KEY" gorm:"primaryKey;autoIncrement"`
	Symbol string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_common_names_dedup,priority:1"`

	CommonName string `db:"common_name" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null;uniqueIndex:idx_plant_common_names_dedup,priority:2"`

	// StateKey is the state code or the empty sentinel for unscoped names.
	StateKey string `db:"state_key" ddl:"CHAR(2) NOT NULL DEFAULT ''" gorm:"type:varchar(2);not null;default:'';uniqueIndex:idx_plant_common_names_dedup,priority:3"`

	SourceSystem string `db:"source_system" ddl:"VARCHAR(50) NOT NULL" gorm:"type:varchar(50);not null;uniqueIndex:idx_plant_common_names_dedup,priority:4"`

	IsPreferred bool `db:"is_preferred" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"not null;default:false"`
}

// PlantImage is one of zero-or-more images per symbol. Deduped on the
// SHA-256 of the URL since image URLs may exceed indexable key length.
type PlantImage struct {
	ID     int64  `db:"id" ddl:"BIGSERIAL PRIMARY KEY" gorm:"primaryKey;autoIncrement"`
	Symbol string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_images_dedup,priority:1"`

	ImageURL string `db:"image_url" ddl:"TEXT NOT NULL" gorm:"type:text;not null"`

	// URLSHA256 is the hex SHA-256 digest of ImageURL.
	URLSHA256 string `db:"url_sha256" ddl:"CHAR(64) NOT NULL" gorm:"type:char(64);not null;uniqueIndex:idx_plant_images_dedup,priority:2"`

	Title        sql.NullString `db:"title" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`
	SourceSystem string         `db:"source_system" ddl:"VARCHAR(50) NOT NULL" gorm:"type:varchar(50);not null"`
	CreatedAt    time.Time      `db:"created_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`
}

// PageFetch gates trait extraction per (symbol, page type). A symbol
// whose page is known NO_DATA or ERROR is never re-extracted unless a
// refetch is forced.
type PageFetch struct {
	Symbol string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_page_fetches_symbol_type,priority:1"`

	// PageType is 'profile' or 'characteristics'.
	PageType string `db:"page_type" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_page_fetches_symbol_type,priority:2"`

	PageURL   string    `db:"page_url" ddl:"TEXT NOT NULL" gorm:"type:text;not null"`
	FetchedAt time.Time `db:"fetched_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`

	// Status is HAS_DATA, NO_DATA or ERROR.
	Status string `db:"status" ddl:"VARCHAR(10) NOT NULL" gorm:"type:varchar(10);not null"`

	Error sql.NullString `db:"error" ddl:"TEXT" gorm:"type:text"`
}

// PlantTraitKV is a lossless extracted trait triple with provenance.
// The authoritative trait record; NormalizedTrait is its projection.
type PlantTraitKV struct {
	ID     int64  `db:"id" ddl:"BIGSERIAL PRIMARY KEY" gorm:"primaryKey;autoIncrement"`
	Symbol string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_trait_kvs_dedup,priority:1"`

	// Section is the page section the trait was found in, e.g.
	// "Growth Requirements" or "Direct Trait Lookup".
	Section string `db:"section" ddl:"VARCHAR(100) NOT NULL" gorm:"type:varchar(100);not null;uniqueIndex:idx_plant_trait_kvs_dedup,priority:2"`

	TraitName string `db:"trait_name" ddl:"VARCHAR(100) NOT NULL" gorm:"type:varchar(100);not null;uniqueIndex:idx_plant_trait_kvs_dedup,priority:3"`

	// TraitValue is the full cleaned value; never truncated.
	TraitValue string `db:"trait_value" ddl:"TEXT NOT NULL" gorm:"type:text;not null"`

	// ValueKey is a bounded prefix of TraitValue used only for the
	// uniqueness comparison.
	ValueKey string `db:"value_key" ddl:"VARCHAR(160) NOT NULL" gorm:"type:varchar(160);not null;uniqueIndex:idx_plant_trait_kvs_dedup,priority:4"`

	// KVUUID is UUID v5 of symbol|section|trait_name|value_key.
	KVUUID string `db:"kv_uuid" ddl:"UUID NOT NULL" gorm:"type:uuid;not null"`

	// PageURL and FetchedAt are the extraction provenance.
	PageURL   string    `db:"page_url" ddl:"TEXT NOT NULL" gorm:"type:text;not null"`
	FetchedAt time.Time `db:"fetched_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`
}

// NormalizedTrait is the structured-query-friendly projection of
// PlantTraitKV: at most one row per (symbol, trait_key), replaced in
// place on re-normalization.
type NormalizedTrait struct {
	Symbol string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_traits_normalized_key,priority:1"`

	// TraitKey is the normalized trait identifier, e.g. "shade_tolerance".
	TraitKey string `db:"trait_key" ddl:"VARCHAR(50) NOT NULL" gorm:"type:varchar(50);not null;uniqueIndex:idx_plant_traits_normalized_key,priority:2"`

	// TraitValue holds the typed value: an enum variant, "true"/"false"
	// for bools, a decimal string for numbers, cleaned text otherwise.
	TraitValue string `db:"trait_value" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`

	// ValueType is 'enum', 'bool', 'number' or 'text'.
	ValueType string `db:"value_type" ddl:"VARCHAR(10) NOT NULL" gorm:"type:varchar(10);not null"`

	// TraitNameRaw and TraitValueRaw preserve the source spelling.
	TraitNameRaw  string `db:"trait_name_raw" ddl:"VARCHAR(100) NOT NULL" gorm:"type:varchar(100);not null"`
	TraitValueRaw string `db:"trait_value_raw" ddl:"TEXT NOT NULL" gorm:"type:text;not null"`

	SourceSystem   string    `db:"source_system" ddl:"VARCHAR(50) NOT NULL" gorm:"type:varchar(50);not null"`
	LastComputedAt time.Time `db:"last_computed_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`
}

// PlantFilterIndex is the denormalized one-row-per-symbol projection
// built for multi-facet search without joins. A deterministic function
// of CanonicalPlant + NormalizedTrait + trait KV completeness.
type PlantFilterIndex struct {
	Symbol string `db:"symbol" ddl:"VARCHAR(20) PRIMARY KEY" gorm:"primaryKey;type:varchar(20)"`

	PreferredCommonName sql.NullString `db:"preferred_common_name" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`
	ScientificName      string         `db:"scientific_name" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`
	Family              sql.NullString `db:"family" ddl:"VARCHAR(100)" gorm:"type:varchar(100)"`

	// Raw text facets kept verbatim for display.
	PlantGroup      sql.NullString `db:"plant_group" ddl:"VARCHAR(100)" gorm:"type:varchar(100)"`
	GrowthHabitsRaw sql.NullString `db:"growth_habits_raw" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`
	NativeStatusRaw sql.NullString `db:"native_status_raw" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`
	DurationRaw     sql.NullString `db:"duration_raw" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`

	// Enum facets; "Unknown" when absent or unparseable.
	DurationPrimary   string `db:"duration_primary" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;index"`
	ShadeTolerance    string `db:"shade_tolerance" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;index"`
	MoistureUse       string `db:"moisture_use" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;index"`
	BloomPeriod       string `db:"bloom_period" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;index"`
	FlowerConspicuous string `db:"flower_conspicuous" ddl:"VARCHAR(10) NOT NULL" gorm:"type:varchar(10);not null"`
	FallConspicuous   string `db:"fall_conspicuous" ddl:"VARCHAR(10) NOT NULL" gorm:"type:varchar(10);not null"`
	LeafRetention     string `db:"leaf_retention" ddl:"VARCHAR(10) NOT NULL" gorm:"type:varchar(10);not null"`

	// Derived convenience flags with a fixed mapping from the enum facets.
	IsShadeTolerant bool `db:"is_shade_tolerant" ddl:"BOOLEAN NOT NULL" gorm:"not null;index"`
	IsShowyBloomer  bool `db:"is_showy_bloomer" ddl:"BOOLEAN NOT NULL" gorm:"not null"`
	HasFallInterest bool `db:"has_fall_interest" ddl:"BOOLEAN NOT NULL" gorm:"not null"`
	IsEvergreen     bool `db:"is_evergreen" ddl:"BOOLEAN NOT NULL" gorm:"not null"`
	IsNonFlowering  bool `db:"is_non_flowering" ddl:"BOOLEAN NOT NULL" gorm:"not null"`

	// Completeness flags from presence of trait KV rows per page type.
	HasProfileKV         bool `db:"has_profile_kv" ddl:"BOOLEAN NOT NULL" gorm:"not null"`
	HasCharacteristicsKV bool `db:"has_characteristics_kv" ddl:"BOOLEAN NOT NULL" gorm:"not null"`

	LastIndexedAt time.Time `db:"last_indexed_at" ddl:"TIMESTAMP WITHOUT TIME ZONE NOT NULL" gorm:"not null"`
}

// PlantDuration is a multi-valued duration facet broken out of the
// filter index: a plant may be annual in one part of its range and
// perennial in another.
type PlantDuration struct {
	Symbol   string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_durations_dedup,priority:1"`
	Duration string `db:"duration" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_durations_dedup,priority:2;index"`
}

// PlantGrowthHabit is the multi-valued growth habit facet child table.
type PlantGrowthHabit struct {
	Symbol      string `db:"symbol" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;uniqueIndex:idx_plant_growth_habits_dedup,priority:1"`
	GrowthHabit string `db:"growth_habit" ddl:"VARCHAR(50) NOT NULL" gorm:"type:varchar(50);not null;uniqueIndex:idx_plant_growth_habits_dedup,priority:2;index"`
}
