package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// State DDL methods
func (s State) TableDDL() string {
	return generateDDL(s, "states")
}

func (s State) IndexDDL() []string {
	return []string{}
}

func (s State) TableName() string {
	return "states"
}

// Fetch DDL methods
func (f Fetch) TableDDL() string {
	return generateDDL(f, "fetches")
}

func (f Fetch) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_fetches_state_code ON fetches(state_code);",
		"CREATE INDEX idx_fetches_url ON fetches(url);",
	}
}

func (f Fetch) TableName() string {
	return "fetches"
}

// RawStatePlant DDL methods
func (rp RawStatePlant) TableDDL() string {
	return generateDDL(rp, "raw_state_plants")
}

func (rp RawStatePlant) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_raw_state_plants_dedup ON raw_state_plants(fetch_id, symbol, synonym_key);",
		"CREATE INDEX idx_raw_state_plants_symbol ON raw_state_plants(symbol);",
		"CREATE INDEX idx_raw_state_plants_state_code ON raw_state_plants(state_code);",
	}
}

func (rp RawStatePlant) TableName() string {
	return "raw_state_plants"
}

// CanonicalPlant DDL methods
func (cp CanonicalPlant) TableDDL() string {
	return generateDDL(cp, "canonical_plants")
}

func (cp CanonicalPlant) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_canonical_plants_canonical_name ON canonical_plants(canonical_name);",
		"CREATE INDEX idx_canonical_plants_family ON canonical_plants(family);",
	}
}

func (cp CanonicalPlant) TableName() string {
	return "canonical_plants"
}

// PlantStatePresence DDL methods
func (pp PlantStatePresence) TableDDL() string {
	return generateDDL(pp, "plant_state_presences")
}

func (pp PlantStatePresence) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_state_presences_dedup ON plant_state_presences(fetch_id, state_code, symbol);",
		"CREATE INDEX idx_plant_state_presences_symbol ON plant_state_presences(symbol);",
		"CREATE INDEX idx_plant_state_presences_state_code ON plant_state_presences(state_code);",
	}
}

func (pp PlantStatePresence) TableName() string {
	return "plant_state_presences"
}

// PlantSynonym DDL methods
func (ps PlantSynonym) TableDDL() string {
	return generateDDL(ps, "plant_synonyms")
}

func (ps PlantSynonym) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_synonyms_dedup ON plant_synonyms(fetch_id, state_code, symbol, synonym_symbol);",
		"CREATE INDEX idx_plant_synonyms_symbol ON plant_synonyms(symbol);",
		"CREATE INDEX idx_plant_synonyms_synonym_symbol ON plant_synonyms(synonym_symbol);",
	}
}

func (ps PlantSynonym) TableName() string {
	return "plant_synonyms"
}

// PlantCommonName DDL methods
func (cn PlantCommonName) TableDDL() string {
	return generateDDL(cn, "plant_common_names")
}

func (cn PlantCommonName) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_common_names_dedup ON plant_common_names(symbol, common_name, state_key, source_system);",
		"CREATE INDEX idx_plant_common_names_symbol ON plant_common_names(symbol);",
	}
}

func (cn PlantCommonName) TableName() string {
	return "plant_common_names"
}

// PlantImage DDL methods
func (pi PlantImage) TableDDL() string {
	return generateDDL(pi, "plant_images")
}

func (pi PlantImage) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_images_dedup ON plant_images(symbol, url_sha256);",
		"CREATE INDEX idx_plant_images_symbol ON plant_images(symbol);",
	}
}

func (pi PlantImage) TableName() string {
	return "plant_images"
}

// PageFetch DDL methods
func (pf PageFetch) TableDDL() string {
	return generateDDL(pf, "page_fetches")
}

func (pf PageFetch) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_page_fetches_symbol_type ON page_fetches(symbol, page_type);",
		"CREATE INDEX idx_page_fetches_status ON page_fetches(status);",
	}
}

func (pf PageFetch) TableName() string {
	return "page_fetches"
}

// PlantTraitKV DDL methods
func (kv PlantTraitKV) TableDDL() string {
	return generateDDL(kv, "plant_trait_kvs")
}

func (kv PlantTraitKV) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_trait_kvs_dedup ON plant_trait_kvs(symbol, section, trait_name, value_key);",
		"CREATE INDEX idx_plant_trait_kvs_symbol ON plant_trait_kvs(symbol);",
		"CREATE INDEX idx_plant_trait_kvs_trait_name ON plant_trait_kvs(trait_name);",
	}
}

func (kv PlantTraitKV) TableName() string {
	return "plant_trait_kvs"
}

// NormalizedTrait DDL methods
func (nt NormalizedTrait) TableDDL() string {
	return generateDDL(nt, "plant_traits_normalized")
}

func (nt NormalizedTrait) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_traits_normalized_key ON plant_traits_normalized(symbol, trait_key);",
		"CREATE INDEX idx_plant_traits_normalized_trait_key ON plant_traits_normalized(trait_key);",
	}
}

func (nt NormalizedTrait) TableName() string {
	return "plant_traits_normalized"
}

// PlantFilterIndex DDL methods
func (fi PlantFilterIndex) TableDDL() string {
	return generateDDL(fi, "plant_filter_indices")
}

func (fi PlantFilterIndex) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_plant_filter_indices_duration_primary ON plant_filter_indices(duration_primary);",
		"CREATE INDEX idx_plant_filter_indices_shade_tolerance ON plant_filter_indices(shade_tolerance);",
		"CREATE INDEX idx_plant_filter_indices_moisture_use ON plant_filter_indices(moisture_use);",
		"CREATE INDEX idx_plant_filter_indices_bloom_period ON plant_filter_indices(bloom_period);",
		"CREATE INDEX idx_plant_filter_indices_is_shade_tolerant ON plant_filter_indices(is_shade_tolerant);",
	}
}

func (fi PlantFilterIndex) TableName() string {
	return "plant_filter_indices"
}

// PlantDuration DDL methods
func (pd PlantDuration) TableDDL() string {
	return generateDDL(pd, "plant_durations")
}

func (pd PlantDuration) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_durations_dedup ON plant_durations(symbol, duration);",
		"CREATE INDEX idx_plant_durations_duration ON plant_durations(duration);",
	}
}

func (pd PlantDuration) TableName() string {
	return "plant_durations"
}

// PlantGrowthHabit DDL methods
func (gh PlantGrowthHabit) TableDDL() string {
	return generateDDL(gh, "plant_growth_habits")
}

func (gh PlantGrowthHabit) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_growth_habits_dedup ON plant_growth_habits(symbol, growth_habit);",
		"CREATE INDEX idx_plant_growth_habits_growth_habit ON plant_growth_habits(growth_habit);",
	}
}

func (gh PlantGrowthHabit) TableName() string {
	return "plant_growth_habits"
}
