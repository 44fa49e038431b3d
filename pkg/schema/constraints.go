package schema

// ForeignKeys returns ALTER TABLE statements applied after
// AutoMigrate. GORM is not given association fields, so referential
// integrity between the pipeline tables is declared explicitly here.
// Statements use IF NOT EXISTS-style guards via constraint names that
// AutoMigrate never creates, and are safe to re-run after a DROP.
func ForeignKeys() []string {
	return []string{
		`ALTER TABLE fetches
    ADD CONSTRAINT fk_fetches_state
    FOREIGN KEY (state_code) REFERENCES states(state_code)`,

		`ALTER TABLE raw_state_plants
    ADD CONSTRAINT fk_raw_state_plants_fetch
    FOREIGN KEY (fetch_id) REFERENCES fetches(id)`,

		`ALTER TABLE raw_state_plants
    ADD CONSTRAINT fk_raw_state_plants_state
    FOREIGN KEY (state_code) REFERENCES states(state_code)`,

		`ALTER TABLE plant_state_presences
    ADD CONSTRAINT fk_plant_state_presences_fetch
    FOREIGN KEY (fetch_id) REFERENCES fetches(id)`,

		`ALTER TABLE plant_state_presences
    ADD CONSTRAINT fk_plant_state_presences_state
    FOREIGN KEY (state_code) REFERENCES states(state_code)`,

		`ALTER TABLE plant_state_presences
    ADD CONSTRAINT fk_plant_state_presences_plant
    FOREIGN KEY (symbol) REFERENCES canonical_plants(symbol)`,

		`ALTER TABLE plant_synonyms
    ADD CONSTRAINT fk_plant_synonyms_fetch
    FOREIGN KEY (fetch_id) REFERENCES fetches(id)`,

		`ALTER TABLE plant_synonyms
    ADD CONSTRAINT fk_plant_synonyms_plant
    FOREIGN KEY (symbol) REFERENCES canonical_plants(symbol)`,

		`ALTER TABLE plant_common_names
    ADD CONSTRAINT fk_plant_common_names_plant
    FOREIGN KEY (symbol) REFERENCES canonical_plants(symbol)`,

		`ALTER TABLE plant_images
    ADD CONSTRAINT fk_plant_images_plant
    FOREIGN KEY (symbol) REFERENCES canonical_plants(symbol)`,

		`ALTER TABLE page_fetches
    ADD CONSTRAINT fk_page_fetches_plant
    FOREIGN KEY (symbol) REFERENCES canonical_plants(symbol)`,

		`ALTER TABLE plant_trait_kvs
    ADD CONSTRAINT fk_plant_trait_kvs_plant
    FOREIGN KEY (symbol) REFERENCES canonical_plants(symbol)`,

		`ALTER TABLE plant_traits_normalized
    ADD CONSTRAINT fk_plant_traits_normalized_plant
    FOREIGN KEY (symbol) REFERENCES canonical_plants(symbol)`,

		`ALTER TABLE plant_filter_indices
    ADD CONSTRAINT fk_plant_filter_indices_plant
    FOREIGN KEY (symbol) REFERENCES canonical_plants(symbol)`,

		`ALTER TABLE plant_durations
    ADD CONSTRAINT fk_plant_durations_index
    FOREIGN KEY (symbol) REFERENCES plant_filter_indices(symbol)`,

		`ALTER TABLE plant_growth_habits
    ADD CONSTRAINT fk_plant_growth_habits_index
    FOREIGN KEY (symbol) REFERENCES plant_filter_indices(symbol)`,
	}
}

// CollationColumns lists varchar columns that get "C" collation for
// deterministic byte-order sorting of names and symbols.
type CollationColumn struct {
	Table   string
	Column  string
	Varchar int
}

// CollationColumnList returns the columns to re-collate after migrate.
func CollationColumnList() []CollationColumn {
	return []CollationColumn{
		{"canonical_plants", "scientific_name", 255},
		{"canonical_plants", "canonical_name", 255},
		{"raw_state_plants", "scientific_name", 255},
		{"plant_filter_indices", "scientific_name", 255},
	}
}
