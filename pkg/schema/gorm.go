package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&State{},
		&Fetch{},
		&RawStatePlant{},
		&CanonicalPlant{},
		&PlantStatePresence{},
		&PlantSynonym{},
		&PlantCommonName{},
		&PlantImage{},
		&PageFetch{},
		&PlantTraitKV{},
		&NormalizedTrait{},
		&PlantFilterIndex{},
		&PlantDuration{},
		&PlantGrowthHabit{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
