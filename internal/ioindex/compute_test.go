package ioindex

import (
	"database/sql"
	"testing"

	"github.com/Don-Green-Here/npdb/pkg/facet"
	"github.com/Don-Green-Here/npdb/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func nt(key, value string) schema.NormalizedTrait {
	return schema.NormalizedTrait{TraitKey: key, TraitValue: value}
}

func TestComputeRow(t *testing.T) {
	plant := &schema.CanonicalPlant{
		Symbol:         "ACRU",
		ScientificName: "Acer rubrum L.",
		Family:         sql.NullString{String: "Aceraceae", Valid: true},
		PreferredCommonName: sql.NullString{
			String: "red maple", Valid: true,
		},
	}
	traits := []schema.NormalizedTrait{
		nt("shade_tolerance", "Tolerant"),
		nt("moisture_use", "Medium"),
		nt("bloom_period", "Spring"),
		nt("flower_conspicuous", "true"),
		nt("fall_conspicuous", "true"),
		nt("leaf_retention", "false"),
		nt("duration", "Perennial"),
		nt("growth_habit", "Tree, Shrub"),
		nt("native_status", "L48 (N), CAN (N)"),
		nt("plant_group", "Dicot"),
	}

	row, durations, habits := computeRow(plant, traits, true, true)

	assert.Equal(t, "ACRU", row.Symbol)
	assert.Equal(t, "Acer rubrum L.", row.ScientificName)
	assert.Equal(t, "red maple", row.PreferredCommonName.String)

	assert.Equal(t, "Tolerant", row.ShadeTolerance)
	assert.Equal(t, "Medium", row.MoistureUse)
	assert.Equal(t, "Spring", row.BloomPeriod)
	assert.Equal(t, "Perennial", row.DurationPrimary)
	assert.Equal(t, "Yes", row.FlowerConspicuous)
	assert.Equal(t, "Yes", row.FallConspicuous)
	assert.Equal(t, "No", row.LeafRetention)
	assert.Equal(t, "Dicot", row.PlantGroup.String)
	assert.Equal(t, "L48 (N), CAN (N)", row.NativeStatusRaw.String)

	assert.True(t, row.IsShadeTolerant)
	assert.True(t, row.IsShowyBloomer)
	assert.True(t, row.HasFallInterest)
	assert.False(t, row.IsEvergreen)
	assert.False(t, row.IsNonFlowering)
	assert.True(t, row.HasProfileKV)
	assert.True(t, row.HasCharacteristicsKV)

	assert.Equal(t, []string{"Perennial"}, durations)
	assert.Equal(t, []string{"Shrub", "Tree"}, habits)
}

func TestComputeRowNoTraits(t *testing.T) {
	plant := &schema.CanonicalPlant{
		Symbol:         "XXXX",
		ScientificName: "Testus plantus",
	}

	row, durations, habits := computeRow(plant, nil, false, false)

	assert.Equal(t, facet.Unknown, row.ShadeTolerance)
	assert.Equal(t, facet.Unknown, row.MoistureUse)
	assert.Equal(t, facet.Unknown, row.BloomPeriod)
	assert.Equal(t, facet.Unknown, row.DurationPrimary)
	assert.Equal(t, facet.Unknown, row.FlowerConspicuous)
	assert.False(t, row.DurationRaw.Valid)
	assert.False(t, row.PlantGroup.Valid)
	assert.False(t, row.IsShadeTolerant)
	assert.False(t, row.HasProfileKV)
	assert.Empty(t, durations)
	assert.Empty(t, habits)
}

func TestComputeRowDerivedFlags(t *testing.T) {
	plant := &schema.CanonicalPlant{Symbol: "FERN", ScientificName: "x"}

	// intermediate tolerance still counts as shade tolerant; a "None"
	// bloom period is a real observation, not an unknown
	row, _, _ := computeRow(plant, []schema.NormalizedTrait{
		nt("shade_tolerance", "Intermediate"),
		nt("bloom_period", "None"),
		nt("leaf_retention", "true"),
	}, true, false)

	assert.True(t, row.IsShadeTolerant)
	assert.True(t, row.IsNonFlowering)
	assert.True(t, row.IsEvergreen)
	assert.Equal(t, "None", row.BloomPeriod)
	assert.False(t, row.IsShowyBloomer)
}

func TestComputeRowMultiValuedDuration(t *testing.T) {
	plant := &schema.CanonicalPlant{Symbol: "MIXD", ScientificName: "x"}

	row, durations, _ := computeRow(plant, []schema.NormalizedTrait{
		nt("duration", "Annual, Perennial"),
	}, false, false)

	// headline duration takes the longest-lived variant
	assert.Equal(t, "Perennial", row.DurationPrimary)
	assert.Equal(t, []string{"Annual", "Perennial"}, durations)
}

func TestComputeRowDeterministic(t *testing.T) {
	plant := &schema.CanonicalPlant{Symbol: "ACRU", ScientificName: "x"}
	traits := []schema.NormalizedTrait{
		nt("shade_tolerance", "Tolerant"),
		nt("growth_habit", "Tree; Shrub"),
	}

	r1, d1, h1 := computeRow(plant, traits, true, true)
	r2, d2, h2 := computeRow(plant, traits, true, true)
	assert.Equal(t, r1, r2)
	assert.Equal(t, d1, d2)
	assert.Equal(t, h1, h2)
}
