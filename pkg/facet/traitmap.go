package facet

import (
	"strconv"
	"strings"
	"unicode"
)

// Kind is the value type of a normalized trait.
type Kind string

const (
	KindEnum   Kind = "enum"
	KindBool   Kind = "bool"
	KindNumber Kind = "number"
	KindText   Kind = "text"
)

// Rule maps a raw USDA trait name to a normalized key and value kind.
// An enum rule with a vocabulary canonicalizes the value's spelling;
// an empty vocabulary passes any cleaned value through as the variant.
type Rule struct {
	Key   string
	Kind  Kind
	Vocab []string
}

// Normalized is one projected trait value.
type Normalized struct {
	Key   string
	Value string
	Kind  Kind
}

// traitRules maps raw trait names (as they appear on USDA pages, after
// alias folding) to normalization rules.
var traitRules = map[string]Rule{
	// index facets
	"Shade Tolerance": {Key: "shade_tolerance", Kind: KindEnum,
		Vocab: []string{"Tolerant", "Intermediate", "Intolerant"}},
	"Moisture Use": {Key: "moisture_use", Kind: KindEnum,
		Vocab: []string{"Low", "Medium", "High"}},
	"Bloom Period":       {Key: "bloom_period", Kind: KindEnum, Vocab: bloomPeriods},
	"Flower Conspicuous": {Key: "flower_conspicuous", Kind: KindBool},
	"Fall Conspicuous":   {Key: "fall_conspicuous", Kind: KindBool},
	"Leaf Retention":     {Key: "leaf_retention", Kind: KindBool},

	// identity and grouping, kept verbatim
	"Duration":      {Key: "duration", Kind: KindText},
	"Growth Habit":  {Key: "growth_habit", Kind: KindText},
	"Growth Habits": {Key: "growth_habit", Kind: KindText},
	"Native Status": {Key: "native_status", Kind: KindText},
	"Group":         {Key: "plant_group", Kind: KindText},
	"Family":        {Key: "family", Kind: KindText},
	"Genus":         {Key: "genus", Kind: KindText},
	"Species":       {Key: "species", Kind: KindText},

	// horticultural characteristics
	"Flower Color":    {Key: "bloom_color", Kind: KindEnum},
	"Hedge Tolerance": {Key: "hedge_tolerance", Kind: KindEnum,
		Vocab: []string{"High", "Medium", "Low", "None"}},
	"Height, Mature (feet)":              {Key: "height_mature", Kind: KindNumber},
	"Height at 20 Years, Maximum (feet)": {Key: "height_20yr", Kind: KindNumber},
	"Vegetative Spread Rate": {Key: "colonizing", Kind: KindEnum,
		Vocab: []string{"Rapid", "Moderate", "Slow", "None"}},
	"Seed Spread Rate": {Key: "reseeding", Kind: KindEnum,
		Vocab: []string{"Rapid", "Moderate", "Slow", "None"}},
	"Palatable Human": {Key: "palatable_human", Kind: KindBool},
	"Palatable Browse Animal": {Key: "palatable_browse", Kind: KindEnum,
		Vocab: []string{"High", "Medium", "Low"}},
	"Palatable Graze Animal": {Key: "palatable_graze", Kind: KindEnum,
		Vocab: []string{"High", "Medium", "Low"}},
	"Fruit/Seed Period Begin": {Key: "fruit_ready", Kind: KindEnum},
	"Toxicity": {Key: "toxicity", Kind: KindEnum,
		Vocab: []string{"Severe", "Moderate", "Slight", "None"}},

	// site adaptation
	"Adapted to Coarse Textured Soils": {Key: "soil_sand", Kind: KindBool},
	"Adapted to Medium Textured Soils": {Key: "soil_loam", Kind: KindBool},
	"Adapted to Fine Textured Soils":   {Key: "soil_clay", Kind: KindBool},
	"Salinity Tolerance": {Key: "salinity", Kind: KindEnum,
		Vocab: []string{"High", "Medium", "Low", "None"}},
	"Temperature, Minimum (°F)":    {Key: "min_temp", Kind: KindNumber},
	"Frost Free Days, Minimum":     {Key: "min_frost", Kind: KindNumber},
	"Cold Stratification Required": {Key: "cold_req", Kind: KindBool},
}

// NormalizeTrait projects a raw (name, value) pair. A matched rule
// yields the rule's key and typed value; an unmatched name yields a
// slugified text key so no extracted trait is lost. Values that fail
// their rule's typing degrade to text under the same key rather than
// being dropped.
func NormalizeTrait(name, value string) Normalized {
	value = strings.TrimSpace(value)
	rule, ok := traitRules[name]
	if !ok {
		return Normalized{Key: Slug(name), Value: value, Kind: KindText}
	}

	switch rule.Kind {
	case KindBool:
		switch ParseYesNo(value) {
		case Yes:
			return Normalized{Key: rule.Key, Value: "true", Kind: KindBool}
		case No:
			return Normalized{Key: rule.Key, Value: "false", Kind: KindBool}
		}
		return Normalized{Key: rule.Key, Value: value, Kind: KindText}

	case KindNumber:
		if n, ok := parseNumber(value); ok {
			return Normalized{Key: rule.Key, Value: n, Kind: KindNumber}
		}
		return Normalized{Key: rule.Key, Value: value, Kind: KindText}

	case KindEnum:
		if len(rule.Vocab) == 0 {
			return Normalized{Key: rule.Key, Value: value, Kind: KindEnum}
		}
		needle := strings.ToLower(value)
		for _, v := range rule.Vocab {
			if strings.ToLower(v) == needle {
				return Normalized{Key: rule.Key, Value: v, Kind: KindEnum}
			}
		}
		return Normalized{Key: rule.Key, Value: value, Kind: KindText}
	}

	return Normalized{Key: rule.Key, Value: value, Kind: KindText}
}

// KnownTrait reports whether a raw trait name has a mapping rule.
func KnownTrait(name string) bool {
	_, ok := traitRules[name]
	return ok
}

// IsFacetKey reports whether a normalized key feeds the filter index.
func IsFacetKey(key string) bool {
	switch key {
	case "shade_tolerance", "moisture_use", "bloom_period",
		"flower_conspicuous", "fall_conspicuous", "leaf_retention",
		"duration", "growth_habit", "native_status", "plant_group":
		return true
	}
	return false
}

// parseNumber extracts a decimal value, tolerating thousands commas
// and trailing units.
func parseNumber(s string) (string, bool) {
	s = strings.ReplaceAll(s, ",", "")
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || (end == 0 && c == '-') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return "", false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// Slug converts a raw trait name to a lowercase underscore key.
func Slug(name string) string {
	var b strings.Builder
	lastUnder := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnder = false
		} else if !lastUnder {
			b.WriteByte('_')
			lastUnder = true
		}
	}
	return strings.Trim(b.String(), "_")
}
