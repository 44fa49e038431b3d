// Package facet classifies raw USDA trait values into the closed
// vocabularies used by the filter index. All functions are pure:
// classification of the same input always yields the same output, and
// absence or an unparseable value maps to an explicit Unknown variant
// rather than NULL.
package facet

import (
	"sort"
	"strings"
)

// Unknown is the shared absent/unparseable variant of every enum facet.
const Unknown = "Unknown"

// YesNo is the tri-state of the boolean page traits.
type YesNo string

const (
	Yes       YesNo = "Yes"
	No        YesNo = "No"
	YesNoUnkn YesNo = Unknown
)

// ParseYesNo classifies a raw value into Yes, No or Unknown. The
// normalized "true"/"false" spellings from the trait store are
// accepted alongside the page spellings.
func ParseYesNo(s string) YesNo {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		return Yes
	case "no", "false":
		return No
	}
	return YesNoUnkn
}

// ShadeTolerance variants.
type ShadeTolerance string

const (
	ShadeTolerant     ShadeTolerance = "Tolerant"
	ShadeIntermediate ShadeTolerance = "Intermediate"
	ShadeIntolerant   ShadeTolerance = "Intolerant"
	ShadeUnknown      ShadeTolerance = Unknown
)

// ParseShadeTolerance classifies a raw shade tolerance value.
func ParseShadeTolerance(s string) ShadeTolerance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tolerant":
		return ShadeTolerant
	case "intermediate":
		return ShadeIntermediate
	case "intolerant":
		return ShadeIntolerant
	}
	return ShadeUnknown
}

// MoistureUse variants.
type MoistureUse string

const (
	MoistureLow     MoistureUse = "Low"
	MoistureMedium  MoistureUse = "Medium"
	MoistureHigh    MoistureUse = "High"
	MoistureUnknown MoistureUse = Unknown
)

// ParseMoistureUse classifies a raw moisture use value.
func ParseMoistureUse(s string) MoistureUse {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return MoistureLow
	case "medium":
		return MoistureMedium
	case "high":
		return MoistureHigh
	}
	return MoistureUnknown
}

// bloomPeriods is the closed bloom period vocabulary as USDA spells
// it. "None" is a real observation (non-flowering plants), distinct
// from Unknown.
var bloomPeriods = []string{
	"Spring", "Early Spring", "Mid Spring", "Late Spring",
	"Summer", "Early Summer", "Mid Summer", "Late Summer",
	"Fall", "Winter", "Late Winter",
	"Indeterminate", "None",
}

// ParseBloomPeriod classifies a raw bloom period; values outside the
// vocabulary map to Unknown.
func ParseBloomPeriod(s string) string {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, bp := range bloomPeriods {
		if strings.ToLower(bp) == needle {
			return bp
		}
	}
	return Unknown
}

// DurationPrimary variants, in precedence order.
type DurationPrimary string

const (
	DurationPerennial DurationPrimary = "Perennial"
	DurationBiennial  DurationPrimary = "Biennial"
	DurationAnnual    DurationPrimary = "Annual"
	DurationUnknown   DurationPrimary = Unknown
)

// ParseDurationPrimary picks the single headline duration from a raw
// USDA duration string like "Annual, Perennial". Perennial wins over
// Biennial wins over Annual.
func ParseDurationPrimary(s string) DurationPrimary {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "perennial"):
		return DurationPerennial
	case strings.Contains(lower, "biennial"):
		return DurationBiennial
	case strings.Contains(lower, "annual"):
		return DurationAnnual
	}
	return DurationUnknown
}

// DurationSet expands a raw duration string into the sorted set of
// durations it names. A plant may be annual in one part of its range
// and perennial in another.
func DurationSet(s string) []string {
	lower := strings.ToLower(s)
	var res []string
	// biennial before annual: "biennial" contains "ennial", not "annual",
	// but order keeps the output stable anyway.
	if strings.Contains(lower, "annual") {
		res = append(res, string(DurationAnnual))
	}
	if strings.Contains(lower, "biennial") {
		res = append(res, string(DurationBiennial))
	}
	if strings.Contains(lower, "perennial") {
		res = append(res, string(DurationPerennial))
	}
	return res
}

// SplitGrowthHabits splits a raw growth habits string on commas, then
// semicolons, and returns the trimmed, deduplicated values sorted.
func SplitGrowthHabits(s string) []string {
	var parts []string
	for _, chunk := range strings.Split(s, ",") {
		parts = append(parts, strings.Split(chunk, ";")...)
	}

	seen := make(map[string]bool)
	var res []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		res = append(res, p)
	}
	sort.Strings(res)
	return res
}

// IsShadeTolerant reports whether a plant counts as shade tolerant for
// filtering. Intermediate tolerance is included: gardeners filtering
// for shade want part-shade plants too.
func IsShadeTolerant(st ShadeTolerance) bool {
	return st == ShadeTolerant || st == ShadeIntermediate
}

// IsShowyBloomer reports whether flowers are conspicuous.
func IsShowyBloomer(yn YesNo) bool { return yn == Yes }

// HasFallInterest reports whether fall color is conspicuous.
func HasFallInterest(yn YesNo) bool { return yn == Yes }

// IsEvergreen reports whether leaves are retained year-round.
func IsEvergreen(yn YesNo) bool { return yn == Yes }

// IsNonFlowering reports whether the bloom period records no bloom at
// all, as with ferns and conifers.
func IsNonFlowering(bloomPeriod string) bool {
	return bloomPeriod == "None"
}
