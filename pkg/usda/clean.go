// Package usda parses the two USDA PLANTS document formats the
// pipeline consumes: state checklist CSV files and per-plant HTML
// pages. Parsing is pure; all network and storage concerns live in
// the internal io* packages.
package usda

import (
	"strings"

	"github.com/gnames/gnlib"
)

// CleanText normalizes free text from USDA documents: fixes broken
// UTF-8, converts non-breaking spaces, collapses runs of whitespace
// and trims.
func CleanText(s string) string {
	s = gnlib.FixUtf8(s)
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// traitAliases folds the spelling variants USDA uses for the same
// trait across page versions.
var traitAliases = map[string]string{
	"Leaf retention":      "Leaf Retention",
	"Flowers Conspicuous": "Flower Conspicuous",
	"Flower conspicuous":  "Flower Conspicuous",
	"Fall conspicuous":    "Fall Conspicuous",
}

// NormalizeTraitName cleans a raw trait name and folds known spelling
// variants to one canonical form.
func NormalizeTraitName(name string) string {
	name = CleanText(name)
	if canon, ok := traitAliases[name]; ok {
		return canon
	}
	return name
}

// NormalizeSymbol uppercases and trims a USDA species symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
