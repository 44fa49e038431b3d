package usda

import (
	"fmt"
	"strings"
)

const (
	checklistBase = "https://plants.sc.egov.usda.gov/DocumentLibrary/Txt"
	profileBase   = "https://plants.usda.gov/plant-profile"
)

// ChecklistURL builds the download URL for a state checklist from the
// state's registry slug, e.g. "NCplants".
func ChecklistURL(slug string) string {
	return fmt.Sprintf("%s/%s_NRCS_csv.txt", checklistBase, slug)
}

// ProfileURL builds the plant profile page URL for a symbol.
func ProfileURL(symbol string) string {
	return fmt.Sprintf("%s/%s", profileBase, NormalizeSymbol(symbol))
}

// CharacteristicsURL builds the characteristics page URL for a symbol.
func CharacteristicsURL(symbol string) string {
	return fmt.Sprintf("%s/%s/characteristics", profileBase, NormalizeSymbol(symbol))
}

// PageURL builds the page URL for a symbol and page type.
func PageURL(symbol, pageType string) (string, error) {
	switch pageType {
	case "profile":
		return ProfileURL(symbol), nil
	case "characteristics":
		return CharacteristicsURL(symbol), nil
	}
	return "", fmt.Errorf("unknown page type %q", pageType)
}

// ParsePageURL recovers the symbol and page type from a plant page
// URL, the inverse of PageURL. Needed when re-extracting traits from
// a ledger fetch that carries only the URL.
func ParsePageURL(url string) (symbol, pageType string, err error) {
	rest, ok := strings.CutPrefix(url, profileBase+"/")
	if !ok {
		return "", "", fmt.Errorf("not a plant page URL: %q", url)
	}
	parts := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return "", "", fmt.Errorf("not a plant page URL: %q", url)
		}
		return NormalizeSymbol(parts[0]), "profile", nil
	case 2:
		if parts[1] != "characteristics" {
			return "", "", fmt.Errorf("not a plant page URL: %q", url)
		}
		return NormalizeSymbol(parts[0]), "characteristics", nil
	}
	return "", "", fmt.Errorf("not a plant page URL: %q", url)
}
