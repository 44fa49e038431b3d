package usda

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// TraitKV is one name/value pair extracted from a plant page, tagged
// with the section it belongs to.
type TraitKV struct {
	Section string
	Name    string
	Value   string
}

// Section labels assigned to extracted traits.
const (
	SectionProfile        = "Profile / General Information"
	SectionClassification = "Classification"
	SectionDirect         = "Direct Trait Lookup"
)

// characteristicsSections are the headings of the characteristics page
// whose tables carry trait data.
var characteristicsSections = map[string]bool{
	"Morphology/Physiology": true,
	"Growth Requirements":   true,
	"Reproduction":          true,
	"Suitability/Use":       true,
}

// directTraits are summary traits that may appear anywhere on a
// profile page, outside any recognizable section.
var directTraits = map[string]bool{
	"Leaf Retention":     true,
	"Flower Conspicuous": true,
	"Fall Conspicuous":   true,
	"Bloom Period":       true,
	"Shade Tolerance":    true,
	"Moisture Use":       true,
}

// generalProfileTraits are the identity traits of the profile page.
var generalProfileTraits = map[string]bool{
	"Symbol":        true,
	"Group":         true,
	"Duration":      true,
	"Growth Habit":  true,
	"Growth Habits": true,
	"Native Status": true,
	"Family":        true,
	"Genus":         true,
	"Species":       true,
}

// classificationTraits are the taxonomy ranks of the Classification
// section.
var classificationTraits = map[string]bool{
	"Kingdom":    true,
	"Subkingdom": true,
	"Division":   true,
	"Class":      true,
	"Subclass":   true,
	"Order":      true,
	"Family":     true,
	"Genus":      true,
	"Species":    true,
}

// pageRow is a raw name/value pair with the nearest preceding heading.
type pageRow struct {
	heading string
	name    string
	value   string
}

// ParseCharacteristicsPage extracts trait pairs from a characteristics
// page. Only rows under the known data sections are kept; the first
// non-empty value per section and trait name wins. An empty result
// with a nil error means the page holds no trait data.
func ParseCharacteristicsPage(r io.Reader) ([]TraitKV, error) {
	rows, err := extractRows(r)
	if err != nil {
		return nil, err
	}

	var kvs []TraitKV
	seen := make(map[string]bool)
	for _, row := range rows {
		if !characteristicsSections[row.heading] {
			continue
		}
		if row.name == "" || row.name == "Name" || row.value == "" {
			continue
		}
		key := row.heading + "\x00" + row.name
		if seen[key] {
			continue
		}
		seen[key] = true
		kvs = append(kvs, TraitKV{
			Section: row.heading,
			Name:    row.name,
			Value:   row.value,
		})
	}
	return kvs, nil
}

// ParseProfilePage extracts trait pairs from a plant profile page.
// Summary traits are collected wherever they occur; identity and
// taxonomy traits come from their named sections.
func ParseProfilePage(r io.Reader) ([]TraitKV, error) {
	rows, err := extractRows(r)
	if err != nil {
		return nil, err
	}

	var kvs []TraitKV
	seen := make(map[string]bool)
	add := func(section string, row pageRow) {
		key := section + "\x00" + row.name
		if seen[key] {
			return
		}
		seen[key] = true
		kvs = append(kvs, TraitKV{
			Section: section,
			Name:    row.name,
			Value:   row.value,
		})
	}

	for _, row := range rows {
		if row.name == "" || row.name == "Name" || row.value == "" {
			continue
		}
		switch {
		case directTraits[row.name]:
			add(SectionDirect, row)
		case strings.Contains(row.heading, "Classification") &&
			classificationTraits[row.name]:
			add(SectionClassification, row)
		case generalProfileTraits[row.name]:
			add(SectionProfile, row)
		}
	}
	return kvs, nil
}

// extractRows walks the document and returns every two-cell table row
// and dt/dd pair, each tagged with the text of the nearest preceding
// heading. Trait names are cleaned and alias-folded, values cleaned.
func extractRows(r io.Reader) ([]pageRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var (
		rows    []pageRow
		heading string
		walk    func(n *html.Node)
	)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				heading = CleanText(nodeText(n))
				return
			case "tr":
				if name, value, ok := rowCells(n); ok {
					rows = append(rows, pageRow{
						heading: heading,
						name:    NormalizeTraitName(name),
						value:   CleanText(value),
					})
				}
				return
			case "dl":
				rows = append(rows, definitionRows(n, heading)...)
				return
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows, nil
}

// rowCells returns the first two cell texts of a table row.
func rowCells(tr *html.Node) (name, value string, ok bool) {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, nodeText(c))
		}
	}
	if len(cells) < 2 {
		return "", "", false
	}
	return cells[0], cells[1], true
}

// definitionRows pairs each dt with its following dd.
func definitionRows(dl *html.Node, heading string) []pageRow {
	var (
		rows []pageRow
		name string
	)
	for c := dl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "dt":
			name = NormalizeTraitName(nodeText(c))
		case "dd":
			if name != "" {
				rows = append(rows, pageRow{
					heading: heading,
					name:    name,
					value:   CleanText(nodeText(c)),
				})
				name = ""
			}
		}
	}
	return rows
}

// nodeText concatenates all text nodes under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
