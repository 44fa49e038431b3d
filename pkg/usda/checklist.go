package usda

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ChecklistRecord is one parsed row of a state checklist CSV.
// Fields are cleaned but otherwise verbatim; reconciliation decisions
// belong to later stages.
type ChecklistRecord struct {
	Symbol         string
	SynonymSymbol  string
	ScientificName string
	CommonName     string
	Family         string
}

// Reject describes a checklist row dropped during parsing.
type Reject struct {
	Line   int
	Reason string
}

// checklist column positions. Header:
// Symbol, Synonym Symbol, Scientific Name with Author,
// State Common Name, Family
const (
	colSymbol = iota
	colSynonym
	colSciName
	colCommonName
	colFamily
	checklistCols
)

// ParseChecklist parses a state checklist CSV stream. Malformed rows
// are collected as rejects and never abort the parse; only an
// unreadable stream or an unrecognizable header is an error.
func ParseChecklist(r io.Reader) ([]ChecklistRecord, []Reject, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read checklist header: %w", err)
	}
	if len(header) == 0 ||
		!strings.EqualFold(CleanText(header[colSymbol]), "Symbol") {
		return nil, nil, fmt.Errorf(
			"unrecognized checklist header: %q", strings.Join(header, ","),
		)
	}

	var (
		records []ChecklistRecord
		rejects []Reject
		line    = 1
	)
	for {
		line++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rejects = append(rejects, Reject{Line: line, Reason: err.Error()})
			continue
		}

		if len(row) < checklistCols {
			// pad short rows; trailing fields are optional
			for len(row) < checklistCols {
				row = append(row, "")
			}
		}

		rec := ChecklistRecord{
			Symbol:         NormalizeSymbol(row[colSymbol]),
			SynonymSymbol:  NormalizeSymbol(row[colSynonym]),
			ScientificName: CleanText(row[colSciName]),
			CommonName:     CleanText(row[colCommonName]),
			Family:         CleanText(row[colFamily]),
		}
		if rec.Symbol == "" {
			rejects = append(rejects, Reject{Line: line, Reason: "empty symbol"})
			continue
		}
		records = append(records, rec)
	}
	return records, rejects, nil
}
