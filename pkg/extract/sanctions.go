package extract

import (
	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/table"
)

// SanctionsEntryColumns are the SANCTIONS_ENTRIES sheet headers. FixedRef
// carries the SanctionsEntry ID, not a party reference.
var SanctionsEntryColumns = []string{"FixedRef", "ListID", "SanctionsTypeID", "SanctionsProgramID"}

// ExtractSanctionsEntries emits one row per (entry, measure) pair with the
// list and sanctions type resolved to labels.
func ExtractSanctionsEntries(input *Input) table.Sheet {
	tables := input.Tables
	sheet := table.Sheet{Name: table.SanctionsEntrySheet, Columns: SanctionsEntryColumns}

	for _, entry := range input.Document.SanctionsEntries {
		listName := tables.Lists.LabelOr(entry.ListID, reference.UnknownList)
		for _, measure := range entry.Measures {
			sheet.Rows = append(sheet.Rows, []string{
				entry.ID,
				listName,
				tables.SanctionsTypes.LabelOr(measure.SanctionsTypeID, reference.UnknownType),
				measure.Comment,
			})
		}
	}

	return sheet
}
