// Package table holds the sheet type exchanged between extractors and sinks.
package table

// Sheet names in output order.
const (
	FeatureSheet        = "FEATURE"
	IDSheet             = "ID"
	AddressSheet        = "ADDRESS"
	SanctionsEntrySheet = "SANCTIONS_ENTRIES"
	NameSheet           = "NAME"
)

// Order is the fixed order in which sheets are emitted.
var Order = []string{FeatureSheet, IDSheet, AddressSheet, SanctionsEntrySheet, NameSheet}

// Sheet is a named table of string cells. Every row has len(Columns) cells.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (sheet Sheet) Len() int {
	return len(sheet.Rows)
}

// Column returns the cells of the named column, or nil when no column has that name.
func (sheet Sheet) Column(name string) []string {
	index := -1
	for columnIndex, column := range sheet.Columns {
		if column == name {
			index = columnIndex
			break
		}
	}
	if index < 0 {
		return nil
	}

	cells := make([]string, len(sheet.Rows))
	for rowIndex, row := range sheet.Rows {
		cells[rowIndex] = row[index]
	}
	return cells
}

// Record returns row rowIndex keyed by column name.
func (sheet Sheet) Record(rowIndex int) map[string]string {
	row := sheet.Rows[rowIndex]
	record := make(map[string]string, len(sheet.Columns))
	for columnIndex, column := range sheet.Columns {
		record[column] = row[columnIndex]
	}
	return record
}

// RowCounts maps each sheet name to its row count.
func RowCounts(sheets []Sheet) map[string]int {
	counts := make(map[string]int, len(sheets))
	for _, sheet := range sheets {
		counts[sheet.Name] = sheet.Len()
	}
	return counts
}
