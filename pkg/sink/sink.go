// Package sink writes extracted sheets to their destinations: an Excel
// workbook, a directory of CSV files, or Postgres tables.
package sink

import (
	"context"
	"fmt"

	"github.com/coolbeans/sdnexport/pkg/table"
)

// Sink persists a complete set of sheets.
type Sink interface {
	// Name identifies the sink in logs and reports.
	Name() string
	// Write stores every sheet and returns the paths of files it produced.
	Write(ctx context.Context, sheets []table.Sheet) ([]string, error)
}

func checkSheets(sheets []table.Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}
	seen := make(map[string]bool, len(sheets))
	for _, sheet := range sheets {
		if sheet.Name == "" {
			return fmt.Errorf("sheet without a name")
		}
		if seen[sheet.Name] {
			return fmt.Errorf("duplicate sheet %s", sheet.Name)
		}
		seen[sheet.Name] = true
	}
	return nil
}
