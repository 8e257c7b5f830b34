package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/coolbeans/sdnexport/pkg/table"
)

const defaultWorksheet = "Sheet1"

// XLSXSink writes all sheets as worksheets of one workbook.
type XLSXSink struct {
	path   string
	logger *zap.Logger
}

// NewXLSXSink returns a sink writing the workbook to path.
func NewXLSXSink(path string, logger *zap.Logger) *XLSXSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXSink{path: path, logger: logger}
}

func (s *XLSXSink) Name() string { return "xlsx" }

// Write replaces the workbook at the sink path. Worksheets appear in the
// order of sheets, each with a header row followed by the data rows.
func (s *XLSXSink) Write(ctx context.Context, sheets []table.Sheet) ([]string, error) {
	if err := checkSheets(sheets); err != nil {
		return nil, err
	}

	workbook := excelize.NewFile()
	defer workbook.Close()

	for index, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if index == 0 {
			if err := workbook.SetSheetName(defaultWorksheet, sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to rename default worksheet: %w", err)
			}
		} else if _, err := workbook.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("failed to add worksheet %s: %w", sheet.Name, err)
		}

		if err := writeWorksheet(workbook, sheet); err != nil {
			return nil, err
		}
	}
	workbook.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := workbook.SaveAs(s.path); err != nil {
		return nil, fmt.Errorf("failed to save workbook %s: %w", s.path, err)
	}

	s.logger.Info("workbook written", zap.String("path", s.path), zap.Int("sheets", len(sheets)))
	return []string{s.path}, nil
}

func writeWorksheet(workbook *excelize.File, sheet table.Sheet) error {
	streamWriter, err := workbook.NewStreamWriter(sheet.Name)
	if err != nil {
		return fmt.Errorf("failed to open worksheet %s: %w", sheet.Name, err)
	}

	if err := streamWriter.SetRow("A1", cells(sheet.Columns)); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet.Name, err)
	}
	for rowIndex, row := range sheet.Rows {
		cellName, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return err
		}
		if err := streamWriter.SetRow(cellName, cells(row)); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet.Name, rowIndex, err)
		}
	}

	if err := streamWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush worksheet %s: %w", sheet.Name, err)
	}
	return nil
}

func cells(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for index, value := range values {
		row[index] = value
	}
	return row
}
