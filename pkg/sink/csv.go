package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/coolbeans/sdnexport/pkg/table"
)

// CSVSink writes one <prefix><SHEET>.csv file per sheet into a directory.
type CSVSink struct {
	directory string
	prefix    string
	logger    *zap.Logger
}

// NewCSVSink returns a sink writing into directory with file name prefix.
func NewCSVSink(directory string, prefix string, logger *zap.Logger) *CSVSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVSink{directory: directory, prefix: prefix, logger: logger}
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Write(ctx context.Context, sheets []table.Sheet) ([]string, error) {
	if err := checkSheets(sheets); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		filePath := filepath.Join(s.directory, s.prefix+sheet.Name+".csv")
		if err := writeCSV(filePath, sheet); err != nil {
			return paths, err
		}
		paths = append(paths, filePath)
		s.logger.Debug("sheet written", zap.String("sheet", sheet.Name), zap.String("path", filePath), zap.Int("rows", sheet.Len()))
	}

	s.logger.Info("csv files written", zap.String("directory", s.directory), zap.Int("files", len(paths)))
	return paths, nil
}

func writeCSV(filePath string, sheet table.Sheet) error {
	outputFile, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filePath, err)
	}

	writer := csv.NewWriter(outputFile)
	if err := writer.Write(sheet.Columns); err != nil {
		outputFile.Close()
		return fmt.Errorf("failed to write %s header: %w", sheet.Name, err)
	}
	if err := writer.WriteAll(sheet.Rows); err != nil {
		outputFile.Close()
		return fmt.Errorf("failed to write %s rows: %w", sheet.Name, err)
	}

	if err := outputFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filePath, err)
	}
	return nil
}
