package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/coolbeans/sdnexport/pkg/table"
)

// PostgresSink replaces one table per sheet. All tables are rebuilt in a
// single transaction so readers never see a partial export.
type PostgresSink struct {
	db          *sqlx.DB
	tablePrefix string
	logger      *zap.Logger
}

// OpenPostgres connects to dsn with the lib/pq driver.
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// NewPostgresSink returns a sink writing tables named <tablePrefix><sheet>.
func NewPostgresSink(db *sqlx.DB, tablePrefix string, logger *zap.Logger) *PostgresSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresSink{db: db, tablePrefix: tablePrefix, logger: logger}
}

func (s *PostgresSink) Name() string { return "postgres" }

// TableName returns the table that receives the named sheet.
func (s *PostgresSink) TableName(sheetName string) string {
	return strings.ToLower(s.tablePrefix + sheetName)
}

// Write returns no file paths; the tables are the artifact.
func (s *PostgresSink) Write(ctx context.Context, sheets []table.Sheet) ([]string, error) {
	if err := checkSheets(sheets); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, sheet := range sheets {
		if err := s.replaceTable(ctx, tx, sheet); err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				s.logger.Error("rollback failed", zap.Error(rollbackErr))
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("tables written", zap.String("prefix", s.tablePrefix), zap.Int("tables", len(sheets)))
	return nil, nil
}

func (s *PostgresSink) replaceTable(ctx context.Context, tx *sqlx.Tx, sheet table.Sheet) error {
	tableName := pq.QuoteIdentifier(s.TableName(sheet.Name))

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+tableName); err != nil {
		return fmt.Errorf("failed to drop %s: %w", tableName, err)
	}

	columns := make([]string, len(sheet.Columns))
	definitions := make([]string, len(sheet.Columns))
	placeholders := make([]string, len(sheet.Columns))
	for index, column := range sheet.Columns {
		columns[index] = pq.QuoteIdentifier(column)
		definitions[index] = columns[index] + " TEXT"
		placeholders[index] = "?"
	}

	createStatement := fmt.Sprintf("CREATE TABLE %s (%s)", tableName, strings.Join(definitions, ", "))
	if _, err := tx.ExecContext(ctx, createStatement); err != nil {
		return fmt.Errorf("failed to create %s: %w", tableName, err)
	}

	insertStatement := tx.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", ")))
	for rowIndex, row := range sheet.Rows {
		arguments := make([]interface{}, len(row))
		for index, cell := range row {
			arguments[index] = cell
		}
		if _, err := tx.ExecContext(ctx, insertStatement, arguments...); err != nil {
			return fmt.Errorf("failed to insert %s row %d: %w", sheet.Name, rowIndex, err)
		}
	}
	return nil
}
