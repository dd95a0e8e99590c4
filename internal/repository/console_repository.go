package repository

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/manor5/electraSIR/internal/database"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/sqlbuilder"
)

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// ConsoleRepository runs operator-supplied SQL and introspects the schema.
type ConsoleRepository interface {
	// Execute runs sql and returns its columns and rows. For statements
	// without a result set RowCount is the affected count.
	//
	// Unrestricted text goes over the simple protocol: several statements
	// may be separated by semicolons, all of them run and the first result
	// set is returned. With readOnly set, sql must be a single statement and
	// runs inside a READ ONLY transaction.
	Execute(ctx context.Context, sql string, readOnly bool) (*models.QueryResult, error)

	// ListTables returns the tables of the public schema.
	ListTables(ctx context.Context) ([]string, error)

	// ListColumns returns the columns of a public table in ordinal order.
	ListColumns(ctx context.Context, table string) ([]ColumnInfo, error)

	// ImportRows inserts rows into table in one transaction. Each row runs
	// under its own savepoint; failed rows are counted and skipped.
	ImportRows(ctx context.Context, table string, columns []string, rows [][]string) (*models.ImportResult, error)
}

type consoleRepository struct {
	db *database.Database
}

// NewConsoleRepository creates a new instance of ConsoleRepository.
func NewConsoleRepository(db *database.Database) ConsoleRepository {
	return &consoleRepository{
		db: db,
	}
}

func (r *consoleRepository) Execute(ctx context.Context, sql string, readOnly bool) (*models.QueryResult, error) {
	if !readOnly {
		rows, err := r.db.Pool.Query(ctx, sql, pgx.QueryExecModeSimpleProtocol)
		if err != nil {
			return nil, err
		}
		return collectResult(rows)
	}

	var result *models.QueryResult
	err := r.db.WithReadOnlyTx(ctx, func(tx pgx.Tx) error {
		// Extended protocol: one statement, so the text cannot end the
		// transaction with its own COMMIT.
		rows, err := tx.Query(ctx, sql, pgx.QueryExecModeExec)
		if err != nil {
			return err
		}
		result, err = collectResult(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func collectResult(rows pgx.Rows) (*models.QueryResult, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := &models.QueryResult{
		Columns: columns,
		Rows:    make([]map[string]interface{}, 0),
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tag := rows.CommandTag()
	result.Command = commandVerb(tag.String())
	if len(fields) > 0 {
		result.RowCount = int64(len(result.Rows))
	} else {
		result.RowCount = tag.RowsAffected()
	}
	return result, nil
}

// normalizeValue converts driver values into JSON- and CSV-friendly forms.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case driver.Valuer:
		out, err := val.Value()
		if err != nil {
			return fmt.Sprint(v)
		}
		return out
	default:
		return v
	}
}

func commandVerb(tag string) string {
	if i := strings.IndexByte(tag, ' '); i > 0 {
		return tag[:i]
	}
	return tag
}

func (r *consoleRepository) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect tables: %w", err)
	}
	return tables, nil
}

func (r *consoleRepository) ListColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	query := `
		SELECT column_name, data_type, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := r.db.Pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}
	columns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ColumnInfo, error) {
		var c ColumnInfo
		err := row.Scan(&c.Name, &c.Type, &c.Nullable)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect columns of %s: %w", table, err)
	}
	return columns, nil
}

func (r *consoleRepository) ImportRows(ctx context.Context, table string, columns []string, rows [][]string) (*models.ImportResult, error) {
	stmt := buildInsertStatement(table, columns)
	result := &models.ImportResult{Table: table, Total: len(rows)}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, row := range rows {
			sp, err := tx.Begin(ctx)
			if err != nil {
				return fmt.Errorf("failed to create savepoint: %w", err)
			}
			if _, err := sp.Exec(ctx, stmt, rowArgs(row)...); err != nil {
				if rbErr := sp.Rollback(ctx); rbErr != nil {
					return fmt.Errorf("failed to roll back savepoint: %w", rbErr)
				}
				result.Failed++
				continue
			}
			if err := sp.Commit(ctx); err != nil {
				return fmt.Errorf("failed to release savepoint: %w", err)
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import into %s: %w", table, err)
	}
	return result, nil
}

func buildInsertStatement(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return "INSERT INTO " + sqlbuilder.QuoteTable(table) +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
}

// rowArgs passes empty cells as NULL.
func rowArgs(row []string) []interface{} {
	args := make([]interface{}, len(row))
	for i, v := range row {
		if v == "" {
			args[i] = nil
			continue
		}
		args[i] = v
	}
	return args
}
