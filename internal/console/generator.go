// Package console holds the pure logic behind the administrative SQL
// console: statement generation, risk classification, the execution guard
// and the CSV codec.
package console

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is a generated statement type.
type Kind string

const (
	KindSelect Kind = "SELECT"
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
	KindExport Kind = "EXPORT"
)

var (
	ErrTableRequired     = errors.New("table is required")
	ErrUnknownKind       = errors.New("unknown statement type")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrNoValues          = errors.New("please provide values for at least one column")
	ErrWhereRequired     = errors.New("WHERE clause is required")
	ErrFilePathRequired  = errors.New("file path is required for EXPORT operations")
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is a plain unquoted identifier.
func ValidIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// GenerateRequest describes the statement assembled by the query builder.
type GenerateRequest struct {
	Kind    Kind
	Table   string
	Columns []string
	Values  map[string]string
	Where   string
	Limit   int
	// FilePath is the server-side target of an EXPORT.
	FilePath string
	// TableColumns lists every column of Table; EXPORT falls back to it
	// when Columns is empty.
	TableColumns []string
}

// Generate renders the statement described by req.
func Generate(req GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Table) == "" {
		return "", ErrTableRequired
	}
	if !ValidIdentifier(req.Table) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, req.Table)
	}
	for _, col := range req.Columns {
		if !ValidIdentifier(col) {
			return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, col)
		}
	}

	where := strings.TrimSpace(req.Where)

	switch req.Kind {
	case KindSelect:
		cols := "*"
		if len(req.Columns) > 0 {
			cols = strings.Join(req.Columns, ", ")
		}
		query := "SELECT " + cols + "\nFROM " + req.Table
		if where != "" {
			query += "\nWHERE " + where
		}
		if req.Limit > 0 {
			query += "\nLIMIT " + strconv.Itoa(req.Limit)
		}
		return query, nil

	case KindInsert:
		cols := valuedColumns(req)
		if len(cols) == 0 {
			return "", ErrNoValues
		}
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = Literal(req.Values[col])
		}
		return "INSERT INTO " + req.Table + " (" + strings.Join(cols, ", ") + ")\nVALUES (" + strings.Join(values, ", ") + ")", nil

	case KindUpdate:
		cols := valuedColumns(req)
		if len(cols) == 0 {
			return "", ErrNoValues
		}
		if where == "" {
			return "", fmt.Errorf("%w for UPDATE operations", ErrWhereRequired)
		}
		sets := make([]string, len(cols))
		for i, col := range cols {
			sets[i] = col + " = " + Literal(req.Values[col])
		}
		return "UPDATE " + req.Table + "\nSET " + strings.Join(sets, ", ") + "\nWHERE " + where, nil

	case KindDelete:
		if where == "" {
			return "", fmt.Errorf("%w for DELETE operations", ErrWhereRequired)
		}
		return "DELETE FROM " + req.Table + "\nWHERE " + where, nil

	case KindExport:
		path := strings.TrimSpace(req.FilePath)
		if path == "" {
			return "", ErrFilePathRequired
		}
		cols := req.Columns
		if len(cols) == 0 {
			cols = req.TableColumns
		}
		for _, col := range cols {
			if !ValidIdentifier(col) {
				return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, col)
			}
		}
		return "COPY " + req.Table + " (\n  " + strings.Join(cols, ",\n  ") + "\n)\nTO " + quote(path) +
			"\nWITH (\n  FORMAT csv,\n  HEADER true,\n  ENCODING 'UTF8'\n);", nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
}

// valuedColumns keeps the selected columns that were given a value, in
// selection order.
func valuedColumns(req GenerateRequest) []string {
	out := make([]string, 0, len(req.Columns))
	for _, col := range req.Columns {
		if req.Values[col] != "" {
			out = append(out, col)
		}
	}
	return out
}

// Literal renders v as a SQL literal: numbers raw, everything else quoted.
func Literal(v string) string {
	if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return strings.TrimSpace(v)
	}
	return quote(v)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
