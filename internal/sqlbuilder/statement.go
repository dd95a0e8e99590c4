package sqlbuilder

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// QuoteTable quotes a possibly schema-qualified table name.
func QuoteTable(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

func renderWhere(sb *strings.Builder, args *Args, where []Expr) {
	if len(where) == 0 {
		return
	}
	parts := make([]string, len(where))
	for i, e := range where {
		parts[i] = e.render(args)
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(parts, " AND "))
}

// SelectBuilder builds a SELECT statement.
type SelectBuilder struct {
	table   string
	columns []string
	where   []Expr
	orderBy []string
	limit   int
	offset  int
}

// Select starts a SELECT of columns from table. No columns selects *.
func Select(table string, columns ...string) *SelectBuilder {
	return &SelectBuilder{table: table, columns: columns}
}

// Where adds predicates; multiple calls are AND-ed.
func (s *SelectBuilder) Where(exprs ...Expr) *SelectBuilder {
	s.where = append(s.where, exprs...)
	return s
}

// OrderBy appends ordering terms.
func (s *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, terms...)
	return s
}

// Limit sets LIMIT; zero means none.
func (s *SelectBuilder) Limit(n int) *SelectBuilder {
	s.limit = n
	return s
}

// Offset sets OFFSET; zero means none.
func (s *SelectBuilder) Offset(n int) *SelectBuilder {
	s.offset = n
	return s
}

// Build renders the statement and its arguments.
func (s *SelectBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	args := &Args{}

	cols := "*"
	if len(s.columns) > 0 {
		cols = strings.Join(s.columns, ", ")
	}
	sb.WriteString("SELECT " + cols + " FROM " + QuoteTable(s.table))
	renderWhere(&sb, args, s.where)
	if len(s.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(s.orderBy, ", "))
	}
	if s.limit > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(s.limit))
	}
	if s.offset > 0 {
		sb.WriteString(" OFFSET " + strconv.Itoa(s.offset))
	}
	return sb.String(), args.Values()
}

// Count renders SELECT COUNT(*) over the same table and predicates.
func (s *SelectBuilder) Count() (string, []interface{}) {
	var sb strings.Builder
	args := &Args{}
	sb.WriteString("SELECT COUNT(*) FROM " + QuoteTable(s.table))
	renderWhere(&sb, args, s.where)
	return sb.String(), args.Values()
}

type assignment struct {
	col   string
	value interface{}
	null  bool
}

// UpdateBuilder builds an UPDATE statement.
type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Expr
}

// Update starts an UPDATE of table.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set assigns value to col.
func (u *UpdateBuilder) Set(col string, value interface{}) *UpdateBuilder {
	u.sets = append(u.sets, assignment{col: col, value: value})
	return u
}

// SetNull assigns NULL to col.
func (u *UpdateBuilder) SetNull(col string) *UpdateBuilder {
	u.sets = append(u.sets, assignment{col: col, null: true})
	return u
}

// Where adds predicates; multiple calls are AND-ed.
func (u *UpdateBuilder) Where(exprs ...Expr) *UpdateBuilder {
	u.where = append(u.where, exprs...)
	return u
}

// Build renders the statement and its arguments.
func (u *UpdateBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	args := &Args{}

	sets := make([]string, len(u.sets))
	for i, a := range u.sets {
		if a.null {
			sets[i] = a.col + " = NULL"
			continue
		}
		sets[i] = a.col + " = " + args.Add(a.value)
	}
	sb.WriteString("UPDATE " + QuoteTable(u.table) + " SET " + strings.Join(sets, ", "))
	renderWhere(&sb, args, u.where)
	return sb.String(), args.Values()
}
