// Package sqlbuilder renders parameterized PostgreSQL statements from small
// predicate trees. Column names are trusted code constants; every value
// becomes a positional argument.
package sqlbuilder

import (
	"fmt"
	"strings"
)

// Args accumulates positional arguments while a statement is rendered.
type Args struct {
	values []interface{}
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v interface{}) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// Values returns the accumulated arguments.
func (a *Args) Values() []interface{} {
	return a.values
}

// Expr is a boolean SQL expression.
type Expr interface {
	render(args *Args) string
}

type exprFunc func(args *Args) string

func (f exprFunc) render(args *Args) string { return f(args) }

// EscapeLike escapes the LIKE metacharacters in s.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ILike matches col case-insensitively against a substring of value.
func ILike(col, value string) Expr {
	return exprFunc(func(args *Args) string {
		return col + " ILIKE " + args.Add("%"+EscapeLike(value)+"%")
	})
}

// Eq is col = value.
func Eq(col string, value interface{}) Expr {
	return exprFunc(func(args *Args) string {
		return col + " = " + args.Add(value)
	})
}

// NotEq is col <> value.
func NotEq(col string, value interface{}) Expr {
	return exprFunc(func(args *Args) string {
		return col + " <> " + args.Add(value)
	})
}

// In is col IN (values...). A single value renders as Eq.
func In(col string, values ...interface{}) Expr {
	if len(values) == 1 {
		return Eq(col, values[0])
	}
	return exprFunc(func(args *Args) string {
		if len(values) == 0 {
			return "FALSE"
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = args.Add(v)
		}
		return col + " IN (" + strings.Join(placeholders, ", ") + ")"
	})
}

// IsNull is col IS NULL.
func IsNull(col string) Expr {
	return exprFunc(func(*Args) string { return col + " IS NULL" })
}

// And joins exprs with AND. An empty list is TRUE.
func And(exprs ...Expr) Expr {
	return join(" AND ", "TRUE", exprs)
}

// Or joins exprs with OR. An empty list is FALSE.
func Or(exprs ...Expr) Expr {
	return join(" OR ", "FALSE", exprs)
}

func join(sep, empty string, exprs []Expr) Expr {
	return exprFunc(func(args *Args) string {
		switch len(exprs) {
		case 0:
			return empty
		case 1:
			return exprs[0].render(args)
		}
		parts := make([]string, len(exprs))
		for i, e := range exprs {
			parts[i] = e.render(args)
		}
		return "(" + strings.Join(parts, sep) + ")"
	})
}
