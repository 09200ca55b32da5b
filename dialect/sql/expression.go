package sql

import "fmt"

// Expr is a raw SQL expression. It is rendered verbatim by the grammar:
// never quoted, never parameterized and never escaped. It is the escape
// hatch for SQL the builder has no vocabulary for.
//
//	b.Select(sql.Raw("COUNT(*)")).Table("users")
type Expr struct {
	sql string
}

// Raw returns an expression that renders s verbatim.
func Raw(s string) Expr {
	return Expr{sql: s}
}

// Exprf formats according to a format specifier and returns the result as
// a raw expression. The arguments are rendered into the SQL text itself,
// not bound as parameters.
func Exprf(format string, args ...any) Expr {
	return Expr{sql: fmt.Sprintf(format, args...)}
}

// String returns the raw SQL text of the expression.
func (e Expr) String() string {
	return e.sql
}
