package sql

import "strings"

// MySQL is the MySQL-family dialect: backtick identifier quoting and "?"
// placeholders. The grammar's built-in upsert clause is already the MySQL
// ON DUPLICATE KEY UPDATE form, so MySQL implements only the two base
// hooks. It is stateless and safe to share.
type MySQL struct{}

var _ Dialect = MySQL{}

// Wrap quotes a single identifier with backticks, doubling any backtick the
// identifier itself contains.
func (MySQL) Wrap(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// Placeholder returns the positional parameter token.
func (MySQL) Placeholder() string {
	return "?"
}
