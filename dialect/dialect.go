package dialect

import "context"

// MySQL is the dialect name passed to sql.Open for MySQL-family servers.
const MySQL = "mysql"

// ExecQuerier wraps the two standard database operations. The query string
// carries positional placeholders and args the matching ordered parameter
// list, exactly as produced by a query builder's Query method.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in
	// SQL, INSERT or UPDATE. It scans the result to the pointer v.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT in SQL.
	// It scans the result to the pointer v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the minimal interface a database driver exposes to the query
// layer: executing compiled statements, reporting its dialect name and
// releasing the underlying connection pool.
type Driver interface {
	ExecQuerier
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}
