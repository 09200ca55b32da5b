package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/arbor-db/arbor/dialect"
)

// validIdentifierRe validates bare SQL identifiers (letters, digits and
// underscores, not starting with a digit).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidIdentifier reports whether s can name a common table expression or
// session object without quoting tricks. MySQL caps identifiers at 64
// characters.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 64 && validIdentifierRe.MatchString(s)
}

// Driver adapts a database/sql connection pool to the dialect.Driver
// interface so that wrappers and statement helpers can execute against it.
type Driver struct {
	Conn
	dialect string
}

// NewDriver builds a Driver from a Conn and the dialect it speaks.
func NewDriver(dialect string, c Conn) *Driver {
	return &Driver{dialect: dialect, Conn: c}
}

// Open opens a connection pool with database/sql.Open and returns it as a
// dialect.Driver.
func Open(dialect, source string) (*Driver, error) {
	db, err := sql.Open(dialect, source)
	if err != nil {
		return nil, err
	}
	return NewDriver(dialect, Conn{db}), nil
}

// OpenDB adopts an existing *sql.DB as a Driver.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return NewDriver(dialect, Conn{db})
}

// DB returns the wrapped *sql.DB pool.
func (d Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// Dialect reports which SQL dialect the driver speaks. Instrumented driver
// registrations such as "mysql:observability" normalize to plain mysql.
func (d Driver) Dialect() string {
	if strings.HasPrefix(d.dialect, dialect.MySQL) {
		return dialect.MySQL
	}
	return d.dialect
}

// Close closes the underlying connection pool.
func (d *Driver) Close() error { return d.DB().Close() }

// ExecQuerier is the subset of database/sql methods the package needs:
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn lifts an ExecQuerier to the dialect.ExecQuerier contract, coercing
// the untyped args and destination values both sides exchange.
type Conn struct {
	ExecQuerier
}

// argValues unpacks the untyped args parameter of the dialect.ExecQuerier
// contract, which is always a []any of bind values.
func argValues(args any) ([]any, error) {
	argv, ok := args.([]any)
	if !ok {
		return nil, fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	return argv, nil
}

// Exec executes a statement that returns no rows. v receives the outcome:
// pass nil to discard it, or *sql.Result to capture it.
func (c Conn) Exec(ctx context.Context, query string, args, v any) error {
	argv, err := argValues(args)
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		if _, err := c.ExecContext(ctx, query, argv...); err != nil {
			return fmt.Errorf("dialect/sql: exec: %w", err)
		}
	case *sql.Result:
		res, err := c.ExecContext(ctx, query, argv...)
		if err != nil {
			return fmt.Errorf("dialect/sql: exec: %w", err)
		}
		*v = res
	default:
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Result", v)
	}
	return nil
}

// Query executes a statement that returns rows, scanning them into the
// *Rows destination v.
func (c Conn) Query(ctx context.Context, query string, args, v any) error {
	vr, ok := v.(*Rows)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Rows", v)
	}
	argv, err := argValues(args)
	if err != nil {
		return err
	}
	rows, err := c.QueryContext(ctx, query, argv...)
	if err != nil {
		return fmt.Errorf("dialect/sql: query: %w", err)
	}
	*vr = Rows{rows}
	return nil
}

// ExecStatement compiles the builder and executes the statement it
// describes through the driver. v follows the Exec contract: nil or
// *sql.Result. Passing the driver explicitly keeps wrapper drivers
// (stats, debug) in the call path.
func ExecStatement(ctx context.Context, drv dialect.ExecQuerier, b *Builder, v any) error {
	query, args, err := b.Query()
	if err != nil {
		return err
	}
	return drv.Exec(ctx, query, args, v)
}

// QueryStatement compiles the builder and runs the select it describes,
// scanning the result into the *Rows destination.
func QueryStatement(ctx context.Context, drv dialect.ExecQuerier, b *Builder, v any) error {
	query, args, err := b.Query()
	if err != nil {
		return err
	}
	return drv.Query(ctx, query, args, v)
}

var _ dialect.Driver = (*Driver)(nil)

type (
	// Rows wraps sql.Rows behind the ColumnScanner interface so wrapper
	// drivers can substitute their own row sources.
	Rows struct{ ColumnScanner }
	// Result is an alias to sql.Result.
	Result = sql.Result
	// NullBool is an alias to sql.NullBool.
	NullBool = sql.NullBool
	// NullInt64 is an alias to sql.NullInt64.
	NullInt64 = sql.NullInt64
	// NullString is an alias to sql.NullString.
	NullString = sql.NullString
	// NullFloat64 is an alias to sql.NullFloat64.
	NullFloat64 = sql.NullFloat64
	// NullTime represents a time.Time that may be null.
	NullTime = sql.NullTime
)

// NullScanner wraps another sql.Scanner with null tracking: Valid reports
// whether the scanned value was non-NULL.
type NullScanner struct {
	S     sql.Scanner
	Valid bool
}

// Scan implements the sql.Scanner interface.
func (n *NullScanner) Scan(value any) error {
	n.Valid = value != nil
	if n.Valid {
		return n.S.Scan(value)
	}
	return nil
}

// ColumnScanner is the subset of sql.Rows methods used for iterating and
// scanning query results.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	NextResultSet() bool
	Scan(dest ...any) error
}
