package sql

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors reported by the compiler.
var (
	// ErrNoTable is returned when a statement that requires a target table
	// is compiled without one.
	ErrNoTable = errors.New("dialect/sql: no table specified")

	// ErrNoValues is returned when an insert, upsert or update statement is
	// compiled without any values.
	ErrNoValues = errors.New("dialect/sql: no values specified")
)

// ValidationError reports malformed input handed to a builder method. It is
// recorded on the builder in the call that rejected the input and surfaces,
// joined with any other recorded errors, when the statement is compiled.
// No SQL is produced for a builder holding a validation error.
type ValidationError struct {
	Op  string // builder method that rejected the input
	Err error  // underlying description
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("dialect/sql: %s: %s", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given operation.
func NewValidationError(op string, err error) *ValidationError {
	return &ValidationError{Op: op, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// CompileError reports a structural problem found while rendering a
// statement, such as an unknown statement tag or an unsupported value in a
// rendered position. Like validation errors it is immediate and final: a
// failed compile returns no partial SQL.
type CompileError struct {
	Stmt string // statement kind being compiled
	Err  error  // underlying description
}

// Error returns the error string.
func (e *CompileError) Error() string {
	if e.Stmt != "" {
		return fmt.Sprintf("dialect/sql: compile %s: %s", e.Stmt, e.Err)
	}
	return fmt.Sprintf("dialect/sql: compile: %s", e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// NewCompileError returns a new CompileError for the given statement kind.
func NewCompileError(stmt string, err error) *CompileError {
	return &CompileError{Stmt: stmt, Err: err}
}

// IsCompileError returns true if the error is a CompileError.
func IsCompileError(err error) bool {
	if err == nil {
		return false
	}
	var e *CompileError
	return errors.As(err, &e)
}

// errorNumberer is an interface for database errors that expose their
// numeric vendor code as a method.
type errorNumberer interface {
	Number() uint16
}

// sqlStateError is an interface for errors that expose SQLSTATE codes.
// Implemented by several MySQL-protocol drivers.
type sqlStateError interface {
	SQLState() string
}

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451 // cannot delete or update a parent row
	mysqlForeignKeyChild  = 1452 // cannot add or update a child row
)

// SQLSTATE classes for the same violations.
const (
	sqlStateDuplicate  = "23000"
	sqlStateForeignKey = "23503"
)

// IsDuplicateKeyError reports whether the error resulted from a uniqueness
// constraint violation, such as inserting a duplicate value into a unique
// index. Callers typically check it after executing an insert built without
// an upsert clause.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[errorNumberer](err); ok {
		if e.Number() == mysqlDuplicateEntry {
			return true
		}
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == sqlStateDuplicate {
		return true
	}
	return containsAny(err.Error(),
		"Error 1062",
		"Duplicate entry",
	)
}

// IsForeignKeyError reports whether the error resulted from a foreign-key
// constraint violation, on either the parent or the child side.
func IsForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[errorNumberer](err); ok {
		if num := e.Number(); num == mysqlForeignKeyParent || num == mysqlForeignKeyChild {
			return true
		}
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == sqlStateForeignKey {
		return true
	}
	return containsAny(err.Error(),
		"Error 1451",
		"Error 1452",
		"a foreign key constraint fails",
	)
}

// asError attempts to extract an error implementing interface T from the
// error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
