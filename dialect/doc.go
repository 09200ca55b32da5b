// Package dialect defines the driver abstraction the Arbor query builder
// compiles against.
//
// A Driver executes compiled statements and reports which SQL dialect it
// speaks. The dialect name doubles as the driver name passed to sql.Open:
//
//	drv, err := sql.Open(dialect.MySQL, "user:pass@tcp(localhost:3306)/app")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// Both methods of the embedded ExecQuerier take the statement text and its
// ordered argument list exactly as a builder's Query method produces them,
// plus an untyped destination the implementation scans the outcome into.
// Components that execute statements but do not manage the connection,
// such as the statement helpers in dialect/sql, accept the narrower
// ExecQuerier so they never close a pool they do not own.
//
// The concrete implementation lives in the dialect/sql sub-package along
// with the query builder and its grammar compiler.
package dialect
