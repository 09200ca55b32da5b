// Package sql provides a fluent SQL query builder and the grammar compiler
// that renders it into MySQL-style SQL with positional bindings.
//
// The Builder accumulates the structured form of one statement — select,
// insert, update, delete or upsert — and the Grammar turns that structure
// into SQL text plus an ordered parameter list. The two never mix: builders
// hold state and validate input, grammars render.
//
// # Building Queries
//
//	q := sql.New().
//	    Table("users").
//	    Select("id", "name").
//	    Where("active", true).
//	    OrderBy("name").
//	    Limit(10)
//
//	query, args, err := q.Query()
//	// SELECT `id`, `name` FROM `users` WHERE `active` = ? ORDER BY `name` ASC LIMIT 10
//	// args: [true]
//
// # Conditions
//
// Every condition-adding method has an OR twin, and most a negated form:
//
//	b.Where("age", ">", 21)
//	b.WhereIn("status", "active", "pending")
//	b.WhereBetween("price", 10, 100)
//	b.WhereNull("deleted_at")
//	b.WhereExists(func(b *sql.Builder) {
//	    b.Table("orders").WhereColumn("orders.user_id", "=", "users.id")
//	})
//
// A func(*Builder) left side groups conditions in parentheses:
//
//	b.Where(func(b *sql.Builder) {
//	    b.Where("role", "admin").OrWhere("role", "owner")
//	})
//
// # Predicates
//
// Conditions also compose as reusable values: typed columns construct
// predicates, and And, Or and Not combine them.
//
//	paying := sql.And(
//	    sql.BoolColumn("active").IsTrue(),
//	    sql.StringColumn("plan").In("pro", "team"),
//	)
//	b.Where(paying)
//
// # Bindings
//
// Scalar values are never interpolated into the SQL text; each is captured
// as a positional binding at the moment the condition is added, and the
// compiled binding list always matches the placeholders left to right,
// regardless of the order the clauses were added in.
//
// # Writing Statements
//
//	sql.New().Table("users").Insert(map[string]any{"name": "a", "age": 30})
//	sql.New().Table("users").Where("id", 1).Update(map[string]any{"age": 31})
//	sql.New().Table("users").Where("id", 1).Delete()
//	sql.New().Table("daily_stats").
//	    Upsert(map[string]any{"day": "2024-01-01", "hits": 1}).
//	    OnConflictUpdate("hits")
//
// # Execution
//
// The execution surface is deliberately thin: Open returns a Driver whose
// Exec and Query methods take the compiled SQL and bindings, and
// ExecStatement/QueryStatement glue a builder straight to a driver.
// Wrapping drivers add query statistics (NewStatsDriver) and debug logging
// (NewDebugDriver).
//
// # Dialects
//
// The grammar is dialect-generic over two hooks, identifier quoting and the
// placeholder token. MySQL is the built-in dialect; a custom one needs only
// those two methods, plus UpsertSuffix when its conflict clause differs
// from ON DUPLICATE KEY UPDATE.
package sql
