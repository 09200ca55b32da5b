package sql

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// stmtType enumerates the statement kinds a builder can describe. The zero
// value is a select, matching a freshly constructed builder.
type stmtType uint8

const (
	stmtSelect stmtType = iota
	stmtInsert
	stmtUpdate
	stmtDelete
	stmtUpsert
)

// String returns the statement name used in error messages.
func (s stmtType) String() string {
	switch s {
	case stmtSelect:
		return "select"
	case stmtInsert:
		return "insert"
	case stmtUpdate:
		return "update"
	case stmtDelete:
		return "delete"
	case stmtUpsert:
		return "upsert"
	default:
		return fmt.Sprintf("stmtType(%d)", s)
	}
}

// tableRef is a statement's target: a named table with an optional alias,
// or a sub-select fragment aliased as a derived table.
type tableRef struct {
	name  string
	alias string
	query *Builder
}

// selectCol is one entry of the select list.
type selectCol struct {
	o     operand
	alias string
}

// assign is one SET pair of an update statement.
type assign struct {
	col string
	val operand
}

// joinClause is one join descriptor with its own condition list.
type joinClause struct {
	kind  string // INNER, LEFT, RIGHT, CROSS
	table tableRef
	conds []cond
}

// orderClause is one ORDER BY entry with a validated direction.
type orderClause struct {
	col  operand
	desc bool
}

// cteClause is one named common table expression.
type cteClause struct {
	name      string
	recursive bool
	query     *Builder
}

// unionClause is one union arm appended after the main select.
type unionClause struct {
	all   bool
	query *Builder
}

// Aliased pairs a select entry with an alias. Construct it with As.
type Aliased struct {
	value any
	alias string
}

// As aliases a select entry: a column name, a raw expression or a
// sub-select builder.
func As(v any, alias string) Aliased {
	return Aliased{value: v, alias: alias}
}

// tableAliasRe splits "users u" and "users AS u" forms into name and alias.
var tableAliasRe = regexp.MustCompile(`(?i)^(\S+)(?:\s+as)?\s+(\S+)$`)

// Builder accumulates the structured representation of one SQL statement,
// or of a nested fragment used as a subquery. It is a pure accumulator: it
// never renders SQL itself, the Grammar does. Methods are fluent and record
// malformed input as errors on the builder; a recorded error fails the
// compile before any SQL is produced.
//
//	q, args, err := sql.New().
//		Table("users").
//		Select("id", "name").
//		Where("active", true).
//		OrderBy("name").
//		Limit(10).
//		Query()
//
// A Builder is not safe for concurrent use. Sub-builders attached as
// fragments are owned by their parent from the moment of attachment.
type Builder struct {
	dialect Dialect
	grammar *Grammar

	stmt     stmtType
	table    tableRef
	distinct bool
	columns  []selectCol

	insertCols []string
	insertRows [][]operand
	updates    []assign
	refresh    []string

	wheres  []cond
	havings []cond
	joins   []joinClause
	groups  []string
	orders  []orderClause
	limit   *int
	offset  *int
	ctes    []cteClause
	unions  []unionClause

	bindings [numSections][]any

	compiled bool
	sql      string
	args     []any
	errs     []error
}

// New returns a builder for the MySQL dialect.
func New() *Builder {
	return NewDialect(MySQL{})
}

// NewDialect returns a builder rendering through the given dialect.
func NewDialect(d Dialect) *Builder {
	return &Builder{dialect: d, grammar: NewGrammar(d)}
}

// fork returns a fresh builder sharing the dialect but none of the state.
// Fragment builders handed to closures are created through it.
func (b *Builder) fork() *Builder {
	return NewDialect(b.dialect)
}

// Dialect returns the dialect the builder compiles through.
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// AddError records an error on the builder. It is exposed so that helper
// packages composing conditions can fail the build the same way the core
// methods do.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Err returns the errors recorded on the builder, joined, or nil.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

// fail records a validation error for the named operation.
func (b *Builder) fail(op, format string, args ...any) *Builder {
	return b.AddError(NewValidationError(op, fmt.Errorf(format, args...)))
}

// addBinding appends a captured scalar to the section's binding list.
func (b *Builder) addBinding(sec section, v any) {
	b.bindings[sec] = append(b.bindings[sec], v)
}

// resolveQuery accepts the two fragment forms: an existing builder, or a
// closure run against a fresh fork.
func (b *Builder) resolveQuery(v any) (*Builder, error) {
	switch v := v.(type) {
	case *Builder:
		return v, nil
	case func(*Builder):
		sub := b.fork()
		v(sub)
		return sub, nil
	default:
		return nil, fmt.Errorf("expected *Builder or func(*Builder), got %T", v)
	}
}

// Table sets the statement's target table. A name of the form "users u" or
// "users AS u" is split into table and alias.
func (b *Builder) Table(name string) *Builder {
	name = strings.TrimSpace(name)
	if m := tableAliasRe.FindStringSubmatch(name); m != nil {
		b.table = tableRef{name: m[1], alias: m[2]}
		return b
	}
	b.table = tableRef{name: name}
	return b
}

// TableAs sets the target table with an explicit alias.
func (b *Builder) TableAs(name, alias string) *Builder {
	b.table = tableRef{name: name, alias: alias}
	return b
}

// TableSub sets a sub-select as the statement's source. q is a *Builder or
// a func(*Builder); the alias is required, derived tables cannot be
// anonymous.
func (b *Builder) TableSub(q any, alias string) *Builder {
	sub, err := b.resolveQuery(q)
	if err != nil {
		return b.fail("TableSub", "%s", err)
	}
	if alias == "" {
		return b.fail("TableSub", "derived table requires an alias")
	}
	b.table = tableRef{alias: alias, query: sub}
	return b
}

// Select replaces the select list. Each entry is a column identifier, a raw
// expression, a sub-select (*Builder or func(*Builder)) or an Aliased entry.
func (b *Builder) Select(cols ...any) *Builder {
	b.columns = b.columns[:0]
	for _, c := range cols {
		b.addColumn(c, "")
	}
	return b
}

func (b *Builder) addColumn(c any, alias string) {
	switch c := c.(type) {
	case string:
		b.columns = append(b.columns, selectCol{o: columnOp(c), alias: alias})
	case Expr:
		b.columns = append(b.columns, selectCol{o: exprOp(c), alias: alias})
	case *Builder:
		b.columns = append(b.columns, selectCol{o: queryOp(c), alias: alias})
	case func(*Builder):
		sub := b.fork()
		c(sub)
		b.columns = append(b.columns, selectCol{o: queryOp(sub), alias: alias})
	case Aliased:
		if alias != "" {
			b.fail("Select", "nested alias for %q", c.alias)
			return
		}
		b.addColumn(c.value, c.alias)
	default:
		b.fail("Select", "unsupported column type %T", c)
	}
}

// Distinct marks the select list as DISTINCT.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// GroupBy appends columns to the GROUP BY clause.
func (b *Builder) GroupBy(cols ...string) *Builder {
	b.groups = append(b.groups, cols...)
	return b
}

// OrderBy appends an ORDER BY entry. col is a column identifier or a raw
// expression; dir, when given, must be "asc" or "desc" in any case.
func (b *Builder) OrderBy(col any, dir ...string) *Builder {
	var o operand
	switch col := col.(type) {
	case string:
		o = columnOp(col)
	case Expr:
		o = exprOp(col)
	default:
		return b.fail("OrderBy", "unsupported column type %T", col)
	}
	desc := false
	if len(dir) > 0 {
		switch {
		case strings.EqualFold(dir[0], "asc"):
		case strings.EqualFold(dir[0], "desc"):
			desc = true
		default:
			return b.fail("OrderBy", "invalid direction %q", dir[0])
		}
	}
	b.orders = append(b.orders, orderClause{col: o, desc: desc})
	return b
}

// OrderByDesc appends a descending ORDER BY entry.
func (b *Builder) OrderByDesc(col any) *Builder {
	return b.OrderBy(col, "desc")
}

// Limit caps the number of rows returned.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		return b.fail("Limit", "negative limit %d", n)
	}
	b.limit = &n
	return b
}

// Offset skips the first n rows.
func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		return b.fail("Offset", "negative offset %d", n)
	}
	b.offset = &n
	return b
}

// Insert turns the builder into an INSERT of the given rows. The column set
// is the sorted key set of the first row; a later row with a different key
// set is rejected. Values may be bindable scalars, nil (rendered as NULL),
// raw expressions or sub-selects.
func (b *Builder) Insert(rows ...map[string]any) *Builder {
	b.stmt = stmtInsert
	return b.setRows("Insert", rows)
}

// Upsert turns the builder into an INSERT that updates the conflicting row
// on a duplicate key. The columns refreshed on conflict default to all
// insert columns; OnConflictUpdate narrows them.
func (b *Builder) Upsert(rows ...map[string]any) *Builder {
	b.stmt = stmtUpsert
	return b.setRows("Upsert", rows)
}

// OnConflictUpdate names the columns refreshed when an upsert hits an
// existing row. Each must be one of the insert columns.
func (b *Builder) OnConflictUpdate(cols ...string) *Builder {
	b.refresh = append(b.refresh, cols...)
	return b
}

func (b *Builder) setRows(op string, rows []map[string]any) *Builder {
	if len(rows) == 0 {
		return b.fail(op, "requires at least one row")
	}
	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return b.fail(op, "row 0 has no columns")
	}
	sort.Strings(cols)
	b.insertCols = cols
	b.insertRows = make([][]operand, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(cols) {
			return b.fail(op, "row %d has %d columns, want %d", i, len(row), len(cols))
		}
		vals := make([]operand, 0, len(cols))
		for _, c := range cols {
			v, ok := row[c]
			if !ok {
				return b.fail(op, "row %d is missing column %q", i, c)
			}
			o, err := b.toOperand(sectionInsert, v)
			if err != nil {
				return b.fail(op, "column %q: %s", c, err)
			}
			vals = append(vals, o)
		}
		b.insertRows = append(b.insertRows, vals)
	}
	return b
}

// Update turns the builder into an UPDATE setting the given column/value
// pairs. Columns are rendered in sorted order.
func (b *Builder) Update(values map[string]any) *Builder {
	b.stmt = stmtUpdate
	if len(values) == 0 {
		return b.fail("Update", "requires a non-empty column/value map")
	}
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	for _, c := range cols {
		o, err := b.toOperand(sectionUpdate, values[c])
		if err != nil {
			return b.fail("Update", "column %q: %s", c, err)
		}
		b.updates = append(b.updates, assign{col: c, val: o})
	}
	return b
}

// Delete turns the builder into a DELETE. When the target table carries an
// alias, the alias becomes the delete target.
func (b *Builder) Delete() *Builder {
	b.stmt = stmtDelete
	return b
}

// Union appends a UNION arm. q is a *Builder or a func(*Builder) and must
// describe a select statement.
func (b *Builder) Union(q any) *Builder {
	return b.union("Union", q, false)
}

// UnionAll appends a UNION ALL arm.
func (b *Builder) UnionAll(q any) *Builder {
	return b.union("UnionAll", q, true)
}

func (b *Builder) union(op string, q any, all bool) *Builder {
	sub, err := b.resolveQuery(q)
	if err != nil {
		return b.fail(op, "%s", err)
	}
	if sub.stmt != stmtSelect {
		return b.fail(op, "union target must be a select statement, got %s", sub.stmt)
	}
	b.unions = append(b.unions, unionClause{all: all, query: sub})
	return b
}

// With prepends a common table expression visible to the statement under
// the given name.
func (b *Builder) With(name string, q any) *Builder {
	return b.with("With", name, q, false)
}

// WithRecursive prepends a recursive common table expression.
func (b *Builder) WithRecursive(name string, q any) *Builder {
	return b.with("WithRecursive", name, q, true)
}

func (b *Builder) with(op, name string, q any, recursive bool) *Builder {
	if !isValidIdentifier(name) {
		return b.fail(op, "invalid expression name %q", name)
	}
	sub, err := b.resolveQuery(q)
	if err != nil {
		return b.fail(op, "%s", err)
	}
	if sub.stmt != stmtSelect {
		return b.fail(op, "expression body must be a select statement, got %s", sub.stmt)
	}
	b.ctes = append(b.ctes, cteClause{name: name, recursive: recursive, query: sub})
	return b
}

// ToSQL compiles the statement and returns the SQL text. It recompiles on
// every call, so the text always reflects the builder's current state;
// without intervening mutation the result is byte-identical.
func (b *Builder) ToSQL() (string, error) {
	s, args, err := b.grammar.Compile(b)
	if err != nil {
		return "", err
	}
	b.sql, b.args, b.compiled = s, args, true
	return s, nil
}

// Bindings returns the ordered parameter list matching the placeholders of
// the compiled SQL. It compiles the statement if ToSQL has not been called
// yet; otherwise it returns the bindings of the last compile.
func (b *Builder) Bindings() ([]any, error) {
	if !b.compiled {
		if _, err := b.ToSQL(); err != nil {
			return nil, err
		}
	}
	return b.args, nil
}

// Query compiles the statement and returns the SQL text with its ordered
// parameter list, ready for a positional-placeholder execution call.
func (b *Builder) Query() (string, []any, error) {
	s, err := b.ToSQL()
	if err != nil {
		return "", nil, err
	}
	return s, b.args, nil
}
