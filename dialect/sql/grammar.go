package sql

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dialect abstracts the two syntax points where MySQL-style SQL dialects
// diverge: identifier quoting and the positional placeholder token.
// Everything else the Grammar renders is shared.
type Dialect interface {
	// Wrap quotes a single unqualified identifier. Qualified names and the
	// star selector are split and recombined by the grammar, so Wrap never
	// sees a dot.
	Wrap(ident string) string
	// Placeholder returns the token standing for one bound parameter.
	Placeholder() string
}

// UpsertDialect is implemented by dialects whose conflict clause differs
// from ON DUPLICATE KEY UPDATE. The grammar calls it with the unquoted
// refresh columns; the dialect quotes them with its own Wrap.
type UpsertDialect interface {
	Dialect
	UpsertSuffix(cols []string) string
}

// Grammar renders a Builder's statement tree into SQL text plus the merged,
// ordered binding list. The merged list is rebuilt on every Compile: each
// clause appends its section's bindings immediately adjacent to its own
// text, and structural fragments (derived tables, select subqueries, CTE
// bodies, union arms) splice their bindings at the point their text is
// rendered, so the list always matches left-to-right placeholder order.
//
// A Grammar accumulates state during a compile and is not safe for
// concurrent use. Nested fragments never reuse the parent's instance; they
// compile through a fresh Grammar of the same dialect.
type Grammar struct {
	d      Dialect
	merged []any
}

// NewGrammar returns a grammar rendering through the given dialect.
func NewGrammar(d Dialect) *Grammar {
	return &Grammar{d: d}
}

// Compile renders the builder's statement. It fails before rendering when
// the builder has recorded errors, so malformed input never produces
// partial SQL.
func (g *Grammar) Compile(b *Builder) (string, []any, error) {
	if err := b.Err(); err != nil {
		return "", nil, err
	}
	g.merged = g.merged[:0]
	var (
		query string
		err   error
	)
	switch b.stmt {
	case stmtSelect:
		query, err = g.compileSelect(b)
	case stmtInsert:
		query, err = g.compileInsert(b, false)
	case stmtUpsert:
		query, err = g.compileInsert(b, true)
	case stmtUpdate:
		query, err = g.compileUpdate(b)
	case stmtDelete:
		query, err = g.compileDelete(b)
	default:
		err = fmt.Errorf("unknown statement type %d", b.stmt)
	}
	if err != nil {
		return "", nil, NewCompileError(b.stmt.String(), err)
	}
	args := make([]any, len(g.merged))
	copy(args, g.merged)
	return query, args, nil
}

// mergeSection appends one clause section's bindings to the merged list.
// Each statement compiler calls it exactly once per section it renders.
func (g *Grammar) mergeSection(b *Builder, sec section) {
	g.merged = append(g.merged, b.bindings[sec]...)
}

// fragment compiles a nested builder through a fresh grammar and splices
// its bindings into the merged list at the current render point.
func (g *Grammar) fragment(q *Builder) (string, error) {
	query, args, err := NewGrammar(g.d).Compile(q)
	if err != nil {
		return "", err
	}
	g.merged = append(g.merged, args...)
	return query, nil
}

// fragmentSQL compiles a nested builder for its text only. Its bindings
// were flattened into the owning section when the fragment was attached, so
// splicing here would double them.
func (g *Grammar) fragmentSQL(q *Builder) (string, error) {
	query, _, err := NewGrammar(g.d).Compile(q)
	return query, err
}

func (g *Grammar) compileSelect(b *Builder) (string, error) {
	var segs []string
	with, err := g.compileWith(b)
	if err != nil {
		return "", err
	}
	if with != "" {
		segs = append(segs, with)
	}
	kw := "SELECT"
	if b.distinct {
		kw = "SELECT DISTINCT"
	}
	cols, err := g.selectColumns(b)
	if err != nil {
		return "", err
	}
	segs = append(segs, kw, cols)
	if b.table.name != "" || b.table.query != nil {
		from, err := g.tableSQL(b.table, true)
		if err != nil {
			return "", err
		}
		segs = append(segs, "FROM", from)
	}
	for i := range b.joins {
		join, err := g.joinSQL(&b.joins[i])
		if err != nil {
			return "", err
		}
		segs = append(segs, join)
	}
	g.mergeSection(b, sectionJoin)
	where, err := g.conditionList(b.wheres)
	if err != nil {
		return "", err
	}
	if where != "" {
		segs = append(segs, "WHERE", where)
	}
	g.mergeSection(b, sectionWhere)
	if len(b.groups) > 0 {
		cols := make([]string, len(b.groups))
		for i, c := range b.groups {
			cols[i] = g.wrapQualified(c)
		}
		segs = append(segs, "GROUP BY", strings.Join(cols, ", "))
	}
	having, err := g.conditionList(b.havings)
	if err != nil {
		return "", err
	}
	if having != "" {
		segs = append(segs, "HAVING", having)
	}
	g.mergeSection(b, sectionHaving)
	if order, err := g.orderSQL(b); err != nil {
		return "", err
	} else if order != "" {
		segs = append(segs, "ORDER BY", order)
	}
	if b.limit != nil {
		segs = append(segs, "LIMIT", strconv.Itoa(*b.limit))
	}
	if b.offset != nil {
		segs = append(segs, "OFFSET", strconv.Itoa(*b.offset))
	}
	for _, u := range b.unions {
		kw := "UNION"
		if u.all {
			kw = "UNION ALL"
		}
		arm, err := g.fragment(u.query)
		if err != nil {
			return "", err
		}
		segs = append(segs, kw, "("+arm+")")
	}
	return strings.Join(segs, " "), nil
}

func (g *Grammar) compileInsert(b *Builder, upsert bool) (string, error) {
	if len(b.ctes) > 0 {
		return "", fmt.Errorf("common table expressions cannot prefix an insert")
	}
	if b.table.name == "" {
		return "", ErrNoTable
	}
	if len(b.insertRows) == 0 {
		return "", ErrNoValues
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(g.wrapQualified(b.table.name))
	sb.WriteString(" (")
	for i, c := range b.insertCols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(g.d.Wrap(c))
	}
	sb.WriteString(") VALUES ")
	g.mergeSection(b, sectionInsert)
	for i, row := range b.insertRows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, o := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			v, err := g.operand(o)
			if err != nil {
				return "", err
			}
			sb.WriteString(v)
		}
		sb.WriteString(")")
	}
	if upsert {
		suffix, err := g.upsertSuffix(b)
		if err != nil {
			return "", err
		}
		sb.WriteString(" ")
		sb.WriteString(suffix)
	}
	return sb.String(), nil
}

// upsertSuffix renders the conflict clause. The refresh columns default to
// every insert column and must otherwise be a subset of them.
func (g *Grammar) upsertSuffix(b *Builder) (string, error) {
	cols := b.refresh
	if len(cols) == 0 {
		cols = b.insertCols
	} else {
		for _, c := range cols {
			i := sort.SearchStrings(b.insertCols, c)
			if i >= len(b.insertCols) || b.insertCols[i] != c {
				return "", fmt.Errorf("refresh column %q is not an insert column", c)
			}
		}
	}
	if d, ok := g.d.(UpsertDialect); ok {
		return d.UpsertSuffix(cols), nil
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		w := g.d.Wrap(c)
		parts[i] = w + " = VALUES(" + w + ")"
	}
	return "ON DUPLICATE KEY UPDATE " + strings.Join(parts, ", "), nil
}

func (g *Grammar) compileUpdate(b *Builder) (string, error) {
	var segs []string
	with, err := g.compileWith(b)
	if err != nil {
		return "", err
	}
	if with != "" {
		segs = append(segs, with)
	}
	if b.table.name == "" {
		return "", ErrNoTable
	}
	if len(b.updates) == 0 {
		return "", ErrNoValues
	}
	target, err := g.tableSQL(b.table, true)
	if err != nil {
		return "", err
	}
	segs = append(segs, "UPDATE", target)
	for i := range b.joins {
		join, err := g.joinSQL(&b.joins[i])
		if err != nil {
			return "", err
		}
		segs = append(segs, join)
	}
	g.mergeSection(b, sectionJoin)
	g.mergeSection(b, sectionUpdate)
	assigns := make([]string, len(b.updates))
	for i, a := range b.updates {
		v, err := g.operand(a.val)
		if err != nil {
			return "", err
		}
		assigns[i] = g.wrapQualified(a.col) + " = " + v
	}
	segs = append(segs, "SET", strings.Join(assigns, ", "))
	where, err := g.conditionList(b.wheres)
	if err != nil {
		return "", err
	}
	if where != "" {
		segs = append(segs, "WHERE", where)
	}
	g.mergeSection(b, sectionWhere)
	if order, err := g.orderSQL(b); err != nil {
		return "", err
	} else if order != "" {
		segs = append(segs, "ORDER BY", order)
	}
	if b.limit != nil {
		segs = append(segs, "LIMIT", strconv.Itoa(*b.limit))
	}
	return strings.Join(segs, " "), nil
}

func (g *Grammar) compileDelete(b *Builder) (string, error) {
	var segs []string
	with, err := g.compileWith(b)
	if err != nil {
		return "", err
	}
	if with != "" {
		segs = append(segs, with)
	}
	if b.table.name == "" {
		return "", ErrNoTable
	}
	target, err := g.tableSQL(b.table, true)
	if err != nil {
		return "", err
	}
	// With an aliased table the alias is the delete target, as MySQL
	// requires for multi-table form.
	if b.table.alias != "" {
		segs = append(segs, "DELETE", g.d.Wrap(b.table.alias), "FROM", target)
	} else {
		segs = append(segs, "DELETE FROM", target)
	}
	for i := range b.joins {
		join, err := g.joinSQL(&b.joins[i])
		if err != nil {
			return "", err
		}
		segs = append(segs, join)
	}
	g.mergeSection(b, sectionJoin)
	where, err := g.conditionList(b.wheres)
	if err != nil {
		return "", err
	}
	if where != "" {
		segs = append(segs, "WHERE", where)
	}
	g.mergeSection(b, sectionWhere)
	if order, err := g.orderSQL(b); err != nil {
		return "", err
	} else if order != "" {
		segs = append(segs, "ORDER BY", order)
	}
	if b.limit != nil {
		segs = append(segs, "LIMIT", strconv.Itoa(*b.limit))
	}
	return strings.Join(segs, " "), nil
}

func (g *Grammar) compileWith(b *Builder) (string, error) {
	if len(b.ctes) == 0 {
		return "", nil
	}
	recursive := false
	parts := make([]string, 0, len(b.ctes))
	for _, c := range b.ctes {
		if c.recursive {
			recursive = true
		}
		body, err := g.fragment(c.query)
		if err != nil {
			return "", err
		}
		parts = append(parts, g.d.Wrap(c.name)+" AS ("+body+")")
	}
	kw := "WITH "
	if recursive {
		kw = "WITH RECURSIVE "
	}
	return kw + strings.Join(parts, ", "), nil
}

func (g *Grammar) selectColumns(b *Builder) (string, error) {
	if len(b.columns) == 0 {
		return "*", nil
	}
	parts := make([]string, 0, len(b.columns))
	for _, c := range b.columns {
		var s string
		switch c.o.kind {
		case opColumn:
			s = g.wrapQualified(c.o.col)
		case opExpr:
			s = c.o.expr.String()
		case opQuery:
			body, err := g.fragment(c.o.query)
			if err != nil {
				return "", err
			}
			s = "(" + body + ")"
		default:
			return "", fmt.Errorf("unsupported select column operand %d", c.o.kind)
		}
		if c.alias != "" {
			s += " AS " + g.d.Wrap(c.alias)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}

// tableSQL renders a statement target or joined table. splice controls how
// a derived table's bindings reach the merged list: the FROM position
// splices at this render point, while joined derived tables were flattened
// into the join section at attach time and render text only.
func (g *Grammar) tableSQL(t tableRef, splice bool) (string, error) {
	if t.query != nil {
		var (
			body string
			err  error
		)
		if splice {
			body, err = g.fragment(t.query)
		} else {
			body, err = g.fragmentSQL(t.query)
		}
		if err != nil {
			return "", err
		}
		return "(" + body + ") AS " + g.d.Wrap(t.alias), nil
	}
	s := g.wrapQualified(t.name)
	if t.alias != "" {
		s += " AS " + g.d.Wrap(t.alias)
	}
	return s, nil
}

func (g *Grammar) joinSQL(j *joinClause) (string, error) {
	t, err := g.tableSQL(j.table, false)
	if err != nil {
		return "", err
	}
	s := j.kind + " JOIN " + t
	if len(j.conds) > 0 {
		on, err := g.conditionList(j.conds)
		if err != nil {
			return "", err
		}
		if on != "" {
			s += " ON " + on
		}
	}
	return s, nil
}

func (g *Grammar) orderSQL(b *Builder) (string, error) {
	if len(b.orders) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(b.orders))
	for _, o := range b.orders {
		var s string
		switch o.col.kind {
		case opColumn:
			s = g.wrapQualified(o.col.col)
		case opExpr:
			s = o.col.expr.String()
		default:
			return "", fmt.Errorf("unsupported order column operand %d", o.col.kind)
		}
		if o.desc {
			s += " DESC"
		} else {
			s += " ASC"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}

// conditionList renders a condition list, writing each node's joiner token
// before it except for the first rendered node. Nodes rendering to nothing
// (an empty nested group) are skipped entirely.
func (g *Grammar) conditionList(conds []cond) (string, error) {
	parts := make([]string, 0, len(conds))
	for i := range conds {
		s, err := g.condition(&conds[i])
		if err != nil {
			return "", err
		}
		if s == "" {
			continue
		}
		if len(parts) > 0 {
			if conds[i].or {
				s = "OR " + s
			} else {
				s = "AND " + s
			}
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

func (g *Grammar) condition(c *cond) (string, error) {
	switch c.typ {
	case condBasic:
		left, err := g.condLeft(c)
		if err != nil {
			return "", err
		}
		right, err := g.operand(c.right)
		if err != nil {
			return "", err
		}
		s := left + " " + c.op + " " + right
		if c.not {
			s = "NOT (" + s + ")"
		}
		return s, nil
	case condNested:
		inner, err := g.conditionList(c.left.query.wheres)
		if err != nil {
			return "", err
		}
		if inner == "" {
			return "", nil
		}
		s := "(" + inner + ")"
		if c.not {
			s = "NOT " + s
		}
		return s, nil
	case condIn:
		left, err := g.condLeft(c)
		if err != nil {
			return "", err
		}
		if c.right.kind == opQuery {
			sub, err := g.operand(c.right)
			if err != nil {
				return "", err
			}
			if c.not {
				return left + " NOT IN " + sub, nil
			}
			return left + " IN " + sub, nil
		}
		if len(c.list) == 0 {
			// Membership in the empty set is decidable without the
			// column: constant false, or constant true when negated.
			if c.not {
				return "1 = 1", nil
			}
			return "0 = 1", nil
		}
		vals := make([]string, len(c.list))
		for i, o := range c.list {
			v, err := g.operand(o)
			if err != nil {
				return "", err
			}
			vals[i] = v
		}
		op := " IN ("
		if c.not {
			op = " NOT IN ("
		}
		return left + op + strings.Join(vals, ", ") + ")", nil
	case condBetween:
		if len(c.list) != 2 {
			return "", fmt.Errorf("between requires exactly 2 bounds, got %d", len(c.list))
		}
		left, err := g.condLeft(c)
		if err != nil {
			return "", err
		}
		lo, err := g.operand(c.list[0])
		if err != nil {
			return "", err
		}
		hi, err := g.operand(c.list[1])
		if err != nil {
			return "", err
		}
		op := " BETWEEN "
		if c.not {
			op = " NOT BETWEEN "
		}
		return left + op + lo + " AND " + hi, nil
	case condExists:
		sub, err := g.operand(c.right)
		if err != nil {
			return "", err
		}
		if c.not {
			return "NOT EXISTS " + sub, nil
		}
		return "EXISTS " + sub, nil
	case condRaw:
		return c.raw.String(), nil
	case condColumn:
		left, err := g.condLeft(c)
		if err != nil {
			return "", err
		}
		right, err := g.operand(c.right)
		if err != nil {
			return "", err
		}
		s := left + " " + c.op + " " + right
		if c.not {
			s = "NOT (" + s + ")"
		}
		return s, nil
	case condJSON:
		left, err := g.operand(c.left)
		if err != nil {
			return "", err
		}
		right, err := g.operand(c.right)
		if err != nil {
			return "", err
		}
		s := "JSON_UNQUOTE(JSON_EXTRACT(" + left + ", " + jsonPathSQL(c.path) + ")) " + c.op + " " + right
		if c.not {
			s = "NOT (" + s + ")"
		}
		return s, nil
	case condMatch:
		cols := make([]string, len(c.cols))
		for i, col := range c.cols {
			cols[i] = g.wrapQualified(col)
		}
		right, err := g.operand(c.right)
		if err != nil {
			return "", err
		}
		s := "MATCH (" + strings.Join(cols, ", ") + ") AGAINST (" + right + matchModeSQL(c.mode) + ")"
		if c.not {
			s = "NOT (" + s + ")"
		}
		return s, nil
	default:
		return "", fmt.Errorf("unknown condition type %d", c.typ)
	}
}

// condLeft renders a condition's left side, applying the extraction
// function of the date-part helpers around the quoted operand.
func (g *Grammar) condLeft(c *cond) (string, error) {
	s, err := g.operand(c.left)
	if err != nil {
		return "", err
	}
	if c.leftFn != "" {
		s = c.leftFn + "(" + s + ")"
	}
	return s, nil
}

// operand renders one value slot in a condition or statement-value context.
// Nested builders render text only here: their bindings were flattened into
// the owning section at attach time.
func (g *Grammar) operand(o operand) (string, error) {
	switch o.kind {
	case opPlaceholder:
		return g.d.Placeholder(), nil
	case opLiteral:
		switch v := o.lit.(type) {
		case nil:
			return "NULL", nil
		case bool:
			if v {
				return "1", nil
			}
			return "0", nil
		default:
			return "", fmt.Errorf("unsupported literal type %T", o.lit)
		}
	case opColumn:
		return g.wrapQualified(o.col), nil
	case opExpr:
		return o.expr.String(), nil
	case opQuery:
		body, err := g.fragmentSQL(o.query)
		if err != nil {
			return "", err
		}
		return "(" + body + ")", nil
	default:
		return "", fmt.Errorf("empty operand")
	}
}

// wrapQualified quotes a possibly dot-qualified identifier, leaving star
// segments bare, so "u.*" becomes `u`.* under MySQL quoting.
func (g *Grammar) wrapQualified(ident string) string {
	if ident == "*" {
		return ident
	}
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = g.d.Wrap(p)
	}
	return strings.Join(parts, ".")
}

// jsonPathSQL renders a dot-separated member path as a MySQL JSON path
// string literal: plan.tier becomes '$."plan"."tier"'. Quotes inside
// segments are escaped for both the JSON path and the SQL literal.
func jsonPathSQL(path string) string {
	var sb strings.Builder
	sb.WriteString("'$")
	for _, seg := range strings.Split(path, ".") {
		sb.WriteString(`."`)
		sb.WriteString(jsonPathEscaper.Replace(seg))
		sb.WriteString(`"`)
	}
	sb.WriteString("'")
	return sb.String()
}

var jsonPathEscaper = strings.NewReplacer(`"`, `\"`, `'`, `''`, `\`, `\\`)

// matchModeSQL maps a full-text mode to its AGAINST modifier.
func matchModeSQL(mode string) string {
	switch mode {
	case MatchBoolean:
		return " IN BOOLEAN MODE"
	case MatchExpansion:
		return " IN NATURAL LANGUAGE MODE WITH QUERY EXPANSION"
	default:
		return " IN NATURAL LANGUAGE MODE"
	}
}
