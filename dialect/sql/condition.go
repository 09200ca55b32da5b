package sql

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// condType enumerates the closed set of condition-node shapes. The grammar
// dispatches on it exhaustively; an unknown tag is a compile error, never a
// silently skipped clause.
type condType uint8

const (
	condBasic condType = iota // <left> <op> <right>
	condNested                // parenthesized group of child conditions
	condIn                    // <left> IN (list | subquery)
	condBetween               // <left> BETWEEN <lo> AND <hi>
	condExists                // EXISTS (subquery)
	condRaw                   // verbatim expression
	condColumn                // <left> <op> <right-column>
	condJSON                  // JSON_EXTRACT(<left>, <path>) <op> <right>
	condMatch                 // MATCH (<cols>) AGAINST (<right> <mode>)
)

// String returns the tag name used in error messages.
func (t condType) String() string {
	switch t {
	case condBasic:
		return "basic"
	case condNested:
		return "nested"
	case condIn:
		return "in"
	case condBetween:
		return "between"
	case condExists:
		return "exists"
	case condRaw:
		return "raw"
	case condColumn:
		return "column"
	case condJSON:
		return "json_extract"
	case condMatch:
		return "match_against"
	default:
		return fmt.Sprintf("condType(%d)", t)
	}
}

// operandKind enumerates the closed set of value positions a condition or a
// statement value may hold. A bound scalar is represented by opPlaceholder;
// the scalar itself lives in the owning section's binding list, appended in
// the same call that produced the operand.
type operandKind uint8

const (
	opNone        operandKind = iota
	opPlaceholder             // renders the dialect placeholder token
	opLiteral                 // nil renders NULL, bool renders 1/0
	opColumn                  // identifier, quoted by the dialect
	opExpr                    // raw expression, rendered verbatim
	opQuery                   // nested builder fragment
)

// operand is one rendered value slot in the statement tree.
type operand struct {
	kind  operandKind
	lit   any
	col   string
	expr  Expr
	query *Builder
}

func placeholderOp() operand     { return operand{kind: opPlaceholder} }
func literalOp(v any) operand    { return operand{kind: opLiteral, lit: v} }
func columnOp(c string) operand  { return operand{kind: opColumn, col: c} }
func exprOp(e Expr) operand      { return operand{kind: opExpr, expr: e} }
func queryOp(q *Builder) operand { return operand{kind: opQuery, query: q} }

// cond is a single node of a condition tree. Nodes are joined left to right;
// the or flag selects the joiner token written before the node when it is
// not first in its list. The not flag negates the rendered fragment.
type cond struct {
	typ    condType
	left   operand
	leftFn string // SQL function applied around the quoted left side (DATE, YEAR, ...)
	op     string
	right  operand
	list   []operand // condIn values, condBetween bounds
	path   string    // condJSON path, dot separated
	cols   []string  // condMatch columns
	mode   string    // condMatch modifier
	raw    Expr      // condRaw text
	or     bool
	not    bool
}

// section identifies the binding bucket a clause contributes to. The grammar
// merges each section exactly once, adjacent to its clause, so the merged
// list always matches left-to-right placeholder order.
type section uint8

const (
	sectionWhere section = iota
	sectionJoin
	sectionHaving
	sectionInsert
	sectionUpdate
	numSections
)

// toOperand converts a right-hand value into an operand, capturing bound
// scalars into the builder's binding list for the given section. It reports
// an error for value types the grammar has no rendering for.
func (b *Builder) toOperand(sec section, v any) (operand, error) {
	switch v := v.(type) {
	case nil:
		return literalOp(nil), nil
	case Expr:
		return exprOp(v), nil
	case *Builder:
		return b.attachSubquery(sec, v)
	case func(*Builder):
		sub := b.fork()
		v(sub)
		return b.attachSubquery(sec, sub)
	default:
		if !bindable(v) {
			return operand{}, fmt.Errorf("unsupported value type %T", v)
		}
		b.addBinding(sec, v)
		return placeholderOp(), nil
	}
}

// attachSubquery records a nested builder used in a condition value position.
// The child's bindings are flattened into the owning section now, in compile
// order, so they land between the section's surrounding scalars. Mutating the
// child after it has been attached desynchronizes text and bindings; callers
// own attached fragments exclusively.
func (b *Builder) attachSubquery(sec section, q *Builder) (operand, error) {
	args, err := q.Bindings()
	if err != nil {
		return operand{}, err
	}
	for _, a := range args {
		b.addBinding(sec, a)
	}
	return queryOp(q), nil
}

// attachGroup records a parenthesized condition group built by fn. Only the
// group's where list is rendered, so only its where bindings are flattened.
func (b *Builder) attachGroup(sec section, fn func(*Builder)) *Builder {
	sub := b.fork()
	fn(sub)
	b.errs = append(b.errs, sub.errs...)
	for _, a := range sub.bindings[sectionWhere] {
		b.addBinding(sec, a)
	}
	return sub
}

// bindable reports whether v can be passed to a prepared statement as a
// positional parameter. Slices (other than []byte) are rejected so that a
// misplaced list surfaces as an immediate error instead of a driver failure.
func bindable(v any) bool {
	switch v.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		[]byte, time.Time, driver.Valuer:
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return rv.Type().Elem().Kind() == reflect.Uint8
	default:
		return false
	}
}

// buildCondition normalizes one call of the condition-adding family into a
// cond node. A func(*Builder) left side becomes a nested group; a string or
// Expr left side with one trailing argument implies the "=" operator, and
// with two arguments names the operator explicitly.
func (b *Builder) buildCondition(sec section, left any, or, not bool, args ...any) (cond, error) {
	if fn, ok := left.(func(*Builder)); ok {
		if len(args) > 0 {
			return cond{}, errors.New("a condition group accepts no extra arguments")
		}
		sub := b.attachGroup(sec, fn)
		return cond{typ: condNested, left: queryOp(sub), or: or, not: not}, nil
	}
	lhs, err := b.leftOperand(sec, left)
	if err != nil {
		return cond{}, err
	}
	var op string
	var right operand
	switch len(args) {
	case 1:
		op = "="
		right, err = b.toOperand(sec, args[0])
	case 2:
		s, ok := args[0].(string)
		if !ok {
			return cond{}, fmt.Errorf("operator must be a string, got %T", args[0])
		}
		op = s
		right, err = b.toOperand(sec, args[1])
	default:
		return cond{}, fmt.Errorf("expected 1 or 2 arguments after the column, got %d", len(args))
	}
	if err != nil {
		return cond{}, err
	}
	return cond{typ: condBasic, left: lhs, op: op, right: right, or: or, not: not}, nil
}

// leftOperand converts the left side of a condition: a column identifier, a
// raw expression, or a sub-select compared as a value. A sub-select renders
// before the right side, so its bindings flatten into the section here.
func (b *Builder) leftOperand(sec section, left any) (operand, error) {
	switch left := left.(type) {
	case string:
		return columnOp(left), nil
	case Expr:
		return exprOp(left), nil
	case *Builder:
		return b.attachSubquery(sec, left)
	default:
		return operand{}, fmt.Errorf("unsupported column type %T", left)
	}
}
