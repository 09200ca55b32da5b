package sql

import (
	"cmp"
	"time"
)

// Predicate is a reusable condition fragment: a function that adds
// conditions to the builder it runs against. The alias form keeps a
// Predicate assignable anywhere the builder accepts a condition group, so
// predicates pass directly to Where and compose with And, Or and Not:
//
//	paying := sql.And(
//		sql.BoolColumn("active").IsTrue(),
//		sql.StringColumn("plan").In("pro", "team"),
//	)
//	b := sql.New().Table("users").Where(paying)
type Predicate = func(*Builder)

// And combines predicates so that all of them must hold. Each predicate
// renders as its own parenthesized group; predicates that add no conditions
// drop out of the rendered clause.
func And(preds ...Predicate) Predicate {
	return func(b *Builder) {
		for _, p := range preds {
			b.Where(p)
		}
	}
}

// Or combines predicates so that at least one of them must hold.
func Or(preds ...Predicate) Predicate {
	return func(b *Builder) {
		for i, p := range preds {
			if i == 0 {
				b.Where(p)
			} else {
				b.OrWhere(p)
			}
		}
	}
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(b *Builder) {
		b.WhereNot(p)
	}
}

func condPred(col, op string, v any) Predicate {
	return func(b *Builder) { b.Where(col, op, v) }
}

func inPred(col string, not bool, vals []any) Predicate {
	return func(b *Builder) {
		if not {
			b.WhereNotIn(col, vals...)
		} else {
			b.WhereIn(col, vals...)
		}
	}
}

func nullPred(col string, not bool) Predicate {
	return func(b *Builder) {
		if not {
			b.WhereNotNull(col)
		} else {
			b.WhereNull(col)
		}
	}
}

// anyValues widens a typed argument list for the variadic condition methods.
func anyValues[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = vs[i]
	}
	return out
}

// OrderedColumn is a column whose Go type orders: integers, floats or
// strings. One generic definition carries the comparison predicates for all
// of them; the named instantiations below cover the common numeric types.
type OrderedColumn[T cmp.Ordered] string

// Name returns the column name for use in column positions.
func (c OrderedColumn[T]) Name() string { return string(c) }

func (c OrderedColumn[T]) EQ(v T) Predicate  { return condPred(string(c), "=", v) }
func (c OrderedColumn[T]) NEQ(v T) Predicate { return condPred(string(c), "<>", v) }
func (c OrderedColumn[T]) GT(v T) Predicate  { return condPred(string(c), ">", v) }
func (c OrderedColumn[T]) GTE(v T) Predicate { return condPred(string(c), ">=", v) }
func (c OrderedColumn[T]) LT(v T) Predicate  { return condPred(string(c), "<", v) }
func (c OrderedColumn[T]) LTE(v T) Predicate { return condPred(string(c), "<=", v) }

// In matches when the column equals one of vs. Given no values it compiles
// to the constant-false guard, like WhereIn.
func (c OrderedColumn[T]) In(vs ...T) Predicate { return inPred(string(c), false, anyValues(vs)) }

// NotIn matches when the column differs from every listed value.
func (c OrderedColumn[T]) NotIn(vs ...T) Predicate { return inPred(string(c), true, anyValues(vs)) }

// Between matches when the column lies in the inclusive range [lo, hi].
func (c OrderedColumn[T]) Between(lo, hi T) Predicate {
	return func(b *Builder) { b.WhereBetween(string(c), lo, hi) }
}

func (c OrderedColumn[T]) IsNull() Predicate  { return nullPred(string(c), false) }
func (c OrderedColumn[T]) NotNull() Predicate { return nullPred(string(c), true) }

// Named instantiations for the common numeric column types.
type (
	IntColumn     = OrderedColumn[int]
	Int64Column   = OrderedColumn[int64]
	Float64Column = OrderedColumn[float64]
)

// StringColumn is a column holding text. Beyond equality and membership it
// carries the LIKE-based substring predicates; their patterns are bound as
// parameters, and LIKE wildcards inside the argument are not escaped.
type StringColumn string

// Name returns the column name for use in column positions.
func (c StringColumn) Name() string { return string(c) }

func (c StringColumn) EQ(v string) Predicate  { return condPred(string(c), "=", v) }
func (c StringColumn) NEQ(v string) Predicate { return condPred(string(c), "<>", v) }

// In matches when the column equals one of vs.
func (c StringColumn) In(vs ...string) Predicate { return inPred(string(c), false, anyValues(vs)) }

// NotIn matches when the column differs from every listed value.
func (c StringColumn) NotIn(vs ...string) Predicate { return inPred(string(c), true, anyValues(vs)) }

// Contains matches when the column contains v as a substring.
func (c StringColumn) Contains(v string) Predicate {
	return condPred(string(c), "LIKE", "%"+v+"%")
}

// HasPrefix matches when the column starts with v.
func (c StringColumn) HasPrefix(v string) Predicate {
	return condPred(string(c), "LIKE", v+"%")
}

// HasSuffix matches when the column ends with v.
func (c StringColumn) HasSuffix(v string) Predicate {
	return condPred(string(c), "LIKE", "%"+v)
}

func (c StringColumn) IsNull() Predicate  { return nullPred(string(c), false) }
func (c StringColumn) NotNull() Predicate { return nullPred(string(c), true) }

// BoolColumn is a column holding a boolean flag.
type BoolColumn string

// Name returns the column name for use in column positions.
func (c BoolColumn) Name() string { return string(c) }

func (c BoolColumn) EQ(v bool) Predicate { return condPred(string(c), "=", v) }
func (c BoolColumn) IsTrue() Predicate   { return c.EQ(true) }
func (c BoolColumn) IsFalse() Predicate  { return c.EQ(false) }
func (c BoolColumn) IsNull() Predicate   { return nullPred(string(c), false) }
func (c BoolColumn) NotNull() Predicate  { return nullPred(string(c), true) }

// TimeColumn is a column holding a timestamp.
type TimeColumn string

// Name returns the column name for use in column positions.
func (c TimeColumn) Name() string { return string(c) }

func (c TimeColumn) EQ(v time.Time) Predicate  { return condPred(string(c), "=", v) }
func (c TimeColumn) NEQ(v time.Time) Predicate { return condPred(string(c), "<>", v) }

// Before matches timestamps strictly earlier than v.
func (c TimeColumn) Before(v time.Time) Predicate { return condPred(string(c), "<", v) }

// After matches timestamps strictly later than v.
func (c TimeColumn) After(v time.Time) Predicate { return condPred(string(c), ">", v) }

// Between matches timestamps in the inclusive range [lo, hi].
func (c TimeColumn) Between(lo, hi time.Time) Predicate {
	return func(b *Builder) { b.WhereBetween(string(c), lo, hi) }
}

func (c TimeColumn) IsNull() Predicate  { return nullPred(string(c), false) }
func (c TimeColumn) NotNull() Predicate { return nullPred(string(c), true) }

// TypedColumn is a column of any other bindable Go type, such as uuid.UUID
// or a string-backed enum. Values are validated by the builder when the
// predicate runs, so an unbindable type surfaces as a validation error on
// the owning statement.
type TypedColumn[T any] string

// Name returns the column name for use in column positions.
func (c TypedColumn[T]) Name() string { return string(c) }

func (c TypedColumn[T]) EQ(v T) Predicate  { return condPred(string(c), "=", v) }
func (c TypedColumn[T]) NEQ(v T) Predicate { return condPred(string(c), "<>", v) }

// In matches when the column equals one of vs.
func (c TypedColumn[T]) In(vs ...T) Predicate { return inPred(string(c), false, anyValues(vs)) }

// NotIn matches when the column differs from every listed value.
func (c TypedColumn[T]) NotIn(vs ...T) Predicate { return inPred(string(c), true, anyValues(vs)) }

func (c TypedColumn[T]) IsNull() Predicate  { return nullPred(string(c), false) }
func (c TypedColumn[T]) NotNull() Predicate { return nullPred(string(c), true) }
