package sql

import "reflect"

// WhereIn appends an AND condition requiring the column to match one of the
// given values. A single *Builder or func(*Builder) argument turns the list
// into a subquery target; a single slice argument is expanded element-wise.
// An empty list compiles to the always-false predicate 0 = 1.
func (b *Builder) WhereIn(col string, vals ...any) *Builder {
	return b.whereIn("WhereIn", col, false, false, vals)
}

// OrWhereIn appends an OR membership condition.
func (b *Builder) OrWhereIn(col string, vals ...any) *Builder {
	return b.whereIn("OrWhereIn", col, true, false, vals)
}

// WhereNotIn appends an AND exclusion condition. An empty list compiles to
// the always-true predicate 1 = 1.
func (b *Builder) WhereNotIn(col string, vals ...any) *Builder {
	return b.whereIn("WhereNotIn", col, false, true, vals)
}

// OrWhereNotIn appends an OR exclusion condition.
func (b *Builder) OrWhereNotIn(col string, vals ...any) *Builder {
	return b.whereIn("OrWhereNotIn", col, true, true, vals)
}

func (b *Builder) whereIn(op, col string, or, not bool, vals []any) *Builder {
	c := cond{typ: condIn, left: columnOp(col), or: or, not: not}
	if len(vals) == 1 {
		switch v := vals[0].(type) {
		case *Builder, func(*Builder):
			right, err := b.toOperand(sectionWhere, v)
			if err != nil {
				return b.fail(op, "column %q: %s", col, err)
			}
			c.right = right
			b.wheres = append(b.wheres, c)
			return b
		default:
			vals = expandSlice(vals)
		}
	}
	for _, v := range vals {
		o, err := b.toOperand(sectionWhere, v)
		if err != nil {
			return b.fail(op, "column %q: %s", col, err)
		}
		c.list = append(c.list, o)
	}
	b.wheres = append(b.wheres, c)
	return b
}

// expandSlice flattens a single non-[]byte slice or array argument into its
// elements, so callers holding a concrete []int or []string need not convert.
func expandSlice(vals []any) []any {
	if len(vals) != 1 {
		return vals
	}
	rv := reflect.ValueOf(vals[0])
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return vals
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	default:
		return vals
	}
}
