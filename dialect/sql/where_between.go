package sql

// WhereBetween appends an AND range condition. It accepts the two bounds
// directly or as a single slice, and records a validation error for any
// other arity; a malformed range never compiles to partial SQL.
func (b *Builder) WhereBetween(col string, bounds ...any) *Builder {
	return b.whereBetween("WhereBetween", col, false, false, bounds)
}

// OrWhereBetween appends an OR range condition.
func (b *Builder) OrWhereBetween(col string, bounds ...any) *Builder {
	return b.whereBetween("OrWhereBetween", col, true, false, bounds)
}

// WhereNotBetween appends an AND condition excluding the range.
func (b *Builder) WhereNotBetween(col string, bounds ...any) *Builder {
	return b.whereBetween("WhereNotBetween", col, false, true, bounds)
}

// OrWhereNotBetween appends an OR condition excluding the range.
func (b *Builder) OrWhereNotBetween(col string, bounds ...any) *Builder {
	return b.whereBetween("OrWhereNotBetween", col, true, true, bounds)
}

func (b *Builder) whereBetween(op, col string, or, not bool, bounds []any) *Builder {
	bounds = expandSlice(bounds)
	if len(bounds) != 2 {
		return b.fail(op, "column %q: expected exactly 2 bounds, got %d", col, len(bounds))
	}
	c := cond{typ: condBetween, left: columnOp(col), or: or, not: not}
	for _, v := range bounds {
		o, err := b.toOperand(sectionWhere, v)
		if err != nil {
			return b.fail(op, "column %q: %s", col, err)
		}
		c.list = append(c.list, o)
	}
	b.wheres = append(b.wheres, c)
	return b
}
