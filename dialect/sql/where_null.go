package sql

// WhereNull appends an AND condition requiring the column to be NULL.
func (b *Builder) WhereNull(col string) *Builder {
	return b.whereNull(col, false, false)
}

// OrWhereNull appends an OR condition requiring the column to be NULL.
func (b *Builder) OrWhereNull(col string) *Builder {
	return b.whereNull(col, true, false)
}

// WhereNotNull appends an AND condition requiring the column to be non-NULL.
func (b *Builder) WhereNotNull(col string) *Builder {
	return b.whereNull(col, false, true)
}

// OrWhereNotNull appends an OR condition requiring the column to be non-NULL.
func (b *Builder) OrWhereNotNull(col string) *Builder {
	return b.whereNull(col, true, true)
}

// whereNull lowers the null checks onto the basic condition shape: the
// operator carries the negation (IS vs IS NOT) and the right side is the
// NULL literal, so the grammar needs no dedicated null node.
func (b *Builder) whereNull(col string, or, not bool) *Builder {
	op := "IS"
	if not {
		op = "IS NOT"
	}
	b.wheres = append(b.wheres, cond{
		typ:   condBasic,
		left:  columnOp(col),
		op:    op,
		right: literalOp(nil),
		or:    or,
	})
	return b
}
