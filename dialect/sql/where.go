package sql

// whereCond builds one condition node and appends it to the where list,
// recording a validation error on malformed input.
func (b *Builder) whereCond(op string, left any, or, not bool, args ...any) *Builder {
	c, err := b.buildCondition(sectionWhere, left, or, not, args...)
	if err != nil {
		return b.fail(op, "%s", err)
	}
	b.wheres = append(b.wheres, c)
	return b
}

// Where appends an AND condition. With one trailing argument the operator is
// "="; with two, the first names the operator and the second is the value.
// A func(*Builder) left side opens a parenthesized condition group:
//
//	b.Where("active", true).
//		Where(func(b *sql.Builder) {
//			b.Where("role", "admin").OrWhere("role", "owner")
//		})
func (b *Builder) Where(left any, args ...any) *Builder {
	return b.whereCond("Where", left, false, false, args...)
}

// OrWhere appends an OR condition.
func (b *Builder) OrWhere(left any, args ...any) *Builder {
	return b.whereCond("OrWhere", left, true, false, args...)
}

// WhereNot appends a negated AND condition.
func (b *Builder) WhereNot(left any, args ...any) *Builder {
	return b.whereCond("WhereNot", left, false, true, args...)
}

// OrWhereNot appends a negated OR condition.
func (b *Builder) OrWhereNot(left any, args ...any) *Builder {
	return b.whereCond("OrWhereNot", left, true, true, args...)
}

// WhereColumn appends an AND condition comparing two columns.
func (b *Builder) WhereColumn(left, op, right string) *Builder {
	return b.whereColumn(left, op, right, false)
}

// OrWhereColumn appends an OR condition comparing two columns.
func (b *Builder) OrWhereColumn(left, op, right string) *Builder {
	return b.whereColumn(left, op, right, true)
}

func (b *Builder) whereColumn(left, op, right string, or bool) *Builder {
	b.wheres = append(b.wheres, cond{
		typ:   condColumn,
		left:  columnOp(left),
		op:    op,
		right: columnOp(right),
		or:    or,
	})
	return b
}

// WhereRaw appends a verbatim SQL fragment as an AND condition. The args are
// bound in order for the placeholders the fragment carries.
func (b *Builder) WhereRaw(expr string, args ...any) *Builder {
	return b.whereRaw("WhereRaw", expr, false, args...)
}

// OrWhereRaw appends a verbatim SQL fragment as an OR condition.
func (b *Builder) OrWhereRaw(expr string, args ...any) *Builder {
	return b.whereRaw("OrWhereRaw", expr, true, args...)
}

func (b *Builder) whereRaw(op, expr string, or bool, args ...any) *Builder {
	for _, a := range args {
		if !bindable(a) {
			return b.fail(op, "unsupported value type %T", a)
		}
		b.addBinding(sectionWhere, a)
	}
	b.wheres = append(b.wheres, cond{typ: condRaw, raw: Raw(expr), or: or})
	return b
}
