package sql

// Having appends an AND condition on the grouped result. It shares the
// condition core with Where, so the left side may be a column, an Expr
// aggregate, or a func(*Builder) group, and the right side a bound value:
//
//	b.GroupBy("user_id").Having(sql.Raw("COUNT(*)"), ">", 10)
func (b *Builder) Having(left any, args ...any) *Builder {
	return b.havingCond("Having", left, false, args...)
}

// OrHaving appends an OR condition on the grouped result.
func (b *Builder) OrHaving(left any, args ...any) *Builder {
	return b.havingCond("OrHaving", left, true, args...)
}

func (b *Builder) havingCond(op string, left any, or bool, args ...any) *Builder {
	c, err := b.buildCondition(sectionHaving, left, or, false, args...)
	if err != nil {
		return b.fail(op, "%s", err)
	}
	b.havings = append(b.havings, c)
	return b
}

// HavingRaw appends a verbatim SQL fragment as an AND having condition, with
// its placeholder values bound in order.
func (b *Builder) HavingRaw(expr string, args ...any) *Builder {
	return b.havingRaw("HavingRaw", expr, false, args...)
}

// OrHavingRaw appends a verbatim SQL fragment as an OR having condition.
func (b *Builder) OrHavingRaw(expr string, args ...any) *Builder {
	return b.havingRaw("OrHavingRaw", expr, true, args...)
}

func (b *Builder) havingRaw(op, expr string, or bool, args ...any) *Builder {
	for _, a := range args {
		if !bindable(a) {
			return b.fail(op, "unsupported value type %T", a)
		}
		b.addBinding(sectionHaving, a)
	}
	b.havings = append(b.havings, cond{typ: condRaw, raw: Raw(expr), or: or})
	return b
}
