package sql

// WhereExists appends an AND condition requiring the subquery to return at
// least one row. q is a *Builder or a func(*Builder).
func (b *Builder) WhereExists(q any) *Builder {
	return b.whereExists("WhereExists", q, false, false)
}

// OrWhereExists appends an OR existence condition.
func (b *Builder) OrWhereExists(q any) *Builder {
	return b.whereExists("OrWhereExists", q, true, false)
}

// WhereNotExists appends an AND condition requiring the subquery to return
// no rows.
func (b *Builder) WhereNotExists(q any) *Builder {
	return b.whereExists("WhereNotExists", q, false, true)
}

// OrWhereNotExists appends an OR non-existence condition.
func (b *Builder) OrWhereNotExists(q any) *Builder {
	return b.whereExists("OrWhereNotExists", q, true, true)
}

func (b *Builder) whereExists(op string, q any, or, not bool) *Builder {
	sub, err := b.resolveQuery(q)
	if err != nil {
		return b.fail(op, "%s", err)
	}
	right, err := b.attachSubquery(sectionWhere, sub)
	if err != nil {
		return b.fail(op, "%s", err)
	}
	b.wheres = append(b.wheres, cond{typ: condExists, right: right, or: or, not: not})
	return b
}
