package sql

// WhereJSON appends an AND condition comparing a value extracted from a JSON
// column. The path is dot separated and addresses object members:
//
//	b.WhereJSON("meta", "plan.tier", "pro")
//	// JSON_UNQUOTE(JSON_EXTRACT(`meta`, '$."plan"."tier"')) = ?
//
// One trailing argument implies "="; two name the operator and the value.
func (b *Builder) WhereJSON(col, path string, args ...any) *Builder {
	return b.whereJSON("WhereJSON", col, path, false, args...)
}

// OrWhereJSON is WhereJSON with an OR joiner.
func (b *Builder) OrWhereJSON(col, path string, args ...any) *Builder {
	return b.whereJSON("OrWhereJSON", col, path, true, args...)
}

func (b *Builder) whereJSON(op, col, path string, or bool, args ...any) *Builder {
	if path == "" {
		return b.fail(op, "column %q: empty path", col)
	}
	c, err := b.buildCondition(sectionWhere, col, or, false, args...)
	if err != nil {
		return b.fail(op, "column %q: %s", col, err)
	}
	c.typ = condJSON
	c.path = path
	b.wheres = append(b.wheres, c)
	return b
}
