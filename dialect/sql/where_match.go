package sql

// Full-text search modes accepted by WhereFullText.
const (
	MatchNatural   = "natural"   // IN NATURAL LANGUAGE MODE (the default)
	MatchBoolean   = "boolean"   // IN BOOLEAN MODE
	MatchExpansion = "expansion" // IN NATURAL LANGUAGE MODE WITH QUERY EXPANSION
)

// WhereFullText appends an AND full-text condition matching the given
// columns against the bound search term:
//
//	b.WhereFullText([]string{"title", "body"}, "quick brown fox")
//	// MATCH (`title`, `body`) AGAINST (? IN NATURAL LANGUAGE MODE)
//
// An optional trailing mode selects the search modifier.
func (b *Builder) WhereFullText(cols []string, value string, mode ...string) *Builder {
	return b.whereFullText("WhereFullText", cols, value, false, mode)
}

// OrWhereFullText is WhereFullText with an OR joiner.
func (b *Builder) OrWhereFullText(cols []string, value string, mode ...string) *Builder {
	return b.whereFullText("OrWhereFullText", cols, value, true, mode)
}

func (b *Builder) whereFullText(op string, cols []string, value string, or bool, mode []string) *Builder {
	if len(cols) == 0 {
		return b.fail(op, "requires at least one column")
	}
	m := MatchNatural
	if len(mode) > 0 && mode[0] != "" {
		switch mode[0] {
		case MatchNatural, MatchBoolean, MatchExpansion:
			m = mode[0]
		default:
			return b.fail(op, "invalid mode %q", mode[0])
		}
	}
	b.addBinding(sectionWhere, value)
	b.wheres = append(b.wheres, cond{
		typ:   condMatch,
		cols:  append([]string(nil), cols...),
		right: placeholderOp(),
		mode:  m,
		or:    or,
	})
	return b
}
