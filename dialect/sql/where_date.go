package sql

// The date-part helpers compare one extracted component of a date or
// datetime column. Each lowers to a basic condition whose left side is the
// quoted column wrapped in the extraction function, so DATE/YEAR/MONTH/DAY
// share the rendering path of every other comparison.

// WhereDate compares the DATE() part of the column. One trailing argument
// implies "="; two name the operator and the value.
func (b *Builder) WhereDate(col string, args ...any) *Builder {
	return b.whereDatePart("WhereDate", "DATE", col, false, args...)
}

// OrWhereDate is WhereDate with an OR joiner.
func (b *Builder) OrWhereDate(col string, args ...any) *Builder {
	return b.whereDatePart("OrWhereDate", "DATE", col, true, args...)
}

// WhereYear compares the YEAR() part of the column.
func (b *Builder) WhereYear(col string, args ...any) *Builder {
	return b.whereDatePart("WhereYear", "YEAR", col, false, args...)
}

// OrWhereYear is WhereYear with an OR joiner.
func (b *Builder) OrWhereYear(col string, args ...any) *Builder {
	return b.whereDatePart("OrWhereYear", "YEAR", col, true, args...)
}

// WhereMonth compares the MONTH() part of the column.
func (b *Builder) WhereMonth(col string, args ...any) *Builder {
	return b.whereDatePart("WhereMonth", "MONTH", col, false, args...)
}

// OrWhereMonth is WhereMonth with an OR joiner.
func (b *Builder) OrWhereMonth(col string, args ...any) *Builder {
	return b.whereDatePart("OrWhereMonth", "MONTH", col, true, args...)
}

// WhereDay compares the DAY() part of the column.
func (b *Builder) WhereDay(col string, args ...any) *Builder {
	return b.whereDatePart("WhereDay", "DAY", col, false, args...)
}

// OrWhereDay is WhereDay with an OR joiner.
func (b *Builder) OrWhereDay(col string, args ...any) *Builder {
	return b.whereDatePart("OrWhereDay", "DAY", col, true, args...)
}

func (b *Builder) whereDatePart(op, fn, col string, or bool, args ...any) *Builder {
	c, err := b.buildCondition(sectionWhere, col, or, false, args...)
	if err != nil {
		return b.fail(op, "column %q: %s", col, err)
	}
	c.leftFn = fn
	b.wheres = append(b.wheres, c)
	return b
}
