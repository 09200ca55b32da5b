package sql

import (
	"errors"
	"fmt"
)

// Join appends an INNER JOIN with its first ON condition comparing two
// columns. The table is a name (with optional "t alias" form) or a derived
// table passed as As(subquery, alias):
//
//	b.Table("orders o").Join("users u", "o.user_id", "=", "u.id")
func (b *Builder) Join(table any, left, op, right string) *Builder {
	return b.join("Join", "INNER", table, left, op, right)
}

// LeftJoin appends a LEFT JOIN with its first ON condition.
func (b *Builder) LeftJoin(table any, left, op, right string) *Builder {
	return b.join("LeftJoin", "LEFT", table, left, op, right)
}

// RightJoin appends a RIGHT JOIN with its first ON condition.
func (b *Builder) RightJoin(table any, left, op, right string) *Builder {
	return b.join("RightJoin", "RIGHT", table, left, op, right)
}

// CrossJoin appends a CROSS JOIN, which carries no ON condition.
func (b *Builder) CrossJoin(table any) *Builder {
	return b.join("CrossJoin", "CROSS", table, "", "", "")
}

func (b *Builder) join(op, kind string, table any, left, cop, right string) *Builder {
	ref, err := b.joinTable(table)
	if err != nil {
		return b.fail(op, "%s", err)
	}
	j := joinClause{kind: kind, table: ref}
	if left != "" {
		j.conds = append(j.conds, cond{
			typ:   condColumn,
			left:  columnOp(left),
			op:    cop,
			right: columnOp(right),
		})
	}
	b.joins = append(b.joins, j)
	return b
}

// joinTable resolves the joined table form. A derived table compiles now and
// flattens its bindings into the join section, keeping them in call order
// relative to OnValue bindings of neighboring joins.
func (b *Builder) joinTable(table any) (tableRef, error) {
	switch t := table.(type) {
	case string:
		if m := tableAliasRe.FindStringSubmatch(t); m != nil {
			return tableRef{name: m[1], alias: m[2]}, nil
		}
		return tableRef{name: t}, nil
	case Aliased:
		sub, err := b.resolveQuery(t.value)
		if err != nil {
			return tableRef{}, err
		}
		if t.alias == "" {
			return tableRef{}, errors.New("derived table requires an alias")
		}
		if _, err := b.attachSubquery(sectionJoin, sub); err != nil {
			return tableRef{}, err
		}
		return tableRef{alias: t.alias, query: sub}, nil
	case *Builder, func(*Builder):
		return tableRef{}, errors.New("derived table requires an alias, wrap it with As")
	default:
		return tableRef{}, fmt.Errorf("unsupported table type %T", table)
	}
}

// On appends an AND column condition to the most recently added join. It
// records a validation error when no join exists yet.
func (b *Builder) On(left, op, right string) *Builder {
	return b.on("On", left, op, right, false)
}

// OrOn appends an OR column condition to the most recently added join.
func (b *Builder) OrOn(left, op, right string) *Builder {
	return b.on("OrOn", left, op, right, true)
}

func (b *Builder) on(name, left, op, right string, or bool) *Builder {
	if len(b.joins) == 0 {
		return b.fail(name, "no join to attach the condition to")
	}
	j := &b.joins[len(b.joins)-1]
	j.conds = append(j.conds, cond{
		typ:   condColumn,
		left:  columnOp(left),
		op:    op,
		right: columnOp(right),
		or:    or,
	})
	return b
}

// OnValue appends an AND condition to the most recently added join comparing
// a column against a bound value, which lands in the join section of the
// binding list ahead of every where binding.
func (b *Builder) OnValue(col, op string, v any) *Builder {
	if len(b.joins) == 0 {
		return b.fail("OnValue", "no join to attach the condition to")
	}
	right, err := b.toOperand(sectionJoin, v)
	if err != nil {
		return b.fail("OnValue", "column %q: %s", col, err)
	}
	j := &b.joins[len(b.joins)-1]
	j.conds = append(j.conds, cond{
		typ:   condBasic,
		left:  columnOp(col),
		op:    op,
		right: right,
	})
	return b
}
