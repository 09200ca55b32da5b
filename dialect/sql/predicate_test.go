package sql

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPredicateCombinators tests composing reusable predicates with And, Or
// and Not and applying them through Where.
func TestPredicateCombinators(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		sql  string
		args []any
	}{
		{
			name: "single_predicate",
			b:    New().Table("users").Where(BoolColumn("active").IsTrue()),
			sql:  "SELECT * FROM `users` WHERE (`active` = ?)",
			args: []any{true},
		},
		{
			name: "and",
			b: New().Table("users").Where(And(
				BoolColumn("active").IsTrue(),
				StringColumn("plan").In("pro", "team"),
			)),
			sql:  "SELECT * FROM `users` WHERE ((`active` = ?) AND (`plan` IN (?, ?)))",
			args: []any{true, "pro", "team"},
		},
		{
			name: "or",
			b: New().Table("accounts").Where(Or(
				IntColumn("strikes").GTE(3),
				StringColumn("state").EQ("suspended"),
			)),
			sql:  "SELECT * FROM `accounts` WHERE ((`strikes` >= ?) OR (`state` = ?))",
			args: []any{3, "suspended"},
		},
		{
			name: "not",
			b: New().Table("accounts").Where(Not(Or(
				IntColumn("strikes").GTE(3),
				StringColumn("state").EQ("suspended"),
			))),
			sql:  "SELECT * FROM `accounts` WHERE (NOT ((`strikes` >= ?) OR (`state` = ?)))",
			args: []any{3, "suspended"},
		},
		{
			name: "mixed_with_plain_conditions",
			b: New().Table("users").
				Where("tenant_id", 7).
				Where(Or(
					StringColumn("role").EQ("admin"),
					BoolColumn("owner").IsTrue(),
				)),
			sql:  "SELECT * FROM `users` WHERE `tenant_id` = ? AND ((`role` = ?) OR (`owner` = ?))",
			args: []any{7, "admin", true},
		},
		{
			name: "empty_and_drops_out",
			b:    New().Table("users").Where(And()),
			sql:  "SELECT * FROM `users`",
		},
		{
			name: "empty_or_keeps_neighbors",
			b:    New().Table("users").Where("id", 1).Where(Or()),
			sql:  "SELECT * FROM `users` WHERE `id` = ?",
			args: []any{1},
		},
		{
			name: "empty_in_arm_renders_guard",
			b: New().Table("users").Where(Or(
				StringColumn("plan").In(),
				BoolColumn("trial").IsTrue(),
			)),
			sql:  "SELECT * FROM `users` WHERE ((0 = 1) OR (`trial` = ?))",
			args: []any{true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.b.Query()
			require.NoError(t, err)
			assert.Equal(t, tt.sql, query)
			if len(tt.args) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

// TestTypedColumns tests the predicate methods of each typed column.
func TestTypedColumns(t *testing.T) {
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	key := uuid.MustParse("2b8075f9-4006-4bd5-a035-d10ff46a5f4e")

	tests := []struct {
		name string
		pred Predicate
		sql  string
		args []any
	}{
		{
			name: "ordered_comparisons",
			pred: And(IntColumn("age").GT(21), IntColumn("age").LTE(65)),
			sql:  "SELECT * FROM `t` WHERE ((`age` > ?) AND (`age` <= ?))",
			args: []any{21, 65},
		},
		{
			name: "ordered_between",
			pred: Float64Column("score").Between(0.5, 0.9),
			sql:  "SELECT * FROM `t` WHERE (`score` BETWEEN ? AND ?)",
			args: []any{0.5, 0.9},
		},
		{
			name: "ordered_not_in",
			pred: Int64Column("shard").NotIn(3, 7),
			sql:  "SELECT * FROM `t` WHERE (`shard` NOT IN (?, ?))",
			args: []any{int64(3), int64(7)},
		},
		{
			name: "ordered_string_instantiation",
			pred: OrderedColumn[string]("name").LT("m"),
			sql:  "SELECT * FROM `t` WHERE (`name` < ?)",
			args: []any{"m"},
		},
		{
			name: "string_contains",
			pred: StringColumn("name").Contains("adm"),
			sql:  "SELECT * FROM `t` WHERE (`name` LIKE ?)",
			args: []any{"%adm%"},
		},
		{
			name: "string_has_prefix",
			pred: StringColumn("host").HasPrefix("db-"),
			sql:  "SELECT * FROM `t` WHERE (`host` LIKE ?)",
			args: []any{"db-%"},
		},
		{
			name: "string_has_suffix",
			pred: StringColumn("email").HasSuffix("@corp.test"),
			sql:  "SELECT * FROM `t` WHERE (`email` LIKE ?)",
			args: []any{"%@corp.test"},
		},
		{
			name: "string_neq",
			pred: StringColumn("state").NEQ("banned"),
			sql:  "SELECT * FROM `t` WHERE (`state` <> ?)",
			args: []any{"banned"},
		},
		{
			name: "bool_is_false",
			pred: BoolColumn("verified").IsFalse(),
			sql:  "SELECT * FROM `t` WHERE (`verified` = ?)",
			args: []any{false},
		},
		{
			name: "time_before",
			pred: TimeColumn("created_at").Before(ts),
			sql:  "SELECT * FROM `t` WHERE (`created_at` < ?)",
			args: []any{ts},
		},
		{
			name: "time_between",
			pred: TimeColumn("created_at").Between(ts, ts.Add(24*time.Hour)),
			sql:  "SELECT * FROM `t` WHERE (`created_at` BETWEEN ? AND ?)",
			args: []any{ts, ts.Add(24 * time.Hour)},
		},
		{
			name: "time_is_null",
			pred: TimeColumn("deleted_at").IsNull(),
			sql:  "SELECT * FROM `t` WHERE (`deleted_at` IS NULL)",
		},
		{
			name: "typed_uuid_eq",
			pred: TypedColumn[uuid.UUID]("id").EQ(key),
			sql:  "SELECT * FROM `t` WHERE (`id` = ?)",
			args: []any{key},
		},
		{
			name: "typed_enum_in",
			pred: TypedColumn[status]("status").In(statusOpen, statusClosed),
			sql:  "SELECT * FROM `t` WHERE (`status` IN (?, ?))",
			args: []any{statusOpen, statusClosed},
		},
		{
			name: "typed_not_null",
			pred: TypedColumn[uuid.UUID]("parent_id").NotNull(),
			sql:  "SELECT * FROM `t` WHERE (`parent_id` IS NOT NULL)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := New().Table("t").Where(tt.pred).Query()
			require.NoError(t, err)
			assert.Equal(t, tt.sql, query)
			if len(tt.args) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

type status string

const (
	statusOpen   status = "open"
	statusClosed status = "closed"
)

// TestColumnName tests that columns expose their name for column positions.
func TestColumnName(t *testing.T) {
	age := IntColumn("age")
	assert.Equal(t, "age", age.Name())

	query, _, err := New().Table("users").
		Select(age.Name()).
		Where(age.GTE(18)).
		Query()
	require.NoError(t, err)
	assert.Equal(t, "SELECT `age` FROM `users` WHERE (`age` >= ?)", query)
}

// TestPredicateReuse tests that one predicate applies independently to
// several builders, re-capturing its bindings on each.
func TestPredicateReuse(t *testing.T) {
	vip := And(
		BoolColumn("active").IsTrue(),
		IntColumn("score").GTE(90),
	)

	q1, args1, err := New().Table("users").Where(vip).Query()
	require.NoError(t, err)
	q2, args2, err := New().Table("accounts").Where(vip).Where("region", "eu").Query()
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM `users` WHERE ((`active` = ?) AND (`score` >= ?))", q1)
	assert.Equal(t, []any{true, 90}, args1)
	assert.Equal(t, "SELECT * FROM `accounts` WHERE ((`active` = ?) AND (`score` >= ?)) AND `region` = ?", q2)
	assert.Equal(t, []any{true, 90, "eu"}, args2)
}

// TestPredicateErrors tests that a malformed predicate arm fails the owning
// statement instead of compiling partial SQL.
func TestPredicateErrors(t *testing.T) {
	b := New().Table("jobs").Where(And(
		StringColumn("queue").EQ("mail"),
		TypedColumn[chan int]("ch").EQ(make(chan int)),
	))
	query, err := b.ToSQL()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "unsupported value type")
	assert.Empty(t, query)
}
