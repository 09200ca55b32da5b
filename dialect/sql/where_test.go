package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWhere tests the basic comparison forms and operator inference.
func TestWhere(t *testing.T) {
	t.Run("implied_equals", func(t *testing.T) {
		q := New().Table("users").Where("a", 1).Where("b", 2)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? AND `b` = ?", query)
		assert.Equal(t, []any{1, 2}, args)
	})

	t.Run("explicit_operator", func(t *testing.T) {
		q := New().Table("users").Where("age", ">=", 21).Where("name", "LIKE", "a%")
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `age` >= ? AND `name` LIKE ?", query)
		assert.Equal(t, []any{21, "a%"}, args)
	})

	t.Run("or_joiner", func(t *testing.T) {
		query, err := New().Table("users").Where("a", 1).OrWhere("b", 2).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? OR `b` = ?", query)
	})

	t.Run("negated", func(t *testing.T) {
		query, err := New().Table("users").WhereNot("banned", true).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE NOT (`banned` = ?)", query)
	})

	t.Run("expression_left", func(t *testing.T) {
		q := New().Table("users").Where(Raw("LENGTH(name)"), ">", 5)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE LENGTH(name) > ?", query)
		assert.Equal(t, []any{5}, args)
	})

	t.Run("subquery_left", func(t *testing.T) {
		sub := New().Table("orders").Select(Raw("COUNT(*)")).Where("status", "open")
		q := New().Table("users").Where(sub, ">", 10)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE (SELECT COUNT(*) FROM `orders` WHERE `status` = ?) > ?", query)
		assert.Equal(t, []any{"open", 10}, args)
	})

	t.Run("subquery_right", func(t *testing.T) {
		q := New().Table("users").Where("id", "=", func(b *Builder) {
			b.Table("admins").Select("user_id").Limit(1)
		})
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `id` = (SELECT `user_id` FROM `admins` LIMIT 1)", query)
		assert.Empty(t, args)
	})

	t.Run("null_right", func(t *testing.T) {
		query, err := New().Table("users").Where("deleted_at", "<=>", nil).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `deleted_at` <=> NULL", query)
	})

	t.Run("qualified_column", func(t *testing.T) {
		query, err := New().Table("users u").Where("u.active", true).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` AS `u` WHERE `u`.`active` = ?", query)
	})

	t.Run("non_string_operator", func(t *testing.T) {
		_, err := New().Table("users").Where("a", 1, 2).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "operator must be a string")
	})

	t.Run("too_many_arguments", func(t *testing.T) {
		_, err := New().Table("users").Where("a", "=", 1, 2).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "expected 1 or 2 arguments")
	})

	t.Run("bad_left_type", func(t *testing.T) {
		_, err := New().Table("users").Where(42, 1).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "unsupported column type")
	})
}

// TestWhereGroups tests parenthesized condition groups.
func TestWhereGroups(t *testing.T) {
	t.Run("nested_group", func(t *testing.T) {
		q := New().Table("users").
			Where("active", true).
			Where(func(b *Builder) {
				b.Where("role", "admin").OrWhere("role", "owner")
			})
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `active` = ? AND (`role` = ? OR `role` = ?)", query)
		assert.Equal(t, []any{true, "admin", "owner"}, args)
	})

	t.Run("or_group", func(t *testing.T) {
		query, err := New().Table("users").
			Where("a", 1).
			OrWhere(func(b *Builder) {
				b.Where("b", 2).Where("c", 3)
			}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? OR (`b` = ? AND `c` = ?)", query)
	})

	t.Run("negated_group", func(t *testing.T) {
		query, err := New().Table("users").
			WhereNot(func(b *Builder) {
				b.Where("a", 1).OrWhere("b", 2)
			}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE NOT (`a` = ? OR `b` = ?)", query)
	})

	t.Run("deeply_nested", func(t *testing.T) {
		q := New().Table("t").Where("a", 1).Where(func(b *Builder) {
			b.Where("b", 2).OrWhere(func(b *Builder) {
				b.Where("c", 3).Where("d", 4)
			})
		})
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `t` WHERE `a` = ? AND (`b` = ? OR (`c` = ? AND `d` = ?))", query)
		assert.Equal(t, []any{1, 2, 3, 4}, args)
	})

	t.Run("empty_group_skipped", func(t *testing.T) {
		query, err := New().Table("t").Where("a", 1).Where(func(b *Builder) {}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `t` WHERE `a` = ?", query)
	})

	t.Run("only_empty_group", func(t *testing.T) {
		query, err := New().Table("t").Where(func(b *Builder) {}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `t`", query)
	})

	t.Run("group_with_extra_args", func(t *testing.T) {
		_, err := New().Table("t").Where(func(b *Builder) {}, 1).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "condition group accepts no extra arguments")
	})

	t.Run("group_error_propagates", func(t *testing.T) {
		_, err := New().Table("t").Where(func(b *Builder) {
			b.Where("x", struct{}{})
		}).ToSQL()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported value type")
	})
}

// TestWhereColumn tests column-to-column comparisons.
func TestWhereColumn(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		q := New().Table("orders").WhereColumn("updated_at", ">", "created_at")
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` WHERE `updated_at` > `created_at`", query)
		assert.Empty(t, args)
	})

	t.Run("or_qualified", func(t *testing.T) {
		query, err := New().Table("orders o").
			Where("o.total", ">", 0).
			OrWhereColumn("o.shipped_at", "=", "o.created_at").
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` AS `o` WHERE `o`.`total` > ? OR `o`.`shipped_at` = `o`.`created_at`", query)
	})
}

// TestWhereRaw tests verbatim condition fragments and their binding order.
func TestWhereRaw(t *testing.T) {
	t.Run("with_bindings", func(t *testing.T) {
		q := New().Table("users").
			Where("a", 1).
			WhereRaw("b = ? + c", 2).
			Where("d", 3)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? AND b = ? + c AND `d` = ?", query)
		assert.Equal(t, []any{1, 2, 3}, args)
	})

	t.Run("or_raw", func(t *testing.T) {
		query, err := New().Table("users").
			Where("a", 1).
			OrWhereRaw("JSON_LENGTH(tags) > ?", 3).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? OR JSON_LENGTH(tags) > ?", query)
	})

	t.Run("unbindable_argument", func(t *testing.T) {
		_, err := New().Table("users").WhereRaw("a = ?", make(chan int)).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "unsupported value type")
	})
}

// TestWhereIn tests membership conditions: value lists, slice expansion,
// subquery targets and the empty-set constants.
func TestWhereIn(t *testing.T) {
	t.Run("values", func(t *testing.T) {
		q := New().Table("users").WhereIn("id", 1, 2, 3)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `id` IN (?, ?, ?)", query)
		assert.Equal(t, []any{1, 2, 3}, args)
	})

	t.Run("int_slice", func(t *testing.T) {
		q := New().Table("users").WhereIn("id", []int{4, 5})
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `id` IN (?, ?)", query)
		assert.Equal(t, []any{4, 5}, args)
	})

	t.Run("string_slice", func(t *testing.T) {
		q := New().Table("users").WhereIn("status", []string{"active", "pending"})
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `status` IN (?, ?)", query)
		assert.Equal(t, []any{"active", "pending"}, args)
	})

	t.Run("byte_slice_is_one_value", func(t *testing.T) {
		q := New().Table("blobs").WhereIn("digest", []byte{0x1, 0x2})
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `blobs` WHERE `digest` IN (?)", query)
		assert.Equal(t, []any{[]byte{0x1, 0x2}}, args)
	})

	t.Run("subquery", func(t *testing.T) {
		q := New().Table("users").WhereIn("id", func(b *Builder) {
			b.Table("orders").Select("user_id").Where("total", ">", 100)
		})
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `id` IN (SELECT `user_id` FROM `orders` WHERE `total` > ?)", query)
		assert.Equal(t, []any{100}, args)
	})

	t.Run("not_in_subquery", func(t *testing.T) {
		query, err := New().Table("users").
			WhereNotIn("id", New().Table("banned").Select("user_id")).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `id` NOT IN (SELECT `user_id` FROM `banned`)", query)
	})

	t.Run("not_in_values", func(t *testing.T) {
		query, err := New().Table("users").WhereNotIn("role", "bot", "ghost").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `role` NOT IN (?, ?)", query)
	})

	t.Run("or_in", func(t *testing.T) {
		query, err := New().Table("users").Where("a", 1).OrWhereIn("id", 2, 3).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? OR `id` IN (?, ?)", query)
	})

	t.Run("empty_in", func(t *testing.T) {
		q := New().Table("users").WhereIn("id")
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE 0 = 1", query)
		assert.Empty(t, args)
	})

	t.Run("empty_not_in", func(t *testing.T) {
		query, err := New().Table("users").WhereNotIn("id", []int{}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE 1 = 1", query)
	})

	t.Run("empty_in_keeps_neighbors", func(t *testing.T) {
		q := New().Table("users").Where("a", 1).WhereIn("id").Where("b", 2)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? AND 0 = 1 AND `b` = ?", query)
		assert.Equal(t, []any{1, 2}, args)
	})

	t.Run("unbindable_value", func(t *testing.T) {
		_, err := New().Table("users").WhereIn("id", 1, struct{}{}).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

// TestWhereBetween tests range conditions and bound-count validation.
func TestWhereBetween(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		q := New().Table("orders").WhereBetween("total", 10, 100)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` WHERE `total` BETWEEN ? AND ?", query)
		assert.Equal(t, []any{10, 100}, args)
	})

	t.Run("slice_bounds", func(t *testing.T) {
		query, err := New().Table("orders").WhereBetween("total", []int{10, 100}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` WHERE `total` BETWEEN ? AND ?", query)
	})

	t.Run("not_between", func(t *testing.T) {
		query, err := New().Table("orders").WhereNotBetween("total", 10, 100).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` WHERE `total` NOT BETWEEN ? AND ?", query)
	})

	t.Run("or_between", func(t *testing.T) {
		query, err := New().Table("orders").
			Where("status", "open").
			OrWhereBetween("total", 1, 5).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` WHERE `status` = ? OR `total` BETWEEN ? AND ?", query)
	})

	t.Run("wrong_arity", func(t *testing.T) {
		_, err := New().Table("orders").WhereBetween("total", 10).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "expected exactly 2 bounds, got 1")
	})

	t.Run("no_partial_sql_on_error", func(t *testing.T) {
		q := New().Table("orders").Where("a", 1).WhereBetween("total", 10)
		query, err := q.ToSQL()
		require.Error(t, err)
		assert.Empty(t, query)
	})
}

// TestWhereNull tests the null checks.
func TestWhereNull(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Builder) *Builder
		want  string
	}{
		{
			"null",
			func(b *Builder) *Builder { return b.WhereNull("deleted_at") },
			"SELECT * FROM `users` WHERE `deleted_at` IS NULL",
		},
		{
			"not_null",
			func(b *Builder) *Builder { return b.WhereNotNull("email") },
			"SELECT * FROM `users` WHERE `email` IS NOT NULL",
		},
		{
			"or_null",
			func(b *Builder) *Builder { return b.Where("a", 1).OrWhereNull("b") },
			"SELECT * FROM `users` WHERE `a` = ? OR `b` IS NULL",
		},
		{
			"or_not_null",
			func(b *Builder) *Builder { return b.Where("a", 1).OrWhereNotNull("b") },
			"SELECT * FROM `users` WHERE `a` = ? OR `b` IS NOT NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := tt.build(New().Table("users")).ToSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
		})
	}
}

// TestWhereExists tests existence conditions and their binding splice.
func TestWhereExists(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		q := New().Table("users").WhereExists(func(b *Builder) {
			b.Table("orders").
				WhereColumn("orders.user_id", "=", "users.id").
				Where("total", ">", 50)
		})
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE EXISTS (SELECT * FROM `orders` WHERE `orders`.`user_id` = `users`.`id` AND `total` > ?)", query)
		assert.Equal(t, []any{50}, args)
	})

	t.Run("not_exists", func(t *testing.T) {
		query, err := New().Table("users").
			WhereNotExists(New().Table("bans").WhereColumn("bans.user_id", "=", "users.id")).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE NOT EXISTS (SELECT * FROM `bans` WHERE `bans`.`user_id` = `users`.`id`)", query)
	})

	t.Run("or_exists_binding_order", func(t *testing.T) {
		q := New().Table("users").
			Where("a", 1).
			OrWhereExists(func(b *Builder) {
				b.Table("orders").Where("total", ">", 2)
			}).
			Where("b", 3)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? OR EXISTS (SELECT * FROM `orders` WHERE `total` > ?) AND `b` = ?", query)
		assert.Equal(t, []any{1, 2, 3}, args)
	})

	t.Run("bad_argument", func(t *testing.T) {
		_, err := New().Table("users").WhereExists("not a query").ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

// TestWhereDateParts tests the date-component comparisons.
func TestWhereDateParts(t *testing.T) {
	t.Run("date", func(t *testing.T) {
		q := New().Table("logs").WhereDate("created_at", "2024-06-01")
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `logs` WHERE DATE(`created_at`) = ?", query)
		assert.Equal(t, []any{"2024-06-01"}, args)
	})

	t.Run("year_with_operator", func(t *testing.T) {
		query, err := New().Table("logs").WhereYear("created_at", ">=", 2020).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `logs` WHERE YEAR(`created_at`) >= ?", query)
	})

	t.Run("month_day_combined", func(t *testing.T) {
		q := New().Table("logs").WhereMonth("created_at", 12).WhereDay("created_at", 24)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `logs` WHERE MONTH(`created_at`) = ? AND DAY(`created_at`) = ?", query)
		assert.Equal(t, []any{12, 24}, args)
	})

	t.Run("or_variants", func(t *testing.T) {
		query, err := New().Table("logs").
			WhereDate("created_at", "2024-06-01").
			OrWhereDate("created_at", "2024-06-02").
			OrWhereYear("created_at", 2023).
			OrWhereMonth("created_at", 1).
			OrWhereDay("created_at", 2).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `logs` WHERE DATE(`created_at`) = ? OR DATE(`created_at`) = ? OR YEAR(`created_at`) = ? OR MONTH(`created_at`) = ? OR DAY(`created_at`) = ?", query)
	})

	t.Run("qualified_column", func(t *testing.T) {
		query, err := New().Table("logs l").WhereDate("l.created_at", "2024-06-01").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `logs` AS `l` WHERE DATE(`l`.`created_at`) = ?", query)
	})
}

// TestWhereJSON tests JSON member extraction conditions.
func TestWhereJSON(t *testing.T) {
	t.Run("implied_equals", func(t *testing.T) {
		q := New().Table("users").WhereJSON("meta", "plan.tier", "pro")
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE JSON_UNQUOTE(JSON_EXTRACT(`meta`, '$.\"plan\".\"tier\"')) = ?", query)
		assert.Equal(t, []any{"pro"}, args)
	})

	t.Run("explicit_operator", func(t *testing.T) {
		query, err := New().Table("users").WhereJSON("meta", "limits.rate", ">", 100).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE JSON_UNQUOTE(JSON_EXTRACT(`meta`, '$.\"limits\".\"rate\"')) > ?", query)
	})

	t.Run("single_segment", func(t *testing.T) {
		query, err := New().Table("users").WhereJSON("meta", "active", true).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE JSON_UNQUOTE(JSON_EXTRACT(`meta`, '$.\"active\"')) = ?", query)
	})

	t.Run("or_json", func(t *testing.T) {
		query, err := New().Table("users").
			Where("a", 1).
			OrWhereJSON("meta", "beta", true).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE `a` = ? OR JSON_UNQUOTE(JSON_EXTRACT(`meta`, '$.\"beta\"')) = ?", query)
	})

	t.Run("escaped_segment", func(t *testing.T) {
		query, err := New().Table("users").WhereJSON("meta", `we"ird`, 1).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` WHERE JSON_UNQUOTE(JSON_EXTRACT(`meta`, '$.\"we\\\"ird\"')) = ?", query)
	})

	t.Run("empty_path", func(t *testing.T) {
		_, err := New().Table("users").WhereJSON("meta", "", 1).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "empty path")
	})
}

// TestWhereFullText tests MATCH ... AGAINST conditions and mode selection.
func TestWhereFullText(t *testing.T) {
	t.Run("natural_default", func(t *testing.T) {
		q := New().Table("posts").WhereFullText([]string{"title", "body"}, "quick brown fox")
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `posts` WHERE MATCH (`title`, `body`) AGAINST (? IN NATURAL LANGUAGE MODE)", query)
		assert.Equal(t, []any{"quick brown fox"}, args)
	})

	t.Run("boolean_mode", func(t *testing.T) {
		query, err := New().Table("posts").
			WhereFullText([]string{"body"}, "+fox -dog", MatchBoolean).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `posts` WHERE MATCH (`body`) AGAINST (? IN BOOLEAN MODE)", query)
	})

	t.Run("query_expansion", func(t *testing.T) {
		query, err := New().Table("posts").
			WhereFullText([]string{"body"}, "fox", MatchExpansion).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `posts` WHERE MATCH (`body`) AGAINST (? IN NATURAL LANGUAGE MODE WITH QUERY EXPANSION)", query)
	})

	t.Run("or_fulltext", func(t *testing.T) {
		q := New().Table("posts").
			Where("published", true).
			OrWhereFullText([]string{"title"}, "fox")
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `posts` WHERE `published` = ? OR MATCH (`title`) AGAINST (? IN NATURAL LANGUAGE MODE)", query)
		assert.Equal(t, []any{true, "fox"}, args)
	})

	t.Run("invalid_mode", func(t *testing.T) {
		_, err := New().Table("posts").WhereFullText([]string{"body"}, "fox", "fuzzy").ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), `invalid mode "fuzzy"`)
	})

	t.Run("no_columns", func(t *testing.T) {
		_, err := New().Table("posts").WhereFullText(nil, "fox").ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

// TestHaving tests grouped-result conditions.
func TestHaving(t *testing.T) {
	t.Run("aggregate", func(t *testing.T) {
		q := New().Table("orders").
			Select("user_id", As(Raw("COUNT(*)"), "cnt")).
			GroupBy("user_id").
			Having(Raw("COUNT(*)"), ">", 10)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT `user_id`, COUNT(*) AS `cnt` FROM `orders` GROUP BY `user_id` HAVING COUNT(*) > ?", query)
		assert.Equal(t, []any{10}, args)
	})

	t.Run("or_having", func(t *testing.T) {
		query, err := New().Table("orders").
			GroupBy("user_id").
			Having(Raw("SUM(total)"), ">", 100).
			OrHaving(Raw("COUNT(*)"), ">", 5).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` GROUP BY `user_id` HAVING SUM(total) > ? OR COUNT(*) > ?", query)
	})

	t.Run("having_raw", func(t *testing.T) {
		q := New().Table("orders").
			GroupBy("user_id").
			HavingRaw("SUM(total) BETWEEN ? AND ?", 10, 20).
			OrHavingRaw("COUNT(*) = ?", 1)
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` GROUP BY `user_id` HAVING SUM(total) BETWEEN ? AND ? OR COUNT(*) = ?", query)
		assert.Equal(t, []any{10, 20, 1}, args)
	})

	t.Run("where_bindings_precede_having", func(t *testing.T) {
		q := New().Table("orders").
			GroupBy("user_id").
			Having(Raw("COUNT(*)"), ">", 99).
			Where("status", "paid")
		query, args, err := q.Query()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `orders` WHERE `status` = ? GROUP BY `user_id` HAVING COUNT(*) > ?", query)
		assert.Equal(t, []any{"paid", 99}, args)
	})

	t.Run("unbindable_raw_arg", func(t *testing.T) {
		_, err := New().Table("orders").HavingRaw("x = ?", struct{}{}).ToSQL()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

// TestBindingOrderFollowsClauses tests that the merged binding list follows
// clause render order, not method call order.
func TestBindingOrderFollowsClauses(t *testing.T) {
	q := New().Table("orders o").
		Having(Raw("COUNT(*)"), ">", 4).
		Where("o.status", "paid").
		Join("users u", "u.id", "=", "o.user_id").
		OnValue("u.plan", "=", "pro").
		GroupBy("o.user_id")

	query, args, err := q.Query()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `orders` AS `o` INNER JOIN `users` AS `u` ON `u`.`id` = `o`.`user_id` AND `u`.`plan` = ? WHERE `o`.`status` = ? GROUP BY `o`.`user_id` HAVING COUNT(*) > ?", query)
	assert.Equal(t, []any{"pro", "paid", 4}, args)
}

// TestFromSubqueryBindingsPrecedeWhere tests that a derived table's bindings
// splice at the FROM position, ahead of scalars captured earlier in the
// where section.
func TestFromSubqueryBindingsPrecedeWhere(t *testing.T) {
	q := New().
		TableSub(func(b *Builder) {
			b.Table("orders").Select("user_id").Where("total", ">", 5)
		}, "t").
		Where("t.user_id", 1)

	query, args, err := q.Query()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM (SELECT `user_id` FROM `orders` WHERE `total` > ?) AS `t` WHERE `t`.`user_id` = ?", query)
	assert.Equal(t, []any{5, 1}, args)
}
