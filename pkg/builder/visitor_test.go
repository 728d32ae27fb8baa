package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftsql/driftsql/pkg/core"
)

var (
	questionDialect = Dialect{
		Name:        "sqlite",
		Placeholder: QuestionPlaceholder,
		QuoteIdent:  QuoteANSI,
	}
	dollarDialect = Dialect{
		Name:              "postgres",
		Placeholder:       DollarPlaceholder,
		QuoteIdent:        QuoteANSI,
		SupportsReturning: true,
	}
	backtickDialect = Dialect{
		Name:        "mysql",
		Placeholder: QuestionPlaceholder,
		QuoteIdent:  QuoteBacktick,
	}
)

func TestBuildSelect(t *testing.T) {
	q := &Select{
		Table:   "users",
		Columns: []string{"id", "name"},
		Where: []Condition{
			{Column: "age", Op: ">", Value: core.Int64Value(21)},
			{Column: "active", Value: core.BoolValue(true)},
		},
		OrderBy: []Ordering{{Column: "name"}, {Column: "id", Desc: true}},
		Limit:   10,
		Offset:  5,
	}

	sql, params, err := questionDialect.Build(q)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "id", "name" FROM "users" WHERE "age" > ? AND "active" = ? ORDER BY "name", "id" DESC LIMIT 10 OFFSET 5`,
		sql)
	require.Len(t, params, 2)

	age, _ := params[0].AsInt64()
	assert.Equal(t, int64(21), age)
}

func TestBuildSelectStar(t *testing.T) {
	sql, params, err := questionDialect.Build(&Select{Table: "t"})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "t"`, sql)
	assert.Empty(t, params)
}

func TestBuildSelectDollarPlaceholders(t *testing.T) {
	q := &Select{
		Table: "users",
		Where: []Condition{
			{Column: "a", Value: core.Int64Value(1)},
			{Column: "b", Value: core.Int64Value(2)},
			{Column: "c", Value: core.Int64Value(3)},
		},
	}

	sql, params, err := dollarDialect.Build(q)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "a" = $1 AND "b" = $2 AND "c" = $3`, sql)

	// Parameter order follows placeholder numbering
	for i, want := range []int64{1, 2, 3} {
		got, ok := params[i].AsInt64()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestBuildInsert(t *testing.T) {
	q := &Insert{
		Table:   "users",
		Columns: []string{"name", "age"},
		Values:  []core.Value{core.TextValue("alice"), core.Int64Value(30)},
	}

	sql, params, err := questionDialect.Build(q)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name", "age") VALUES (?, ?)`, sql)
	assert.Len(t, params, 2)
}

func TestBuildInsertReturning(t *testing.T) {
	q := &Insert{
		Table:     "users",
		Columns:   []string{"name"},
		Values:    []core.Value{core.TextValue("alice")},
		Returning: "id",
	}

	sql, _, err := dollarDialect.Build(q)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES ($1) RETURNING "id"`, sql)

	// Dialects without RETURNING support ignore the field
	sql, _, err = questionDialect.Build(q)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES (?)`, sql)
}

func TestBuildInsertArityMismatch(t *testing.T) {
	q := &Insert{
		Table:   "users",
		Columns: []string{"a", "b"},
		Values:  []core.Value{core.Int64Value(1)},
	}
	_, _, err := questionDialect.Build(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 columns but 1 values")
}

func TestBuildUpdate(t *testing.T) {
	q := &Update{
		Table: "users",
		Set: []Assignment{
			{Column: "name", Value: core.TextValue("bob")},
			{Column: "age", Value: core.Int64Value(31)},
		},
		Where: []Condition{{Column: "id", Value: core.Int64Value(7)}},
	}

	sql, params, err := dollarDialect.Build(q)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "name" = $1, "age" = $2 WHERE "id" = $3`, sql)
	assert.Len(t, params, 3)
}

func TestBuildUpdateRequiresAssignments(t *testing.T) {
	_, _, err := questionDialect.Build(&Update{Table: "users"})
	require.Error(t, err)
}

func TestBuildDelete(t *testing.T) {
	q := &Delete{
		Table: "sessions",
		Where: []Condition{{Column: "expired", Value: core.BoolValue(true)}},
	}

	sql, params, err := questionDialect.Build(q)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "sessions" WHERE "expired" = ?`, sql)
	assert.Len(t, params, 1)
}

func TestBuildBacktickQuoting(t *testing.T) {
	sql, _, err := backtickDialect.Build(&Select{Table: "order", Columns: []string{"from"}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT `from` FROM `order`", sql)
}

func TestQuoteEscaping(t *testing.T) {
	assert.Equal(t, `"wei""rd"`, QuoteANSI(`wei"rd`))
	assert.Equal(t, "`wei``rd`", QuoteBacktick("wei`rd"))
}

func TestBuildMissingTable(t *testing.T) {
	for _, q := range []Query{&Select{}, &Insert{}, &Update{Set: []Assignment{{Column: "a"}}}, &Delete{}} {
		_, _, err := questionDialect.Build(q)
		assert.Error(t, err)
	}
}
