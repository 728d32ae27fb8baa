package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftsql/driftsql/pkg/builder"
	"github.com/driftsql/driftsql/pkg/core"
)

func newMockBase(t *testing.T) (*Base, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &Base{
		DB: db,
		Dialect: builder.Dialect{
			Name:        "mock",
			Placeholder: builder.QuestionPlaceholder,
			QuoteIdent:  builder.QuoteANSI,
		},
	}, mock
}

func TestBaseQueryRaw(t *testing.T) {
	b, mock := newMockBase(t)

	mock.ExpectQuery("SELECT id, name FROM users").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "alice").
			AddRow(int64(2), nil))

	rs, err := b.QueryRaw(context.Background(), "SELECT id, name FROM users WHERE id > ?",
		[]core.Value{core.Int64Value(1)})
	require.NoError(t, err)

	require.Equal(t, 2, rs.Len())
	assert.Equal(t, []string{"id", "name"}, rs.Columns)

	id, ok := rs.Get(0).Values[0].AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	name, ok := rs.Get(1).Get("name")
	require.True(t, ok)
	assert.True(t, name.IsNull())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseQuery(t *testing.T) {
	b, mock := newMockBase(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	rs, err := b.Query(context.Background(), &builder.Select{Table: "users"})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseExecuteRaw(t *testing.T) {
	b, mock := newMockBase(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("bob", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := b.ExecuteRaw(context.Background(), `UPDATE users SET name = ? WHERE id = ?`,
		[]core.Value{core.TextValue("bob"), core.Int64Value(7)})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseQueryRawWrapsEngineError(t *testing.T) {
	b, mock := newMockBase(t)

	engineErr := errors.New("relation does not exist")
	mock.ExpectQuery("SELECT").WillReturnError(engineErr)

	_, err := b.QueryRaw(context.Background(), "SELECT * FROM missing", nil)
	require.Error(t, err)

	var ee *core.EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "mock.query_raw", ee.Op)
	assert.ErrorIs(t, err, engineErr)
}

func TestBaseRawCmd(t *testing.T) {
	b, mock := newMockBase(t)

	mock.ExpectExec("BEGIN").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, b.RawCmd(context.Background(), "BEGIN"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseNilDB(t *testing.T) {
	b := &Base{Dialect: builder.Dialect{Name: "mock", Placeholder: builder.QuestionPlaceholder, QuoteIdent: builder.QuoteANSI}}

	_, err := b.QueryRaw(context.Background(), "SELECT 1", nil)
	assert.Error(t, err)

	_, err = b.ExecuteRaw(context.Background(), "DELETE FROM t", nil)
	assert.Error(t, err)

	assert.Error(t, b.RawCmd(context.Background(), "BEGIN"))
	assert.NoError(t, b.Close())
}

func TestBaseRecordsMetrics(t *testing.T) {
	b, mock := newMockBase(t)
	rec := &captureRecorder{}
	b.Metrics = rec

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))

	_, err := b.QueryRaw(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "mock.query_raw", rec.op)
}
