package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftsql/driftsql/internal/testutil"
)

func newTestConnector(t *testing.T) *Connector {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	c, err := New(context.Background(), path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewParsesURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	c, err := New(context.Background(), "file:"+path+"?connection_limit=3&db_name=app", testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, path, c.FilePath())
	assert.Equal(t, 3, c.Params().ConnectionLimit)
	assert.Equal(t, "app", c.Params().DBName)
}

func TestNewRejectsDirectory(t *testing.T) {
	_, err := New(context.Background(), t.TempDir(), testutil.NewTestLogger(t))
	require.Error(t, err)
}

func TestAttachDatabase(t *testing.T) {
	ctx := context.Background()
	c := newTestConnector(t)

	require.NoError(t, c.AttachDatabase(ctx, "extra"))

	// Visible in the session's database list
	rs, err := c.QueryRaw(ctx, "PRAGMA database_list", nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, row := range rs.Rows {
		name, ok := row.Get("name")
		require.True(t, ok)
		text, _ := name.AsText()
		names[text] = true
	}
	assert.True(t, names["extra"])
}

func TestAttachDatabaseIdempotent(t *testing.T) {
	ctx := context.Background()
	c := newTestConnector(t)

	require.NoError(t, c.AttachDatabase(ctx, "dup"))
	require.NoError(t, c.AttachDatabase(ctx, "dup"))

	rs, err := c.QueryRaw(ctx, "PRAGMA database_list", nil)
	require.NoError(t, err)

	count := 0
	for _, row := range rs.Rows {
		name, _ := row.Get("name")
		if text, _ := name.AsText(); text == "dup" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAttachDatabaseEnablesForeignKeys(t *testing.T) {
	ctx := context.Background()
	c := newTestConnector(t)

	require.NoError(t, c.AttachDatabase(ctx, "fkcheck"))

	rs, err := c.QueryRaw(ctx, "PRAGMA foreign_keys", nil)
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	on, ok := rs.Get(0).Values[0].AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(1), on)
}

func TestForeignKeyToggle(t *testing.T) {
	ctx := context.Background()
	c := newTestConnector(t)

	pragma := func() int64 {
		rs, err := c.QueryRaw(ctx, "PRAGMA foreign_keys", nil)
		require.NoError(t, err)
		v, ok := rs.Get(0).Values[0].AsInt64()
		require.True(t, ok)
		return v
	}

	require.NoError(t, c.TurnOnForeignKeyConstraints(ctx))
	assert.Equal(t, int64(1), pragma())

	require.NoError(t, c.TurnOffForeignKeyConstraints(ctx))
	assert.Equal(t, int64(0), pragma())
}

func TestCloseIsFinal(t *testing.T) {
	c := newTestConnector(t)
	require.NoError(t, c.Close())

	// Second close must not panic
	_ = c.Close()
}
