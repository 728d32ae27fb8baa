package connector

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	called := false
	Register("test-fake", func(_ context.Context, _ string, _ *slog.Logger) (Queryable, error) {
		called = true
		return &fakeQueryable{}, nil
	})

	f, ok := Get("test-fake")
	require.True(t, ok)

	q, err := f(context.Background(), "", nil)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.True(t, called)

	_, ok = Get("nonexistent")
	assert.False(t, ok)
}

func TestIsRegistered(t *testing.T) {
	Register("test-registered", func(_ context.Context, _ string, _ *slog.Logger) (Queryable, error) {
		return &fakeQueryable{}, nil
	})

	assert.True(t, IsRegistered("test-registered"))
	assert.False(t, IsRegistered("never-registered"))
}

func TestListIsSorted(t *testing.T) {
	Register("test-zz", func(_ context.Context, _ string, _ *slog.Logger) (Queryable, error) {
		return &fakeQueryable{}, nil
	})
	Register("test-aa", func(_ context.Context, _ string, _ *slog.Logger) (Queryable, error) {
		return &fakeQueryable{}, nil
	})

	names := List()
	require.GreaterOrEqual(t, len(names), 2)
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
	assert.Contains(t, names, "test-aa")
	assert.Contains(t, names, "test-zz")
}

func TestConnectUnknownType(t *testing.T) {
	_, err := Connect(context.Background(), "no-such-backend", "url", nil)
	require.Error(t, err)

	var unknownErr *UnknownConnectorError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "no-such-backend", unknownErr.Type)
	assert.Contains(t, unknownErr.Error(), "driftsql.yaml")
}

func TestConnectEmptyType(t *testing.T) {
	_, err := Connect(context.Background(), "", "url", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not specified")
}

func TestConnectForwardsFactoryError(t *testing.T) {
	sentinel := errors.New("dial failed")
	Register("test-failing", func(_ context.Context, _ string, _ *slog.Logger) (Queryable, error) {
		return nil, sentinel
	})

	_, err := Connect(context.Background(), "test-failing", "url", nil)
	assert.ErrorIs(t, err, sentinel)
}
