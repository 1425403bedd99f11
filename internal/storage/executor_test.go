package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acctlookup/internal/query"
	"acctlookup/internal/result"
)

type fakeExecutor struct{ closed bool }

func (f *fakeExecutor) Execute(context.Context, query.Statement) (result.Table, error) {
	return result.Table{}, nil
}
func (f *fakeExecutor) Close() error { f.closed = true; return nil }

func TestRegistry(t *testing.T) {
	fake := &fakeExecutor{}
	Register("fake-registry-test", query.ParamDollar, func(ctx context.Context, cfg Config) (Executor, error) {
		assert.Equal(t, "dsn://x", cfg.DSN)
		return fake, nil
	})

	exec, err := New(context.Background(), Config{Kind: "fake-registry-test", DSN: "dsn://x"})
	require.NoError(t, err)
	assert.Same(t, fake, exec)

	style, ok := StyleFor("fake-registry-test")
	require.True(t, ok)
	assert.Equal(t, query.ParamDollar, style)

	assert.Contains(t, Kinds(), "fake-registry-test")
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "no-such-backend"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-backend")
	assert.Contains(t, err.Error(), "registered")
}

func TestStyleForUnknown(t *testing.T) {
	_, ok := StyleFor("no-such-backend")
	assert.False(t, ok)
}
