package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acctlookup/internal/query"
	"acctlookup/internal/storage"
)

func openTestDB(t *testing.T) *Executor {
	t.Helper()
	exec, err := New(context.Background(), storage.Config{DSN: "file:lookup_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = exec.Close() })
	return exec
}

func seed(t *testing.T, exec *Executor) {
	t.Helper()
	ctx := context.Background()
	_, err := exec.db.ExecContext(ctx, `CREATE TABLE accounts (acct_id TEXT, balance REAL)`)
	require.NoError(t, err)
	_, err = exec.db.ExecContext(ctx,
		`INSERT INTO accounts VALUES ('A001', 120000.5), ('A002', 15890.0), ('A003', NULL)`)
	require.NoError(t, err)
}

func TestExecute(t *testing.T) {
	exec := openTestDB(t)
	seed(t, exec)

	b := query.Builder{Table: "accounts", IDColumn: "acct_id", Style: query.ParamQuestion}
	stmt, err := b.Build(query.Batch{IDs: []string{"A001", "A003"}})
	require.NoError(t, err)

	table, err := exec.Execute(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, []string{"acct_id", "balance"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A001", table.Rows[0][0])
	assert.Nil(t, table.Rows[1][1], "NULL must survive as nil, not a marker string")
}

func TestExecuteLiteralStatement(t *testing.T) {
	exec := openTestDB(t)
	seed(t, exec)

	b := query.Builder{Table: "accounts", IDColumn: "acct_id", Literal: true}
	stmt, err := b.Build(query.Batch{IDs: []string{"A002"}})
	require.NoError(t, err)
	require.Nil(t, stmt.Args)

	table, err := exec.Execute(context.Background(), stmt)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "A002", table.Rows[0][0])
}

func TestExecuteBadSQL(t *testing.T) {
	exec := openTestDB(t)

	_, err := exec.Execute(context.Background(), query.Statement{SQL: "SELECT * FROM missing_table"})
	assert.Error(t, err)
}

func TestNewEmptyDSN(t *testing.T) {
	_, err := New(context.Background(), storage.Config{})
	assert.Error(t, err)
}
