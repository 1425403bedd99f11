// Package mssql implements a Microsoft SQL Server storage.Executor using
// database/sql over go-mssqldb. Statements arrive rendered with @p1..@pn
// placeholders, which the driver binds positionally.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"acctlookup/internal/query"
	"acctlookup/internal/result"
	"acctlookup/internal/storage"
)

func init() {
	storage.Register("mssql", query.ParamAt, func(ctx context.Context, cfg storage.Config) (storage.Executor, error) {
		return New(ctx, cfg)
	})
}

// Executor is an MSSQL-backed storage.Executor.
type Executor struct {
	db *sql.DB
}

// New opens a SQL Server connection. The DSN is validated with msdsn before
// dialing to fail fast on obvious mistakes.
func New(ctx context.Context, cfg storage.Config) (*Executor, error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: ping: %w", err)
	}
	return &Executor{db: db}, nil
}

// Execute runs one batch statement and returns its result table.
func (e *Executor) Execute(ctx context.Context, stmt query.Statement) (result.Table, error) {
	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return result.Table{}, fmt.Errorf("mssql: query: %w", err)
	}
	return storage.TableFromRows(rows)
}

// Close releases the underlying connection pool.
func (e *Executor) Close() error { return e.db.Close() }
