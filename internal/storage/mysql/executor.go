// Package mysql implements a MySQL-backed storage.Executor using
// database/sql and the go-sql-driver.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"acctlookup/internal/query"
	"acctlookup/internal/result"
	"acctlookup/internal/storage"
)

func init() {
	storage.Register("mysql", query.ParamQuestion, func(ctx context.Context, cfg storage.Config) (storage.Executor, error) {
		return New(ctx, cfg)
	})
}

// Executor is a MySQL-backed storage.Executor.
type Executor struct {
	db *sql.DB
}

// New opens a MySQL connection, e.g. DSN "user:pass@tcp(host:3306)/dbname".
func New(ctx context.Context, cfg storage.Config) (*Executor, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Executor{db: db}, nil
}

// Execute runs one batch statement and returns its result table.
func (e *Executor) Execute(ctx context.Context, stmt query.Statement) (result.Table, error) {
	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return result.Table{}, fmt.Errorf("mysql: query: %w", err)
	}
	return storage.TableFromRows(rows)
}

// Close releases the underlying connection pool.
func (e *Executor) Close() error { return e.db.Close() }
