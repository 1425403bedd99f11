// Package sqlite implements a SQLite-backed storage.Executor using
// database/sql. It is the backend of choice for local fixtures and tests;
// the same lookup pipeline runs unchanged against the server backends.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver; replace with your preferred driver if desired.
	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"acctlookup/internal/query"
	"acctlookup/internal/result"
	"acctlookup/internal/storage"
)

func init() {
	storage.Register("sqlite", query.ParamQuestion, func(ctx context.Context, cfg storage.Config) (storage.Executor, error) {
		return New(ctx, cfg)
	})
}

// Executor is a SQLite-backed storage.Executor.
type Executor struct {
	db *sql.DB
}

// New opens a SQLite connection using the provided DSN.
//
// DSN is passed directly to database/sql; for example:
//
//	"file:accounts.db?cache=shared"
//	"accounts.db"
func New(ctx context.Context, cfg storage.Config) (*Executor, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// Ping with a bounded context to fail fast on invalid DSNs.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Executor{db: db}, nil
}

// Execute runs one batch statement and returns its result table.
func (e *Executor) Execute(ctx context.Context, stmt query.Statement) (result.Table, error) {
	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return result.Table{}, fmt.Errorf("sqlite: query: %w", err)
	}
	return storage.TableFromRows(rows)
}

// Close releases the underlying connection pool.
func (e *Executor) Close() error { return e.db.Close() }
