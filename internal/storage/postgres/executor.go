// Package postgres implements a Postgres storage.Executor using pgx v5 with
// a connection pool. Statements arrive rendered with $1..$n placeholders.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"acctlookup/internal/query"
	"acctlookup/internal/result"
	"acctlookup/internal/storage"
)

func init() {
	storage.Register("postgres", query.ParamDollar, func(ctx context.Context, cfg storage.Config) (storage.Executor, error) {
		return New(ctx, cfg)
	})
}

// Executor is a Postgres-backed storage.Executor.
type Executor struct {
	pool *pgxpool.Pool
}

// New opens a pgx pool for the given DSN.
func New(ctx context.Context, cfg storage.Config) (*Executor, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Executor{pool: pool}, nil
}

// Execute runs one batch statement and returns its result table.
func (e *Executor) Execute(ctx context.Context, stmt query.Statement) (result.Table, error) {
	rows, err := e.pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return result.Table{}, fmt.Errorf("postgres: query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out result.Table
	out.Columns = make([]string, len(fields))
	for i, f := range fields {
		out.Columns[i] = f.Name
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return result.Table{}, fmt.Errorf("postgres: values: %w", err)
		}
		out.Rows = append(out.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return result.Table{}, fmt.Errorf("postgres: rows: %w", err)
	}
	return out, nil
}

// Close releases the pool.
func (e *Executor) Close() error {
	e.pool.Close()
	return nil
}
