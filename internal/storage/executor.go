// Package storage contains the backend-agnostic query-executor contract and
// a kind registry so the rest of the application never imports database
// drivers directly.
//
// Concrete backends (postgres, mssql, mysql, sqlite) live in subpackages and
// register themselves at init time; importing storage/all (even blankly)
// makes every built-in backend available.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"acctlookup/internal/query"
	"acctlookup/internal/result"
)

// Executor runs one rendered batch statement against a backend and returns
// the resulting table. Implementations perform no retries; a failure is
// reported to the caller as-is.
type Executor interface {
	Execute(ctx context.Context, stmt query.Statement) (result.Table, error)
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend implementation, e.g. "postgres".
	Kind string

	// DSN is the driver connection string, passed through untouched.
	DSN string
}

// Factory builds an Executor for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Executor, error)

type backend struct {
	factory Factory
	style   query.ParamStyle
}

var (
	mu       sync.RWMutex
	backends = map[string]backend{}
)

// Register installs (or replaces) a backend factory for the given kind along
// with the placeholder dialect its driver expects. It is typically called
// from backend packages' init() functions.
func Register(kind string, style query.ParamStyle, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	backends[kind] = backend{factory: fn, style: style}
}

// New opens an Executor for cfg.Kind. Unknown kinds report the registered
// alternatives so a config typo is immediately actionable.
func New(ctx context.Context, cfg Config) (Executor, error) {
	mu.RLock()
	b, ok := backends[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown storage kind %q (registered: %s)",
			cfg.Kind, strings.Join(Kinds(), ", "))
	}
	return b.factory(ctx, cfg)
}

// StyleFor returns the placeholder dialect registered for kind.
func StyleFor(kind string) (query.ParamStyle, bool) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := backends[kind]
	return b.style, ok
}

// Kinds returns the registered backend kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(backends))
	for k := range backends {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
