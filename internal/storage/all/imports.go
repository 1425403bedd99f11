// Package all wires every built-in storage backend into the storage
// registry.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete backend to run, which
// in turn register their factories and placeholder dialects with the storage
// package. After that, the wiring layer can stay fully backend-agnostic:
//
//	import _ "acctlookup/internal/storage/all"
//
//	exec, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: dsn})
//
// A binary that should support only a subset of backends can blank-import
// the individual backend packages instead.
package all

import (
	_ "acctlookup/internal/storage/mssql"
	_ "acctlookup/internal/storage/mysql"
	_ "acctlookup/internal/storage/postgres"
	_ "acctlookup/internal/storage/sqlite"
)
