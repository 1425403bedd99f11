// Package config defines the canonical, JSON-serializable configuration
// model for the account-lookup application. It is intentionally small,
// explicit, and dependency-free so that lookup runs can be loaded from disk
// (or other sources) and passed through the program without additional glue
// code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in run
//     files under configs/*.json.
//  3. Minimalism: No third-party config libraries; decoding is performed by
//     the standard library.
//
// Example (trimmed):
//
//	{
//	  "job":     "account_lookup",
//	  "source":  { "kind": "csv", "csv": { "path": "ids.csv" } },
//	  "query":   { "table": "ccb.accounts", "id_column": "acct_id", "batch_size": 500 },
//	  "storage": { "kind": "postgres", "dsn": "postgres://..." },
//	  "export":  { "template": "report_template.xlsx", "output": "output/results.xlsx" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// EnvDSN overrides storage.dsn when set, so credentials can stay out of run
// files (12-factor style).
const EnvDSN = "LOOKUP_DSN"

// Run describes one full lookup run. It is the top-level object decoded from
// a run file.
type Run struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job"`

	// Source describes where the identifier list comes from.
	Source Source `json:"source"`

	// Query configures batch construction and payload rendering.
	Query Query `json:"query"`

	// Storage selects the backend the batches are executed against.
	Storage Storage `json:"storage"`

	// Export configures the template merge.
	Export Export `json:"export"`
}

// Source identifies the identifier input. Exactly one kind is active.
type Source struct {
	// Kind selects the source variant: "text", "csv", or "sheet".
	Kind string `json:"kind"`

	// Text carries options for the "text" kind.
	Text SourceText `json:"text"`

	// CSV carries options for the "csv" kind.
	CSV SourceCSV `json:"csv"`

	// Sheet carries options for the "sheet" kind (a prior export).
	Sheet SourceSheet `json:"sheet"`
}

// SourceText reads pasted identifiers from a plain-text file; "-" means
// standard input.
type SourceText struct {
	Path string `json:"path"`
}

// SourceCSV reads one resolved column from a delimited file.
type SourceCSV struct {
	Path string `json:"path"`

	// Column forces a header name; empty uses the account-id heuristics.
	Column string `json:"column,omitempty"`

	// Delimiter is a single-character field separator; "," when empty.
	Delimiter string `json:"delimiter,omitempty"`
}

// SourceSheet reads the identifier column of a previously exported workbook.
type SourceSheet struct {
	Path string `json:"path"`

	// Sheet defaults to the Report sheet.
	Sheet string `json:"sheet,omitempty"`
}

// Query configures batch construction.
type Query struct {
	// Table is the target table, e.g. "ccb.accounts".
	Table string `json:"table"`

	// IDColumn is matched against the identifier batches.
	IDColumn string `json:"id_column"`

	// Columns are the projected columns; empty selects "*".
	Columns []string `json:"columns,omitempty"`

	// BatchSize caps the IN-list size per statement. Must be positive.
	BatchSize int `json:"batch_size"`

	// Strict toggles allowlist validation before rendering. Defaults to
	// true; only an explicit false disables it.
	Strict *bool `json:"strict,omitempty"`

	// Escaping selects payload rendering: "params" (default) binds
	// parameters, "literal" inlines quoted, escaped identifiers for
	// backends that only accept raw query strings.
	Escaping string `json:"escaping,omitempty"`
}

// StrictEnabled resolves the Strict pointer with its default.
func (q Query) StrictEnabled() bool {
	return q.Strict == nil || *q.Strict
}

// Storage selects the query backend.
type Storage struct {
	// Kind is a registered backend: "postgres", "mssql", "mysql", "sqlite".
	Kind string `json:"kind"`

	// DSN is the driver connection string; the LOOKUP_DSN environment
	// variable takes precedence when set.
	DSN string `json:"dsn"`
}

// ResolveDSN returns the effective DSN after the environment override.
func (s Storage) ResolveDSN() string {
	if env := os.Getenv(EnvDSN); env != "" {
		return env
	}
	return s.DSN
}

// Export configures the template merge.
type Export struct {
	// Template is the path of the persistent template workbook.
	Template string `json:"template"`

	// Output is the destination artifact; must differ from Template. A
	// ".csv" extension switches to delimited output.
	Output string `json:"output"`

	// Sheet overrides the logical sheet name; "Report" when empty.
	Sheet string `json:"sheet,omitempty"`
}

// Load decodes a Run from the JSON file at path.
func Load(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var r Run
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return Run{}, fmt.Errorf("decode config: %w", err)
	}
	return r, nil
}
