// This file adds a lightweight linter/validator for Run values. It performs
// static checks over a decoded Run and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block
	// execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Run.
//
// Path is a dotted path into the config (e.g. "query.batch_size").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// sourceKinds and escapingModes are the accepted enumerations.
var (
	sourceKinds   = map[string]struct{}{"text": {}, "csv": {}, "sheet": {}}
	escapingModes = map[string]struct{}{"": {}, "params": {}, "literal": {}}
)

// Validate performs static validation / linting of a Run.
//
// It does not mutate the run. Callers may decide whether to treat warnings
// as fatal or not.
func Validate(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(r.Source)...)
	issues = append(issues, validateQuery(r.Query)...)
	issues = append(issues, validateStorage(r.Storage)...)
	issues = append(issues, validateExport(r.Export)...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	}
	if _, ok := sourceKinds[s.Kind]; !ok {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source.kind %q (known: text, csv, sheet)", s.Kind),
		})
	}

	switch s.Kind {
	case "text":
		if strings.TrimSpace(s.Text.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.text.path",
				Message:  `path must not be empty (use "-" for stdin)`,
			})
		}
	case "csv":
		if strings.TrimSpace(s.CSV.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.csv.path",
				Message:  "path must not be empty",
			})
		}
		if s.CSV.Delimiter != "" && utf8.RuneCountInString(s.CSV.Delimiter) != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.csv.delimiter",
				Message:  "delimiter must be a single character",
			})
		}
	case "sheet":
		if strings.TrimSpace(s.Sheet.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.sheet.path",
				Message:  "path must not be empty",
			})
		}
	}
	return issues
}

func validateQuery(q Query) []Issue {
	var issues []Issue

	if strings.TrimSpace(q.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "query.table",
			Message:  "table must not be empty",
		})
	}
	if strings.TrimSpace(q.IDColumn) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "query.id_column",
			Message:  "id_column must not be empty",
		})
	}
	if q.BatchSize < 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "query.batch_size",
			Message:  "batch_size must be a positive integer (the backend IN-list limit)",
		})
	}
	if _, ok := escapingModes[q.Escaping]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "query.escaping",
			Message:  fmt.Sprintf("unknown escaping %q (known: params, literal)", q.Escaping),
		})
	}
	if q.Escaping == "literal" && !q.StrictEnabled() {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "query.escaping",
			Message:  "literal rendering with strict validation disabled relies on escaping alone",
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}
	if strings.TrimSpace(s.DSN) == "" {
		// The env override may still supply it at run time.
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.dsn",
			Message:  fmt.Sprintf("dsn is empty; set it or export %s", EnvDSN),
		})
	}
	return issues
}

func validateExport(e Export) []Issue {
	var issues []Issue

	if strings.TrimSpace(e.Output) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "export.output",
			Message:  "output must not be empty",
		})
	}
	isCSV := strings.EqualFold(filepath.Ext(e.Output), ".csv")
	if strings.TrimSpace(e.Template) == "" && !isCSV {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "export.template",
			Message:  "template must not be empty for spreadsheet output",
		})
	}
	if e.Template != "" && e.Template == e.Output {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "export.output",
			Message:  "output must differ from the template path; the template is never overwritten with data",
		})
	}
	return issues
}
