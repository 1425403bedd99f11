package query

import (
	"fmt"
	"strconv"
	"strings"
)

// ParamStyle selects the placeholder dialect of the target backend.
type ParamStyle int

const (
	// ParamQuestion renders "?" placeholders (sqlite, mysql).
	ParamQuestion ParamStyle = iota
	// ParamDollar renders "$1".."$n" placeholders (postgres).
	ParamDollar
	// ParamAt renders "@p1".."@pn" placeholders (sql server).
	ParamAt
)

// Placeholder returns the placeholder text for the i-th parameter (1-based).
func (s ParamStyle) Placeholder(i int) string {
	switch s {
	case ParamDollar:
		return "$" + strconv.Itoa(i)
	case ParamAt:
		return "@p" + strconv.Itoa(i)
	default:
		return "?"
	}
}

// Statement is one executable batch payload: SQL text plus bound arguments.
// Args is nil when the statement was rendered with escaped literals.
type Statement struct {
	SQL  string
	Args []any
}

// Builder renders identifier batches into SELECT statements against a single
// table. Parameterized rendering is the default; Literal switches to an
// escaped IN-list for backends that only accept raw query strings.
type Builder struct {
	// Table is the target table name, e.g. "ccb.accounts".
	Table string

	// IDColumn is the column matched against the identifier list.
	IDColumn string

	// Columns are the projected columns; empty means "*".
	Columns []string

	// Style is the placeholder dialect used for parameterized rendering.
	Style ParamStyle

	// Literal renders quoted, escaped identifiers inline instead of binding
	// parameters. Escaping (single quotes doubled) is unconditional here;
	// strict allowlist validation is the caller's responsibility and must
	// happen before rendering.
	Literal bool
}

// Build renders one batch into a Statement.
func (b Builder) Build(batch Batch) (Statement, error) {
	if strings.TrimSpace(b.Table) == "" {
		return Statement{}, fmt.Errorf("query builder: table must not be empty")
	}
	if strings.TrimSpace(b.IDColumn) == "" {
		return Statement{}, fmt.Errorf("query builder: id column must not be empty")
	}
	if len(batch.IDs) == 0 {
		return Statement{}, fmt.Errorf("query builder: batch %d is empty", batch.Index)
	}

	projection := "*"
	if len(b.Columns) > 0 {
		projection = strings.Join(b.Columns, ", ")
	}

	var (
		list strings.Builder
		args []any
	)
	for i, id := range batch.IDs {
		if i > 0 {
			list.WriteString(", ")
		}
		if b.Literal {
			list.WriteString(quoteLiteral(id))
		} else {
			list.WriteString(b.Style.Placeholder(i + 1))
		}
	}
	if !b.Literal {
		args = make([]any, len(batch.IDs))
		for i, id := range batch.IDs {
			args[i] = id
		}
	}

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)",
		projection, b.Table, b.IDColumn, list.String())
	return Statement{SQL: sql, Args: args}, nil
}

// BuildAll renders every batch in order.
func (b Builder) BuildAll(batches []Batch) ([]Statement, error) {
	stmts := make([]Statement, 0, len(batches))
	for _, batch := range batches {
		stmt, err := b.Build(batch)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// quoteLiteral wraps id in single quotes, doubling any embedded single quote.
func quoteLiteral(id string) string {
	return "'" + strings.ReplaceAll(id, "'", "''") + "'"
}
