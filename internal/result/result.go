// Package result holds the tabular result model and the aggregation step
// that merges per-batch result tables into one ordered result set.
package result

import (
	"fmt"
	"slices"
	"strings"
)

// Table is one result set: ordered column names plus rows of values aligned
// to those columns. Backends produce one Table per executed batch.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the table carries neither schema nor rows.
func (t Table) Empty() bool {
	return len(t.Columns) == 0 && len(t.Rows) == 0
}

// SchemaMismatchError reports a batch result whose column sequence differs
// from the schema established by the first non-empty table.
type SchemaMismatchError struct {
	Table int // zero-based position in the aggregation input
	Want  []string
	Got   []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("result table %d has columns [%s], want [%s]",
		e.Table, strings.Join(e.Got, ", "), strings.Join(e.Want, ", "))
}

// Aggregate concatenates the tables in order into a single Table. The column
// sequence of every non-empty table must match the first non-empty table's
// exactly. Rows keep batch order, then within-batch order; no sorting or
// deduplication happens here. An empty input (or all-empty tables) yields a
// zero-row Table with no schema, which callers treat as "no results".
func Aggregate(tables []Table) (Table, error) {
	var out Table
	for i, t := range tables {
		if t.Empty() {
			continue
		}
		if out.Columns == nil {
			out.Columns = slices.Clone(t.Columns)
		} else if !slices.Equal(t.Columns, out.Columns) {
			return Table{}, &SchemaMismatchError{Table: i, Want: out.Columns, Got: t.Columns}
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out, nil
}
