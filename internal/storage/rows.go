package storage

import (
	"database/sql"
	"fmt"

	"acctlookup/internal/result"
)

// TableFromRows drains a database/sql result set into a result.Table. It is
// shared by the database/sql-backed executors (mssql, mysql, sqlite).
//
// Driver-returned []byte values are converted to string so that downstream
// export writes text instead of base64/byte noise; NULLs stay nil and are
// rendered as empty cells by the template writer.
func TableFromRows(rows *sql.Rows) (result.Table, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return result.Table{}, fmt.Errorf("columns: %w", err)
	}

	var out result.Table
	out.Columns = cols
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return result.Table{}, fmt.Errorf("scan: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return result.Table{}, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
