package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"acctlookup/internal/identifier"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// MissingColumnError reports that no account-identifier-like column could be
// found in a tabular input. It carries the headers that were found so the
// user can pick a column manually or fix the file.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf(
		"no account id column found (looking for names like ACCT_Id / acct_id / account_id); found columns: %s",
		strings.Join(e.Columns, ", "),
	)
}

// Options configures CSV loading. All fields are optional.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// Column forces a specific header name instead of heuristic resolution.
	Column string
}

// LoadColumn reads the delimited file at path and returns the raw values of
// the resolved identifier column along with the column name that was chosen.
//
// The reader is configured leniently: variable field counts are tolerated
// and rows narrower than the resolved column index are skipped rather than
// failing the whole load. Encoding quirks beyond a UTF-8 BOM are the
// producer's problem, not this loader's.
func LoadColumn(path string, opt Options) ([]string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return readColumn(f, opt)
}

func readColumn(src io.Reader, opt Options) ([]string, string, error) {
	r := csv.NewReader(src)
	if opt.Comma != 0 {
		r.Comma = opt.Comma
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, "", &MissingColumnError{}
	}
	if err != nil {
		return nil, "", fmt.Errorf("read header: %w", err)
	}
	header = stripHeaderBOM(header)

	col := opt.Column
	if col == "" {
		var ok bool
		col, ok = ResolveIDColumn(header)
		if !ok {
			return nil, "", &MissingColumnError{Columns: header}
		}
	}

	idx := -1
	for i, h := range header {
		if h == col {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, "", &MissingColumnError{Columns: header}
	}

	var values []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("read row: %w", err)
		}
		if idx >= len(rec) {
			continue
		}
		values = append(values, rec[idx])
	}
	return values, col, nil
}

// stripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func stripHeaderBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}

// CSVSource loads identifiers from a resolved column of a delimited file.
// It implements identifier.Source.
type CSVSource struct {
	Path    string
	Options Options
}

func (s CSVSource) Identifiers() (*identifier.Set, error) {
	values, _, err := LoadColumn(s.Path, s.Options)
	if err != nil {
		return nil, err
	}
	return identifier.NormalizeValues(values), nil
}
