// Package export merges an aggregated result set into spreadsheet artifacts.
//
// The XLSX path works against a persistent template workbook: the template's
// Report sheet supplies layout and formatting, its stale data region is
// cleared, and the merged output is saved to a separate path so the template
// file itself is never overwritten with data.
package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"acctlookup/internal/identifier"
	"acctlookup/internal/result"
)

// ErrNoData is returned when an export is attempted with a zero-row result.
// The template is left unmodified; the caller should re-run the query first.
var ErrNoData = errors.New("no rows to write; run a query that returns results first")

// DefaultSheet is the logical sheet that carries the data region.
const DefaultSheet = "Report"

// TemplateWriter merges results into an XLSX template.
type TemplateWriter struct {
	// TemplatePath locates the template workbook. When the file does not
	// exist, a header-only template is created there first.
	TemplatePath string

	// Sheet is the logical sheet name; DefaultSheet when empty.
	Sheet string
}

func (w TemplateWriter) sheet() string {
	if w.Sheet == "" {
		return DefaultSheet
	}
	return w.Sheet
}

// Write merges res into the template and saves the result to outPath,
// returning the path written. Pre-existing data rows on the Report sheet are
// removed; other sheets in the workbook are untouched. Header cells are
// overwritten positionally from res.Columns, so schema drift between runs is
// tolerated rather than rejected.
func (w TemplateWriter) Write(res result.Table, outPath string) (string, error) {
	if len(res.Rows) == 0 {
		return "", ErrNoData
	}

	f, err := w.open(res.Columns)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sheet := w.sheet()
	prevWidth, err := clearDataRows(f, sheet)
	if err != nil {
		return "", err
	}
	if err := writeHeader(f, sheet, res.Columns, prevWidth); err != nil {
		return "", err
	}
	for r, row := range res.Rows {
		for c, v := range row {
			if v == nil {
				continue // empty cell, never a "null" marker
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return "", fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := f.SaveAs(outPath); err != nil {
		return "", fmt.Errorf("save output: %w", err)
	}
	return outPath, nil
}

// open loads the template workbook, creating a header-only template file
// when none exists yet.
func (w TemplateWriter) open(columns []string) (*excelize.File, error) {
	_, statErr := os.Stat(w.TemplatePath)
	if statErr == nil {
		f, err := excelize.OpenFile(w.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("open template: %w", err)
		}
		idx, err := f.GetSheetIndex(w.sheet())
		if err != nil || idx < 0 {
			f.Close()
			return nil, fmt.Errorf("template %s has no %q sheet", w.TemplatePath, w.sheet())
		}
		return f, nil
	}
	if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat template: %w", statErr)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", w.sheet()); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := writeHeader(f, w.sheet(), columns, 0); err != nil {
		f.Close()
		return nil, err
	}
	if dir := filepath.Dir(w.TemplatePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			f.Close()
			return nil, fmt.Errorf("create template dir: %w", err)
		}
	}
	if err := f.SaveAs(w.TemplatePath); err != nil {
		f.Close()
		return nil, fmt.Errorf("save template: %w", err)
	}
	return f, nil
}

// clearDataRows removes every row below the header on the given sheet and
// returns the width of the previous header row so stale header cells beyond
// a narrower schema can be blanked as well.
func clearDataRows(f *excelize.File, sheet string) (int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	for i := len(rows); i >= 2; i-- {
		if err := f.RemoveRow(sheet, i); err != nil {
			return 0, fmt.Errorf("clear row %d: %w", i, err)
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows[0]), nil
}

// writeHeader sets row 1 positionally from columns. Header cells left over
// from a wider previous schema (up to prevWidth) are blanked so the header
// always matches the result's columns exactly.
func writeHeader(f *excelize.File, sheet string, columns []string, prevWidth int) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("write header %q: %w", col, err)
		}
	}
	for i := len(columns) + 1; i <= prevWidth; i++ {
		cell, err := excelize.CoordinatesToCellName(i, 1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, ""); err != nil {
			return fmt.Errorf("clear header cell %s: %w", cell, err)
		}
	}
	return nil
}

// SheetSource re-ingests identifiers from the first column of a previously
// exported workbook, so a prior run's output can seed the next lookup. It
// implements identifier.Source.
type SheetSource struct {
	Path  string
	Sheet string // DefaultSheet when empty
}

func (s SheetSource) Identifiers() (*identifier.Set, error) {
	sheet := s.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	var values []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue // header
		}
		values = append(values, row[0])
	}
	return identifier.NormalizeValues(values), nil
}
