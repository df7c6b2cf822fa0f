package pipeline

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the curated spreadsheet.
const (
	nestedSheet      = "Nested Lists"
	foundationsSheet = "Foundations & Cross-Cutting"
)

// Workbook holds the two raw row tables of the input spreadsheet. Rows come
// straight from the sheet with no header interpretation; row 0 of the nested
// sheet is the header row.
type Workbook struct {
	Nested      [][]string
	Foundations [][]string
}

// LoadWorkbook reads both sheets from the xlsx file at path. A missing file
// or sheet is fatal: the pipeline never commits a partial graph from a
// malformed workbook.
func LoadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	nested, err := f.GetRows(nestedSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", nestedSheet, err)
	}
	foundations, err := f.GetRows(foundationsSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", foundationsSheet, err)
	}
	if len(nested) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", nestedSheet)
	}

	return &Workbook{Nested: nested, Foundations: foundations}, nil
}

// cell returns the trimmed cell at col, tolerating the ragged rows excelize
// produces (trailing empty cells are not materialized).
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
