// Package export writes generated test-case sets to spreadsheet artifacts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/caseforge/caseforge/internal/testcase"
)

// sheetName is the single worksheet holding all sections.
const sheetName = "Test Cases"

// header is the fixed 9-column layout. Steps are newline-joined, test data
// is JSON-serialized and the section name is capitalized.
var header = []string{
	"Test Case ID", "Title", "Type", "Priority", "Precondition",
	"Steps", "Expected Result", "Test Data", "Section",
}

// Result reports the outcome of one export.
type Result struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Rows    int    `json:"rows"`
	Bytes   int64  `json:"bytes"`
	Error   string `json:"error,omitempty"`
}

// Write exports the set to path, choosing the format from the extension
// (.xlsx or .csv). Returns the artifact byte size.
func Write(set testcase.TestCaseSet, path string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeXLSX(set, path)
	case ".csv":
		return writeCSV(set, path)
	default:
		return nil, fmt.Errorf("unsupported export format: %s (supported: .xlsx, .csv)", filepath.Ext(path))
	}
}

// writeXLSX produces the workbook in memory and writes it in one shot so
// the byte size is known without a second stat.
func writeXLSX(set testcase.TestCaseSet, path string) (*Result, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	writeRow := func(row int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	rows, err := flatten(set)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	return &Result{Success: true, Path: path, Rows: len(rows), Bytes: int64(buf.Len())}, nil
}

func writeCSV(set testcase.TestCaseSet, path string) (*Result, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	rows, err := flatten(set)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &Result{Success: true, Path: path, Rows: len(rows), Bytes: info.Size()}, nil
}

// flatten produces one row per case across all sections in the fixed order
// positive, negative, boundary, edge.
func flatten(set testcase.TestCaseSet) ([][]string, error) {
	var rows [][]string
	for _, section := range testcase.Sections {
		for _, tc := range set[section] {
			testData, err := json.Marshal(tc.TestData)
			if err != nil {
				return nil, fmt.Errorf("serializing test data for %s: %w", tc.ID, err)
			}
			rows = append(rows, []string{
				tc.ID,
				tc.Title,
				string(tc.Type),
				string(tc.Priority),
				tc.Precondition,
				strings.Join(tc.Steps, "\n"),
				tc.ExpectedResult,
				string(testData),
				capitalize(string(section)),
			})
		}
	}
	return rows, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
