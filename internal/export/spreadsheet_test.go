package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/caseforge/caseforge/internal/testcase"
)

func sampleSet(t *testing.T) testcase.TestCaseSet {
	t.Helper()
	set, err := testcase.Synthesize(testcase.APIInput{
		Endpoint: "/login",
		Method:   "POST",
		Request:  map[string]any{"username": "string"},
	}, "TC__LOGIN")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	return set
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.csv")

	result, err := Write(sampleSet(t), path)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if result.Rows != 7 {
		t.Errorf("rows = %d; want 7", result.Rows)
	}
	if result.Bytes <= 0 {
		t.Errorf("bytes = %d; want > 0", result.Bytes)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening artifact: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("record count = %d; want header + 7 rows", len(records))
	}
	if len(records[0]) != 9 {
		t.Errorf("column count = %d; want 9", len(records[0]))
	}
	if records[0][0] != "Test Case ID" || records[0][8] != "Section" {
		t.Errorf("header = %v", records[0])
	}

	// Section column is capitalized and rows follow the fixed order.
	if records[1][8] != "Positive" {
		t.Errorf("first row section = %q; want Positive", records[1][8])
	}
	if records[7][8] != "Edge" {
		t.Errorf("last row section = %q; want Edge", records[7][8])
	}
	if records[1][0] != "TC__LOGIN_POS_001" {
		t.Errorf("first row id = %q", records[1][0])
	}
	if !strings.Contains(records[1][5], "\n") {
		t.Errorf("steps must be newline-joined: %q", records[1][5])
	}
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.xlsx")

	result, err := Write(sampleSet(t), path)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if result.Bytes <= 0 {
		t.Errorf("bytes = %d; want > 0", result.Bytes)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Test Cases")
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("row count = %d; want header + 7 rows", len(rows))
	}
	if rows[0][0] != "Test Case ID" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "positive" {
		t.Errorf("type column = %q; want positive", rows[1][2])
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	_, err := Write(sampleSet(t), filepath.Join(t.TempDir(), "cases.pdf"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported export format") {
		t.Errorf("error = %v", err)
	}
}
