package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SurveyHeader is the raw header of a small obesity survey export
var SurveyHeader = []string{"Patient_ID", "Gender", "Age", "Height", "Weight", "FAVC", "CH2O", "FCVC", "Obesity_Level"}

// SurveyRows are raw survey records: row 3 repeats row 2, row 4 lacks an age
// and a gender, row 5 lacks a height.
var SurveyRows = [][]string{
	{"1", "Female", "21", "1.62", "64", "yes", "2.0", "2", "Normal_Weight"},
	{"2", "Male", "23", "1.8", "77", "no", "2.456", "3", "Overweight"},
	{"2", "Male", "23", "1.8", "77", "no", "2.456", "3", "Overweight"},
	{"3", "", "NA", "1.75", "90.5", "yes", "1.5", "2.7", "Obesity_Type_I"},
	{"4", "Female", "30.6", "", "55", "yes", "3", "1", "Normal_Weight"},
}

// JoinCSV renders a header and rows as comma-separated text with a trailing newline
func JoinCSV(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile writes content to name inside a fresh temporary directory and returns its path
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteCSVFixture writes header and rows to a temporary CSV file and returns its path
func WriteCSVFixture(t testing.TB, header []string, rows [][]string) string {
	t.Helper()
	return WriteFile(t, "input.csv", JoinCSV(header, rows))
}

// WriteWorkbookFixture writes header and rows to sheet of a temporary .xlsx
// workbook and returns its path. Empty cells are left unset.
func WriteWorkbookFixture(t testing.TB, sheet string, header []string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.xlsx")

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("create sheet %s: %v", sheet, err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("delete default sheet: %v", err)
		}
	}

	all := append([][]string{header}, rows...)
	for r, row := range all {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}
