package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	apperrors "tabprep/internal/errors"
)

// LoadOptions configures how input files are read
type LoadOptions struct {
	// Delimiter separates fields in text input. Zero means ','.
	Delimiter rune
	// Sheet selects the worksheet of .xlsx input. Empty means the first sheet.
	Sheet string
}

// LoadFile reads a delimited text file, or an .xlsx workbook, with a header
// row into a typed table. A missing or unreadable file is an IOError; an empty
// file or rows with inconsistent field counts are FormatErrors.
func LoadFile(path string, opts LoadOptions) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewIOError("cannot access input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return nil, apperrors.NewIOError(fmt.Sprintf("%s is a directory, not a file", path), nil).
			WithContext("path", path)
	}

	var header []string
	var rows [][]string
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		header, rows, err = readWorkbook(path, opts.Sheet)
	} else {
		header, rows, err = readDelimitedFile(path, opts.Delimiter)
	}
	if err != nil {
		return nil, err
	}
	return TableFromRecords(header, rows)
}

func readDelimitedFile(path string, delimiter rune) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.NewIOError("cannot open input file", err).WithContext("path", path)
	}
	defer f.Close()

	header, rows, err := ReadDelimited(bufio.NewReader(f), delimiter)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return nil, nil, err
	}
	return header, rows, nil
}

// ReadDelimited reads a header row and data rows from r. Every row must have
// as many fields as the header. A leading UTF-8 byte order mark is dropped.
func ReadDelimited(r io.Reader, delimiter rune) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	if delimiter != 0 {
		if !validDelimiter(delimiter) {
			return nil, nil, apperrors.NewFormatError("invalid field delimiter", nil).
				WithContext("delimiter", string(delimiter))
		}
		cr.Comma = delimiter
	}
	cr.FieldsPerRecord = 0

	records, err := cr.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, nil, apperrors.NewFormatError("malformed input", err).
				WithContext("line", parseErr.Line)
		}
		return nil, nil, apperrors.NewIOError("failed to read input", err)
	}
	if len(records) == 0 {
		return nil, nil, apperrors.NewFormatError("input has no header row", nil)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	return header, records[1:], nil
}

// validDelimiter mirrors the runes encoding/csv accepts as Comma
func validDelimiter(r rune) bool {
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}

// readWorkbook reads one worksheet. excelize omits trailing empty cells, so
// short rows are padded to the header width; fully empty rows are skipped.
func readWorkbook(path, sheet string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.NewFormatError("cannot open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, apperrors.NewFormatError("workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, apperrors.NewFormatError(fmt.Sprintf("cannot read sheet %q", sheet), err).
			WithContext("path", path)
	}

	var header []string
	var rows [][]string
	for i, row := range all {
		if len(row) == 0 {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		if len(row) > len(header) {
			return nil, nil, apperrors.NewFormatError(
				fmt.Sprintf("sheet %q row %d has %d fields, header has %d", sheet, i+1, len(row), len(header)), nil).
				WithContext("path", path).
				WithContext("row", i+1)
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	if header == nil {
		return nil, nil, apperrors.NewFormatError(fmt.Sprintf("sheet %q has no header row", sheet), nil).
			WithContext("path", path)
	}
	return header, rows, nil
}
