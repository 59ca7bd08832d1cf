package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"tsquality/internal/analysis"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .csv, .txt and .xlsx
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMalformedInput wraps reader failures and rows wider than the header
	ErrMalformedInput = errors.New("malformed input")
)

// Supported file extensions
const (
	ExtCSV  = ".csv"
	ExtTXT  = ".txt"
	ExtXLSX = ".xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// naTokens are the cell spellings read as missing values
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// InferCell turns a raw text cell into a Value: missing-value tokens become
// null, finite numbers become numbers, everything else stays text.
func InferCell(raw string) analysis.Value {
	s := strings.TrimSpace(raw)
	if _, ok := naTokens[s]; ok {
		return analysis.Null()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return analysis.Number(f)
	}
	return analysis.Text(s)
}

// SupportedExtension reports whether name has an extension Parse accepts
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtCSV, ExtTXT, ExtXLSX:
		return true
	}
	return false
}

// ParseFile reads a CSV or Excel file into a table.
func ParseFile(filePath string) (*analysis.Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Parse(filepath.Base(filePath), f)
}

// Parse dispatches on the extension of name.
func Parse(name string, r io.Reader) (*analysis.Table, error) {
	var (
		t   *analysis.Table
		err error
	)
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ExtCSV, ExtTXT:
		t, err = ParseCSV(r)
	case ExtXLSX:
		t, err = ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Parsed input file",
		slog.String("file_name", name),
		slog.Int("rows", t.Len()),
		slog.Int("columns", t.Width()))
	return t, nil
}

// ParseCSV reads a header row followed by data rows. A leading UTF-8 BOM
// is skipped, short rows are padded with nulls and rows longer than the
// header are rejected. An input with no header yields an empty table.
func ParseCSV(r io.Reader) (*analysis.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	// Set FieldsPerRecord to -1 to allow variable number of fields
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return analysis.NewTable(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", ErrMalformedInput, err)
	}
	columns := headerNames(header)

	var rows [][]analysis.Value
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		if len(record) > len(columns) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrMalformedInput, line, len(record), len(columns))
		}
		rows = append(rows, inferRow(record, len(columns)))
	}

	return analysis.NewTable(columns, rows), nil
}

// ParseXLSX reads the first worksheet of a workbook. Numeric cells in the
// Date column are Excel serial dates and are converted to dates.
func ParseXLSX(r io.Reader) (*analysis.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return analysis.NewTable(nil, nil), nil
	}

	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", ErrMalformedInput, sheets[0], err)
	}
	if len(raw) == 0 {
		return analysis.NewTable(nil, nil), nil
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	columns := headerNames(raw[0])
	dateIdx := -1
	for i, c := range columns {
		if c == analysis.DateColumn {
			dateIdx = i
			break
		}
	}

	rows := make([][]analysis.Value, 0, len(raw)-1)
	for i, record := range raw[1:] {
		if len(record) > len(columns) {
			// Trailing cells beyond the header are tolerated only when blank
			for _, extra := range record[len(columns):] {
				if strings.TrimSpace(extra) != "" {
					return nil, fmt.Errorf("%w: row %d has %d cells, header has %d",
						ErrMalformedInput, i+2, len(record), len(columns))
				}
			}
			record = record[:len(columns)]
		}
		if blankRecord(record) {
			continue
		}
		row := inferRow(record, len(columns))
		if dateIdx >= 0 && row[dateIdx].Kind == analysis.KindNumber {
			if ts, err := excelize.ExcelDateToTime(row[dateIdx].Num, date1904); err == nil {
				row[dateIdx] = analysis.Date(ts)
			}
		}
		rows = append(rows, row)
	}

	return analysis.NewTable(columns, rows), nil
}

// headerNames trims header cells and disambiguates repeated names by
// appending .1, .2, ...
func headerNames(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			candidate := fmt.Sprintf("%s.%d", name, n+1)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				seen[name]++
				candidate = fmt.Sprintf("%s.%d", name, seen[name])
			}
			name = candidate
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

func inferRow(record []string, width int) []analysis.Value {
	row := make([]analysis.Value, width)
	for i := range row {
		if i < len(record) {
			row[i] = InferCell(record[i])
		} else {
			row[i] = analysis.Null()
		}
	}
	return row
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
