// Package sheets turns uploaded CSV and XLSX files into room and timetable
// records.
package sheets

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/examseating/internal/pkg/apperrors"
)

const utf8BOM = "\ufeff"

// IsSpreadsheet reports whether filename names an XLSX workbook
func IsSpreadsheet(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".xlsx")
}

// NormalizeHeader trims a header cell and removes its internal spaces, so
// "Room No " and "RoomNo" name the same column.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, utf8BOM)
	return strings.ReplaceAll(strings.TrimSpace(h), " ", "")
}

// readRows returns every row of the upload, header first. XLSX uploads are
// read from their first sheet; everything else is treated as CSV.
func readRows(filename string, r io.Reader) ([][]string, error) {
	if IsSpreadsheet(filename) {
		return readWorkbook(r)
	}
	return readCSV(r)
}

func readCSV(r io.Reader) ([][]string, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	rows, err := rd.ReadAll()
	if err != nil {
		return nil, apperrors.NewInvalidUploadError("could not read CSV file", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return rows, nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewInvalidUploadError("could not read XLSX file", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewInvalidUploadError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// table is a header-indexed view over uploaded rows
type table struct {
	columns map[string]int
	rows    [][]string
}

// newTable normalizes the header row and checks that every required column
// is present.
func newTable(rows [][]string, required []string) (*table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewInvalidUploadError("file is empty", nil)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		name := NormalizeHeader(h)
		if _, dup := columns[name]; !dup && name != "" {
			columns[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewInvalidUploadError(
			"missing required columns: "+strings.Join(missing, ", "),
			map[string]interface{}{"missingColumns": missing},
		)
	}

	return &table{columns: columns, rows: rows[1:]}, nil
}

// cell returns the trimmed value of column in row, or "" when the row is short
func (t *table) cell(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// each calls fn for every non-blank data row with its 1-based line number
// in the file (the header is line 1).
func (t *table) each(fn func(line int, row []string) error) error {
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		if err := fn(i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowError(line int, fields map[string]string) error {
	details := map[string]interface{}{
		"row":    line,
		"fields": fields,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fields[k])
	}
	return apperrors.NewInvalidUploadError(
		fmt.Sprintf("row %d: %s", line, strings.Join(msgs, "; ")),
		details,
	)
}
