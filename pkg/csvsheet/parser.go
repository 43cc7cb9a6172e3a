// Package csvsheet turns a spreadsheet CSV export into harvest tasks.
//
// The parser is a single state machine over the whole text, so a quoted
// field may span lines. A doubled quote inside a quoted field is a literal
// quote; a lone quote toggles the quoted state wherever it appears.
package csvsheet

import (
	"errors"
	"strings"

	"github.com/harrisonrobin/harvestboard/pkg/model"
	"github.com/harrisonrobin/harvestboard/pkg/util"
)

var (
	// ErrEmptySource is returned for empty or whitespace-only input.
	ErrEmptySource = errors.New("csv source is empty")
	// ErrMissingHeaders is returned when the first line has no column names.
	ErrMissingHeaders = errors.New("csv source has no header row")
)

// Parse splits text into rows of trimmed cells, one row per record.
// Trailing blank lines are dropped; interior blank lines are kept as rows
// so that row positions keep matching the sheet.
func Parse(text string) ([][]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySource
	}

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, strings.TrimSpace(field.String()))
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			endField()
		case c == '\r' && !inQuotes:
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			endRow()
		case c == '\n' && !inQuotes:
			endRow()
		default:
			field.WriteByte(c)
		}
	}
	endRow()

	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

// Records zips every row after the first against the header row. Missing
// trailing cells become "". The Harvest Date column is normalized. Each
// record's RowKey is its sheet row number (header is row 1), and its UID is
// taken from keyColumn (model.ColUID when empty).
func Records(rows [][]string, keyColumn string) ([]model.Task, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySource
	}
	headers := rows[0]
	if isBlank(headers) {
		return nil, ErrMissingHeaders
	}
	if keyColumn == "" {
		keyColumn = model.ColUID
	}

	tasks := make([]model.Task, 0, len(rows)-1)
	for i, row := range rows[1:] {
		fields := make(map[string]string, len(headers))
		for j, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if j < len(row) {
				value = row[j]
			}
			if header == model.ColHarvestDate {
				value = util.NormalizeDate(value)
			}
			fields[header] = value
		}
		tasks = append(tasks, model.Task{
			RowKey: 2 + i,
			UID:    fields[keyColumn],
			Fields: fields,
		})
	}
	return tasks, nil
}

// ParseTasks parses CSV text straight into task records.
func ParseTasks(text, keyColumn string) ([]model.Task, error) {
	rows, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Records(rows, keyColumn)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
