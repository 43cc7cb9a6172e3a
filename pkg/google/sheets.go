package google

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/harrisonrobin/harvestboard/pkg/csvsheet"
	"github.com/harrisonrobin/harvestboard/pkg/model"
	"github.com/harrisonrobin/harvestboard/pkg/source"
	"github.com/harrisonrobin/harvestboard/pkg/writeback"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

// SheetsClient reads tasks from, and writes keyed updates to, one tab of a
// Google Sheets spreadsheet. The tab's first row holds the column headers.
type SheetsClient struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetName     string
	keyColumn     string
}

// NewSheetsClient wraps an existing Sheets service.
func NewSheetsClient(srv *sheets.Service, spreadsheetID, sheetName, keyColumn string) *SheetsClient {
	if keyColumn == "" {
		keyColumn = model.ColUID
	}
	return &SheetsClient{srv: srv, spreadsheetID: spreadsheetID, sheetName: sheetName, keyColumn: keyColumn}
}

// Rows returns every row of the tab as formatted text, header row first.
func (c *SheetsClient) Rows(ctx context.Context) ([][]string, error) {
	rows, err := c.values(ctx)
	if err != nil {
		return nil, &source.FetchError{URL: c.describe(), StatusCode: statusCode(err), Err: err}
	}
	blank := true
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				blank = false
			}
		}
	}
	if blank {
		return nil, csvsheet.ErrEmptySource
	}
	return rows, nil
}

// Update writes changes into the first row whose key column equals key.
func (c *SheetsClient) Update(ctx context.Context, key string, changes model.ChangeSet) error {
	rows, err := c.values(ctx)
	if err != nil {
		return &writeback.WriteError{Key: key, StatusCode: statusCode(err), Err: err}
	}
	if len(rows) == 0 {
		return &writeback.WriteError{Key: key, Err: errors.New("sheet has no header row")}
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		if header != "" {
			columns[header] = i
		}
	}
	keyCol, ok := columns[c.keyColumn]
	if !ok {
		return &writeback.WriteError{Key: key, Err: fmt.Errorf("key column %q not found", c.keyColumn)}
	}

	sheetRow := 0
	for i, row := range rows[1:] {
		if keyCol < len(row) && row[keyCol] == key {
			sheetRow = i + 2
			break
		}
	}
	if sheetRow == 0 {
		return &writeback.WriteError{Key: key, Err: fmt.Errorf("no row with %s=%q", c.keyColumn, key)}
	}

	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make([]*sheets.ValueRange, 0, len(names))
	for _, name := range names {
		col, ok := columns[name]
		if !ok {
			return &writeback.WriteError{Key: key, Err: fmt.Errorf("column %q not found", name)}
		}
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", quoteSheet(c.sheetName), ColumnLetter(col), sheetRow),
			Values: [][]interface{}{{changes[name]}},
		})
	}

	// RAW stores the text as sent, like the http write-back, so a note
	// starting with "=" is not evaluated and "1:30" stays text.
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := c.srv.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &writeback.WriteError{Key: key, StatusCode: statusCode(err), Err: err}
	}
	return nil
}

func (c *SheetsClient) values(ctx context.Context) ([][]string, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheet(c.sheetName)).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = strings.TrimSpace(fmt.Sprint(v))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *SheetsClient) describe() string {
	return fmt.Sprintf("sheets:%s/%s", c.spreadsheetID, c.sheetName)
}

// ColumnLetter converts a zero-based column index to A1 notation (0 -> A, 26 -> AA).
func ColumnLetter(i int) string {
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}
