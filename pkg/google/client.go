package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/harvestboard/pkg/auth"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewClient creates an authenticated Sheets client for one tab.
func NewClient(ctx context.Context, spreadsheetID, sheetName, keyColumn string) (*SheetsClient, error) {
	client, err := auth.GetClient(ctx, auth.SheetsScopes)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %w", err)
	}

	if _, err := srv.Spreadsheets.Get(spreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("spreadsheet '%s' not reachable: %w", spreadsheetID, err)
	}

	return NewSheetsClient(srv, spreadsheetID, sheetName, keyColumn), nil
}
