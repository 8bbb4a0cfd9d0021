// Package sheets mirrors expense records into a Google Sheets spreadsheet.
// The sheet is a write-behind copy, never a source of truth: column A holds
// the store identifier so updates and deletes can locate their row.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var ErrRowNotFound = errors.New("no sheet row for expense id")

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Expenses").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Expenses"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("no Google credentials configured")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// AppendExpense adds a row: id, createdDate, description, cost.
func (c *Client) AppendExpense(ctx context.Context, id, description string, cost float64, createdDate time.Time) error {
	vr := &gsheet.ValueRange{
		Values: [][]interface{}{{
			id,
			createdDate.UTC().Format(time.RFC3339),
			description,
			cost,
		}},
	}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:D", vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// UpdateExpense rewrites only the supplied cells of the row holding id.
func (c *Client) UpdateExpense(ctx context.Context, id string, description *string, cost *float64) error {
	row, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}

	if description != nil {
		rng := fmt.Sprintf("%s!C%d", c.sheetName, row)
		vr := &gsheet.ValueRange{Values: [][]interface{}{{*description}}}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
			return fmt.Errorf("update description cell: %w", err)
		}
	}
	if cost != nil {
		rng := fmt.Sprintf("%s!D%d", c.sheetName, row)
		vr := &gsheet.ValueRange{Values: [][]interface{}{{*cost}}}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
			return fmt.Errorf("update cost cell: %w", err)
		}
	}
	return nil
}

// DeleteExpense removes the row holding id.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	row, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}

	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	return nil
}

// findRow returns the 1-based row whose first column equals id.
func (c *Client) findRow(ctx context.Context, id string) (int, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!A:A").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read id column: %w", err)
	}
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if cell, ok := row[0].(string); ok && cell == id {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrRowNotFound, id)
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet %s", c.sheetName, c.spreadsheetID)
}
