// Package sheets wraps the Google Sheets API calls used by the report
// mirror. Only two operations are needed: appending one report row and
// making sure the header row exists.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/adopshq/mkt-report-api/pkg/config"
)

// Client talks to one configured spreadsheet.
type Client struct {
	svc *sheetsapi.Service
	cfg config.SheetsConfig
}

// NewClient builds a Sheets client authenticated with the configured
// service-account credentials file.
func NewClient(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, cfg: cfg}, nil
}

// Append appends one row after the existing data and returns the A1 range
// the API reports it landed in.
func (c *Client) Append(ctx context.Context, row []interface{}) (string, error) {
	body := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
	resp, err := c.svc.Spreadsheets.Values.
		Append(c.cfg.SpreadsheetID, c.cfg.AppendRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}
	if resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}

// EnsureHeader writes the header row only when the header range is still
// empty, so re-running it never clobbers existing data.
func (c *Client) EnsureHeader(ctx context.Context, header []interface{}) error {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.cfg.SpreadsheetID, c.cfg.HeaderRange).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read header range: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	body := &sheetsapi.ValueRange{Values: [][]interface{}{header}}
	_, err = c.svc.Spreadsheets.Values.
		Update(c.cfg.SpreadsheetID, c.cfg.HeaderRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}
