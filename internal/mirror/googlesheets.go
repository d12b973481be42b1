package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleConfig locates the worksheet that receives the mirrored rows.
type GoogleConfig struct {
	// CredentialsFile is the path of the service-account JSON key.
	CredentialsFile string
	// SpreadsheetID identifies the spreadsheet. If it is empty, the spreadsheet is looked up by title.
	SpreadsheetID string
	// SpreadsheetTitle is the name of the spreadsheet, as shown in Google Drive.
	SpreadsheetTitle string
	// Worksheet is the name of the tab inside the spreadsheet.
	Worksheet string
}

// GoogleSheet is a Sheet backed by the Google Sheets API.
type GoogleSheet struct {
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewGoogleSheet authenticates with the service-account credentials and resolves the spreadsheet.
// A missing credentials file is an error. Additional client options are appended after the
// credentials, which lets tests point the client at a fake endpoint.
func NewGoogleSheet(ctx context.Context, cfg GoogleConfig, opts ...option.ClientOption) (*GoogleSheet, error) {
	if cfg.Worksheet == "" {
		return nil, errors.New("worksheet name is empty")
	}
	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("credentials file: %w", err)
		}
		clientOpts = append(clientOpts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}
	id := cfg.SpreadsheetID
	if id == "" {
		id, err = findSpreadsheet(ctx, cfg.SpreadsheetTitle, clientOpts)
		if err != nil {
			return nil, err
		}
	}
	return &GoogleSheet{service: service, spreadsheetID: id, worksheet: cfg.Worksheet}, nil
}

// findSpreadsheet returns the id of the first spreadsheet with the given title that the service
// account can see.
func findSpreadsheet(ctx context.Context, title string, opts []option.ClientOption) (string, error) {
	if title == "" {
		return "", errors.New("neither spreadsheet id nor title is configured")
	}
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("unable to create drive client: %w", err)
	}
	query := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		quoteQueryValue(title))
	list, err := service.Files.List().Q(query).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to search spreadsheet %q: %w", title, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found", title)
	}
	return list.Files[0].Id, nil
}

// quoteQueryValue escapes a string literal of a Drive search query.
func quoteQueryValue(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// SpreadsheetID returns the id of the resolved spreadsheet.
func (g *GoogleSheet) SpreadsheetID() string {
	return g.spreadsheetID
}

// Values returns the formatted values of all rows of the worksheet.
func (g *GoogleSheet) Values(ctx context.Context) ([][]string, error) {
	resp, err := g.service.Spreadsheets.Values.Get(g.spreadsheetID, g.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow appends the cells as a new row. Values are written as they are, without parsing.
func (g *GoogleSheet) AppendRow(ctx context.Context, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	_, err := g.service.Spreadsheets.Values.
		Append(g.spreadsheetID, g.worksheet, &sheets.ValueRange{Values: [][]interface{}{cells}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
