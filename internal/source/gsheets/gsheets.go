// Package gsheets reads deal rows from a Google Sheets spreadsheet using a
// service account.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"slices"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"poolpower-site/internal/interfaces"
	"poolpower-site/internal/source/grid"
	"poolpower-site/internal/types"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Params configures the client. When SheetsOptions or DriveOptions are set
// they are used as-is and CredentialsFile is not read.
type Params struct {
	CredentialsFile string
	// ResourceID skips the Drive lookup by name.
	ResourceID    string
	SheetsOptions []option.ClientOption
	DriveOptions  []option.ClientOption
}

type Client struct {
	sheets     *sheets.Service
	drive      *drive.Service
	resourceID string
}

var _ interfaces.RecordSource = (*Client)(nil)

// New authenticates with the service-account key and builds the Sheets and
// Drive clients. Key problems are reported as types.ErrCredentials.
func New(ctx context.Context, p Params) (*Client, error) {
	sheetsOpts, driveOpts := p.SheetsOptions, p.DriveOptions
	if len(sheetsOpts) == 0 || len(driveOpts) == 0 {
		creds, err := loadCredentials(ctx, p.CredentialsFile)
		if err != nil {
			return nil, err
		}
		if len(sheetsOpts) == 0 {
			sheetsOpts = []option.ClientOption{option.WithCredentials(creds)}
		}
		if len(driveOpts) == 0 {
			driveOpts = []option.ClientOption{option.WithCredentials(creds)}
		}
	}

	sheetsSvc, err := sheets.NewService(ctx, sheetsOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets client: %v", types.ErrCredentials, err)
	}
	driveSvc, err := drive.NewService(ctx, driveOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: drive client: %v", types.ErrCredentials, err)
	}

	return &Client{
		sheets:     sheetsSvc,
		drive:      driveSvc,
		resourceID: p.ResourceID,
	}, nil
}

func loadCredentials(ctx context.Context, path string) (*google.Credentials, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no key file configured", types.ErrCredentials)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: key file not found at %s", types.ErrCredentials, path)
		}
		return nil, fmt.Errorf("%w: read key file: %v", types.ErrCredentials, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data,
		sheets.SpreadsheetsReadonlyScope,
		drive.DriveMetadataReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: parse key file %s: %v", types.ErrCredentials, path, err)
	}
	return creds, nil
}

func (c *Client) Name() string { return "gsheets" }

// ListTabs returns the tab titles of the named spreadsheet in sheet order.
func (c *Client) ListTabs(ctx context.Context, resource string) ([]string, error) {
	id, err := c.resolveID(ctx, resource)
	if err != nil {
		return nil, err
	}
	return c.tabs(ctx, resource, id)
}

// FetchRows reads every row of tab. The first row is the header; shorter
// rows are padded with empty strings and extra cells are ignored.
func (c *Client) FetchRows(ctx context.Context, resource, tab string) ([]types.DealRecord, error) {
	id, err := c.resolveID(ctx, resource)
	if err != nil {
		return nil, err
	}

	tabs, err := c.tabs(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(tabs, tab) {
		return nil, fmt.Errorf("%w: %q in spreadsheet %q", types.ErrTabNotFound, tab, resource)
	}

	resp, err := c.sheets.Spreadsheets.Values.Get(id, quoteSheetName(tab)).
		ValueRenderOption("FORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, resource)
	}
	return RowsToRecords(resp.Values)
}

func (c *Client) resolveID(ctx context.Context, resource string) (string, error) {
	if c.resourceID != "" {
		return c.resourceID, nil
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(resource), spreadsheetMimeType)
	res, err := c.drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", classify(err, resource)
	}
	if len(res.Files) == 0 {
		return "", fmt.Errorf("%w: spreadsheet %q is missing or not shared with the service account",
			types.ErrResourceNotFound, resource)
	}
	return res.Files[0].Id, nil
}

func (c *Client) tabs(ctx context.Context, resource, id string) ([]string, error) {
	ss, err := c.sheets.Spreadsheets.Get(id).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, resource)
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

// RowsToRecords stringifies the values grid and maps it to records keyed by
// the first row.
func RowsToRecords(values [][]interface{}) ([]types.DealRecord, error) {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = cellString(cell)
		}
	}
	return grid.ToRecords(rows)
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func quoteSheetName(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func classify(err error, resource string) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %v", types.ErrCredentials, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", types.ErrCredentials, err)
		case http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%w: spreadsheet %q: %v", types.ErrResourceNotFound, resource, err)
		}
	}
	return err
}
