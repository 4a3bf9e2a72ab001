package sheets

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"task-logger/internal/common/errors"
	"task-logger/internal/common/logging"
)

// Scopes requested for the service account: the spreadsheet itself and
// Drive metadata to resolve it by display name.
var Scopes = []string{
	sheetsapi.SpreadsheetsScope,
	drive.DriveMetadataReadonlyScope,
}

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// GoogleConfig identifies the spreadsheet and the credentials to open it.
type GoogleConfig struct {
	SheetName       string
	SpreadsheetID   string
	CredentialsJSON string
}

// Handle is an authenticated connection to the first worksheet of one
// spreadsheet.
type Handle struct {
	SpreadsheetID string
	SheetID       int64
	SheetTitle    string

	srv *sheetsapi.Service
}

// GoogleGateway talks to Google Sheets. The handle is created on first use
// and kept for the life of the process; a failed attempt is retried by the
// next caller.
type GoogleGateway struct {
	config GoogleConfig
	logger logging.Logger

	// httpClient and the endpoints replace the service-account transport
	// and Google hosts, for tests.
	httpClient     *http.Client
	sheetsEndpoint string
	driveEndpoint  string

	mu     sync.Mutex
	handle *Handle
}

// NewGoogleGateway creates a gateway for config. Nothing is read or
// dialed until the first call.
func NewGoogleGateway(config GoogleConfig) *GoogleGateway {
	return &GoogleGateway{
		config: config,
		logger: logging.WithFields(logging.Field{Key: "component", Value: "sheets"}),
	}
}

// Handle returns the cached worksheet handle, connecting if needed.
// Concurrent first callers wait on the same connection attempt.
func (g *GoogleGateway) Handle(ctx context.Context) (*Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.handle != nil {
		return g.handle, nil
	}

	handle, err := g.connect(ctx)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Connected to spreadsheet",
		logging.Field{Key: "spreadsheet_id", Value: handle.SpreadsheetID},
		logging.Field{Key: "worksheet", Value: handle.SheetTitle},
	)

	g.handle = handle
	return handle, nil
}

func (g *GoogleGateway) ReadAllRows(ctx context.Context) ([][]string, error) {
	h, err := g.Handle(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.srv.Spreadsheets.Values.Get(h.SpreadsheetID, quoteSheetTitle(h.SheetTitle)).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteError("failed to read rows", err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			if s, ok := cell.(string); ok {
				cells[j] = s
			} else if cell != nil {
				cells[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = cells
	}
	return rows, nil
}

func (g *GoogleGateway) AppendRow(ctx context.Context, values []string) error {
	h, err := g.Handle(ctx)
	if err != nil {
		return err
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	// RAW keeps deadlines as text so they read back byte-for-byte.
	_, err = h.srv.Spreadsheets.Values.Append(h.SpreadsheetID, quoteSheetTitle(h.SheetTitle)+"!A1",
		&sheetsapi.ValueRange{MajorDimension: "ROWS", Values: [][]interface{}{cells}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return remoteError("failed to append row", err)
	}
	return nil
}

func (g *GoogleGateway) connect(ctx context.Context) (*Handle, error) {
	client, err := g.client()
	if err != nil {
		return nil, err
	}

	srv, err := sheetsapi.NewService(ctx, g.options(client, g.sheetsEndpoint)...)
	if err != nil {
		return nil, errors.RemoteStoreError("failed to create Sheets client", err)
	}

	spreadsheetID := g.config.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID, err = g.findSpreadsheet(ctx, client)
		if err != nil {
			return nil, err
		}
	}

	spreadsheet, err := srv.Spreadsheets.Get(spreadsheetID).
		Fields("spreadsheetId", "sheets.properties(sheetId,title,index)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteError("failed to open spreadsheet", err)
	}

	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
		return nil, errors.ConfigError("spreadsheet has no worksheets").
			WithContext("spreadsheet_id", spreadsheetID)
	}

	first := spreadsheet.Sheets[0].Properties
	return &Handle{
		SpreadsheetID: spreadsheetID,
		SheetID:       first.SheetId,
		SheetTitle:    first.Title,
		srv:           srv,
	}, nil
}

// client builds the service-account HTTP client from the credential blob.
func (g *GoogleGateway) client() (*http.Client, error) {
	if g.httpClient != nil {
		return g.httpClient, nil
	}

	blob := strings.TrimSpace(g.config.CredentialsJSON)
	if blob == "" {
		return nil, errors.ConfigError("GOOGLE_SERVICE_ACCOUNT_JSON not set")
	}

	jwtConfig, err := google.JWTConfigFromJSON([]byte(blob), Scopes...)
	if err != nil {
		return nil, &errors.AppError{
			Type:    errors.ErrTypeConfig,
			Message: "GOOGLE_SERVICE_ACCOUNT_JSON is not a valid service account key",
			Cause:   err,
		}
	}

	// The token source outlives the request that triggered the connection.
	return jwtConfig.Client(context.Background()), nil
}

func (g *GoogleGateway) options(client *http.Client, endpoint string) []option.ClientOption {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

func (g *GoogleGateway) findSpreadsheet(ctx context.Context, client *http.Client) (string, error) {
	if g.config.SheetName == "" {
		return "", errors.ConfigError("SHEET_NAME or SPREADSHEET_ID must be set")
	}

	srv, err := drive.NewService(ctx, g.options(client, g.driveEndpoint)...)
	if err != nil {
		return "", errors.RemoteStoreError("failed to create Drive client", err)
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQueryValue(g.config.SheetName), spreadsheetMimeType)

	list, err := srv.Files.List().
		Q(query).
		Fields("files(id,name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", remoteError("failed to look up spreadsheet", err)
	}

	if len(list.Files) == 0 {
		return "", errors.ConfigError(fmt.Sprintf("spreadsheet %q not found or not shared with the service account", g.config.SheetName))
	}
	if len(list.Files) > 1 {
		g.logger.Warn("Several spreadsheets share the configured name, using the first",
			logging.Field{Key: "sheet_name", Value: g.config.SheetName},
			logging.Field{Key: "matches", Value: len(list.Files)},
		)
	}

	return list.Files[0].Id, nil
}

// remoteError classifies a Google API failure. Rejected credentials become
// an authentication error tagged as coming from the remote side.
func remoteError(msg string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if stderrors.As(err, &retrieveErr) {
		return (&errors.AppError{
			Type:    errors.ErrTypeAuth,
			Message: "Google rejected the service account credentials",
			Cause:   err,
		}).WithCode(errors.CodeRemoteAuth)
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return (&errors.AppError{
				Type:    errors.ErrTypeAuth,
				Message: "Google denied access to the spreadsheet",
				Cause:   err,
			}).WithCode(errors.CodeRemoteAuth)
		}
	}

	return errors.RemoteStoreError(msg, err)
}

// quoteSheetTitle renders a worksheet title as an A1 sheet reference.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func escapeQueryValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
