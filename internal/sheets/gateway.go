// Package sheets is the row store behind the task log. The production
// backend is a Google Sheets worksheet; sqlite and memory backends share
// the same append-only contract for local runs and tests.
package sheets

import (
	"context"
	"fmt"

	"task-logger/internal/config"
)

// Gateway reads and appends rows of cell text. Rows come back oldest first
// and are re-fetched on every call.
type Gateway interface {
	ReadAllRows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, values []string) error
}

// New builds the gateway selected by SHEETS_BACKEND. No backend connects
// here; each one opens its handle on first use.
func New(cfg *config.Config) (Gateway, error) {
	switch cfg.SheetsBackend {
	case config.BackendGoogle, "":
		return NewGoogleGateway(GoogleConfig{
			SheetName:       cfg.SheetName,
			SpreadsheetID:   cfg.SpreadsheetID,
			CredentialsJSON: cfg.ServiceAccountJSON,
		}), nil
	case config.BackendSQLite:
		return NewSQLiteGateway(cfg.SQLitePath), nil
	case config.BackendMemory:
		return NewMemoryGateway(), nil
	default:
		return nil, fmt.Errorf("unsupported sheets backend: %s", cfg.SheetsBackend)
	}
}

func cloneRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}
