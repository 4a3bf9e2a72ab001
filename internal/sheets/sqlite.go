package sheets

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"task-logger/internal/common/errors"
	"task-logger/internal/common/logging"
	"task-logger/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	cells      TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteGateway stores rows as JSON arrays in an append-only table,
// ordered by rowid. The database is opened on first use.
type SQLiteGateway struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteGateway creates a gateway backed by the database at path.
func NewSQLiteGateway(path string) *SQLiteGateway {
	return &SQLiteGateway{path: path}
}

func (g *SQLiteGateway) open(ctx context.Context) (*sql.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		return g.db, nil
	}

	db, err := sql.Open("sqlite3", g.path)
	if err != nil {
		return nil, errors.RemoteStoreError("failed to open row store", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.RemoteStoreError("failed to ping row store", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.RemoteStoreError("failed to migrate row store", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheet_rows`).Scan(&count); err != nil {
		db.Close()
		return nil, errors.RemoteStoreError("failed to count rows", err)
	}
	if count == 0 {
		if err := insertRow(ctx, db, models.Header); err != nil {
			db.Close()
			return nil, err
		}
	}

	logging.Info("Opened sqlite row store", logging.Field{Key: "path", Value: g.path})
	g.db = db
	return db, nil
}

func (g *SQLiteGateway) ReadAllRows(ctx context.Context) ([][]string, error) {
	db, err := g.open(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT cells FROM sheet_rows ORDER BY id`)
	if err != nil {
		return nil, errors.RemoteStoreError("failed to read rows", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.RemoteStoreError("failed to scan row", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, errors.RemoteStoreError("failed to decode row", err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.RemoteStoreError("failed to read rows", err)
	}
	return out, nil
}

func (g *SQLiteGateway) AppendRow(ctx context.Context, values []string) error {
	db, err := g.open(ctx)
	if err != nil {
		return err
	}
	return insertRow(ctx, db, values)
}

// Close releases the database if it was opened.
func (g *SQLiteGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

func insertRow(ctx context.Context, db *sql.DB, values []string) error {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return errors.InternalError("failed to encode row", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO sheet_rows (cells) VALUES (?)`, string(encoded)); err != nil {
		return errors.RemoteStoreError("failed to append row", err)
	}
	return nil
}
