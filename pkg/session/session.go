// Package session persists the editor's open tabs between runs in a small
// SQLite database, alongside the list of recently used documents.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrNoSession is returned by Load when nothing has been saved yet.
var ErrNoSession = errors.New("no saved session")

const currentKey = "current"

// DB wraps the session database.
type DB struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Open opens or creates the session database at path.
func Open(path string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating session directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session schema: %w", err)
	}
	return &DB{db: db, log: log.Named("session"), now: time.Now}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			saved_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS recent (
			path TEXT PRIMARY KEY,
			used_at TEXT NOT NULL
		);
	`)
	return err
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Save replaces the stored session snapshot.
func (d *DB) Save(ctx context.Context, data []byte) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at
	`, currentKey, data, d.stamp())
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	d.log.Debug("session saved", zap.Int("bytes", len(data)))
	return nil
}

// Load returns the stored session snapshot, or ErrNoSession.
func (d *DB) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := d.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, currentKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return data, nil
}

// Clear forgets the stored session.
func (d *DB) Clear(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, currentKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Touch records path as recently used.
func (d *DB) Touch(ctx context.Context, path string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO recent (path, used_at) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET used_at = excluded.used_at
	`, path, d.stamp())
	if err != nil {
		return fmt.Errorf("recording recent document %s: %w", path, err)
	}
	return nil
}

// Recent returns up to limit recently used document paths, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT path FROM recent ORDER BY used_at DESC, path LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent documents: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning recent document: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (d *DB) stamp() string {
	return d.now().UTC().Format(time.RFC3339Nano)
}
