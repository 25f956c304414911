package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	screens    INTEGER NOT NULL,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

const sqliteBusyRetries = 3

// SQLiteStore keeps projects in one table of an SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path. ":memory:" gives a
// private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		sqliteSchema,
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", strings.SplitN(p, "\n", 2)[0], err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// isBusy reports whether err is an SQLite BUSY condition.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *SQLiteStore) exec(ctx context.Context, query string, args ...any) error {
	for i := range sqliteBusyRetries {
		_, err := s.db.ExecContext(ctx, query, args...)
		if err == nil || !isBusy(err) || i == sqliteBusyRetries-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(100*(i+1)) * time.Millisecond):
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Project, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM projects WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load %s: %w", id, err)
	}
	return Decode(data)
}

func (s *SQLiteStore) Save(ctx context.Context, p *Project) error {
	stamp(p, time.Now())
	data, err := Encode(p)
	if err != nil {
		return err
	}
	sum := p.Summarize()
	err = s.exec(ctx, `INSERT INTO projects (id, name, screens, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			screens = excluded.screens,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		p.ID, sum.Name, sum.Screens, data, p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := s.exec(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, screens, updated_at FROM projects ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Screens, &updated); err != nil {
			return nil, fmt.Errorf("sqlite: list: %w", err)
		}
		sum.UpdatedAt = time.Unix(0, updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
