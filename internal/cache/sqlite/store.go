// Package sqlite provides the SQLite-backed rendered-page cache.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/futureworld/futureworld.site/internal/cache"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	path TEXT PRIMARY KEY,
	content_type TEXT NOT NULL,
	body BLOB NOT NULL,
	rendered_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS page_tags (
	path TEXT NOT NULL REFERENCES pages(path) ON DELETE CASCADE,
	tag TEXT NOT NULL,
	PRIMARY KEY (path, tag)
);
CREATE INDEX IF NOT EXISTS idx_page_tags_tag ON page_tags(tag);
`

// Store provides SQLite-backed page cache persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the page cache store and ensures its schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure cache schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the cached entry for a path when present.
func (s *Store) Get(ctx context.Context, path string) (*cache.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, false, fmt.Errorf("cache store is not configured")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false, fmt.Errorf("path is required")
	}

	var entry cache.Entry
	var renderedAt int64
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT path, content_type, body, rendered_at FROM pages WHERE path = ?
`, path)
	if err := row.Scan(&entry.Path, &entry.ContentType, &entry.Body, &renderedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cached page: %w", err)
	}
	entry.RenderedAt = time.UnixMilli(renderedAt).UTC()

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT tag FROM page_tags WHERE path = ? ORDER BY tag`, path)
	if err != nil {
		return nil, false, fmt.Errorf("read page tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, false, fmt.Errorf("scan page tag: %w", err)
		}
		entry.Tags = append(entry.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate page tags: %w", err)
	}
	return &entry, true, nil
}

// Put stores or replaces the cached entry for a path, including its tag set.
func (s *Store) Put(ctx context.Context, entry cache.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("cache store is not configured")
	}
	entry.Path = strings.TrimSpace(entry.Path)
	if entry.Path == "" {
		return fmt.Errorf("path is required")
	}
	if entry.ContentType == "" {
		entry.ContentType = "text/html; charset=utf-8"
	}
	if entry.RenderedAt.IsZero() {
		entry.RenderedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO pages (path, content_type, body, rendered_at) VALUES (?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
	content_type = excluded.content_type,
	body = excluded.body,
	rendered_at = excluded.rendered_at
`, entry.Path, entry.ContentType, entry.Body, entry.RenderedAt.UTC().UnixMilli()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("write cached page: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM page_tags WHERE path = ?`, entry.Path); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear page tags: %w", err)
	}
	for _, tag := range entry.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO page_tags (path, tag) VALUES (?, ?)`, entry.Path, tag); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write page tag: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache write: %w", err)
	}
	return nil
}

// InvalidateTag discards every cached page carrying the tag.
func (s *Store) InvalidateTag(ctx context.Context, tag string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("cache store is not configured")
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 0, fmt.Errorf("tag is required")
	}
	res, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM pages WHERE path IN (SELECT path FROM page_tags WHERE tag = ?)
`, tag)
	if err != nil {
		return 0, fmt.Errorf("invalidate tag: %w", err)
	}
	return res.RowsAffected()
}

// InvalidatePath discards the cached page at a path.
func (s *Store) InvalidatePath(ctx context.Context, path string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("cache store is not configured")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, fmt.Errorf("path is required")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM pages WHERE path = ?`, path)
	if err != nil {
		return 0, fmt.Errorf("invalidate path: %w", err)
	}
	return res.RowsAffected()
}

// InvalidateAll discards every cached page.
func (s *Store) InvalidateAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("cache store is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM pages`)
	if err != nil {
		return 0, fmt.Errorf("invalidate all: %w", err)
	}
	return res.RowsAffected()
}

var _ cache.Store = (*Store)(nil)
