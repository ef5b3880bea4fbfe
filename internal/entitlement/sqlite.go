package entitlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteChecker reads entitlements from a local SQLite table maintained by
// the surrounding application (one row per identity with an expiry).
type SQLiteChecker struct {
	db *sql.DB
}

// NewSQLiteChecker opens the database at path and ensures the schema.
func NewSQLiteChecker(path string) (*SQLiteChecker, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open entitlement database: %w", err)
	}
	_, err = db.ExecContext(context.Background(), `CREATE TABLE IF NOT EXISTS entitlements (
        identity TEXT PRIMARY KEY,
        expires_at TEXT NOT NULL
    );`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate entitlements: %w", err)
	}
	return &SQLiteChecker{db: db}, nil
}

// HasActiveEntitlement reports whether the identity holds an unexpired
// entitlement row.
func (c *SQLiteChecker) HasActiveEntitlement(ctx context.Context, identity string) (bool, error) {
	var expiresAt string
	err := c.db.QueryRowContext(ctx,
		`SELECT expires_at FROM entitlements WHERE identity = ?`, identity).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check entitlement for %s: %w", identity, err)
	}

	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return false, fmt.Errorf("parse entitlement expiry for %s: %w", identity, err)
	}
	return expiry.After(time.Now()), nil
}

// Grant upserts an entitlement expiring at the given time. Used by the
// surrounding application and by tests.
func (c *SQLiteChecker) Grant(ctx context.Context, identity string, expiresAt time.Time) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO entitlements (identity, expires_at) VALUES (?, ?)
         ON CONFLICT(identity) DO UPDATE SET expires_at = excluded.expires_at`,
		identity, expiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("grant entitlement for %s: %w", identity, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *SQLiteChecker) Close() error {
	return c.db.Close()
}

var _ Checker = (*SQLiteChecker)(nil)
