package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a durable Store backed by a single-table SQLite database.
// Each identity maps to one row holding the full turn sequence as JSON.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS histories (
        identity TEXT PRIMARY KEY,
        turns TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );`)
	if err != nil {
		return fmt.Errorf("migrate histories: %w", err)
	}
	return nil
}

// Load returns the identity's turns. Unknown identities and undecodable
// payloads load as an empty sequence; corruption is logged, not surfaced.
func (s *SQLiteStore) Load(ctx context.Context, identity string) ([]Turn, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT turns FROM histories WHERE identity = ?`, identity).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", identity, err)
	}

	var turns []Turn
	if err := json.Unmarshal([]byte(payload), &turns); err != nil {
		log.Printf("[history] corrupt record for %s, treating as empty: %v", identity, err)
		return []Turn{}, nil
	}
	return turns, nil
}

// Save overwrites the identity's record with the full sequence.
func (s *SQLiteStore) Save(ctx context.Context, identity string, turns []Turn) error {
	payload, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode history for %s: %w", identity, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO histories (identity, turns, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(identity) DO UPDATE SET turns = excluded.turns, updated_at = excluded.updated_at`,
		identity, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save history for %s: %w", identity, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
