//go:build sqlite

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/enigma/pkg/domain"

	_ "modernc.org/sqlite"
)

// Store implements ports.KeySheetStore on a SQLite database file.
// Each key sheet is one row holding its JSON form.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// New creates a Store for the database at path. Call Init before use.
func New(path string) *Store {
	return &Store{path: path}
}

// Init opens the database and creates the key sheet table if needed.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return domain.Invalid("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS keysheets (
			name TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *Store) Save(ctx context.Context, sheet *domain.KeySheet) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("failed to marshal key sheet: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO keysheets (name, payload)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload
	`, sheet.Name, payload)
	return err
}

func (s *Store) Load(ctx context.Context, name string) (*domain.KeySheet, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM keysheets WHERE name = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var sheet domain.KeySheet
	if err := json.Unmarshal(payload, &sheet); err != nil {
		return nil, fmt.Errorf("decode key sheet %s: %w", name, err)
	}
	return &sheet, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM keysheets WHERE name = ?`, name)
	return err
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM keysheets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}
