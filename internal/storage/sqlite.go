package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"siminfod/internal/metrics"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a single SQLite database.
// The two logical stores map to two tables.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the store database at path
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS iccid_map (
		iccid TEXT PRIMARY KEY,
		imsi TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sim_cache (
		imsi TEXT PRIMARY KEY,
		spn TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// IMSI looks up the subscriber identifier recorded for a card
func (s *SQLiteStore) IMSI(iccid string) (string, error) {
	return s.get(`SELECT imsi FROM iccid_map WHERE iccid = ?`, iccid)
}

// SetIMSI records the subscriber identifier for a card
func (s *SQLiteStore) SetIMSI(iccid, imsi string) error {
	return s.set("iccid_map", `
		INSERT INTO iccid_map (iccid, imsi) VALUES (?, ?)
		ON CONFLICT(iccid) DO UPDATE SET imsi = excluded.imsi,
			updated_at = CURRENT_TIMESTAMP`, iccid, imsi)
}

// SPN looks up the cached service provider name for a subscriber
func (s *SQLiteStore) SPN(imsi string) (string, error) {
	return s.get(`SELECT spn FROM sim_cache WHERE imsi = ?`, imsi)
}

// SetSPN caches the service provider name for a subscriber
func (s *SQLiteStore) SetSPN(imsi, spn string) error {
	return s.set("sim_cache", `
		INSERT INTO sim_cache (imsi, spn) VALUES (?, ?)
		ON CONFLICT(imsi) DO UPDATE SET spn = excluded.spn,
			updated_at = CURRENT_TIMESTAMP`, imsi, spn)
}

func (s *SQLiteStore) get(query, key string) (string, error) {
	var value string
	err := s.db.QueryRow(query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		metrics.StoreErrors.Inc()
		return "", fmt.Errorf("store lookup: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) set(table, query string, key, value string) error {
	if _, err := s.db.Exec(query, key, value); err != nil {
		metrics.StoreErrors.Inc()
		return fmt.Errorf("store write: %w", err)
	}
	metrics.StoreWrites.WithLabelValues(table).Inc()
	return nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
