// Package store persists fetched gauge observation tables in a local
// SQLite cache so repeated analyses run offline.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"iwfmcli/internal/fetch"
)

// columnSep joins a row's cells for storage. ASCII unit separator
// never appears in gauge table text.
const columnSep = "\x1f"

// GaugeStore defines the persistence operations for gauge observations
type GaugeStore interface {
	SaveTable(table *fetch.StationTable) error
	GetStationTable(station string) (*fetch.StationTable, error)
	Stations() ([]string, error)
	LastFetchTime(station string) (time.Time, error)
	Close() error
}

// SQLiteGaugeStore implements GaugeStore using SQLite
type SQLiteGaugeStore struct {
	db     *sql.DB
	DBPath string
}

// NewSQLiteGaugeStore creates and initializes a new SQLite store
func NewSQLiteGaugeStore(dbPath string) (*SQLiteGaugeStore, error) {
	if dbPath == "" {
		dbDir := "data"
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dbPath = filepath.Join(dbDir, "gauges.db")
	} else if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS gauge_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station TEXT NOT NULL,
		row_key TEXT NOT NULL,
		headers TEXT,
		cells TEXT NOT NULL,
		fetched_at DATETIME NOT NULL,
		UNIQUE(station, row_key)
	);
	CREATE INDEX IF NOT EXISTS idx_gauge_station ON gauge_rows(station);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteGaugeStore{db: db, DBPath: dbPath}, nil
}

// Close closes the database connection
func (s *SQLiteGaugeStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveTable upserts a fetched station table, one row per record keyed
// by the row's first cell (the date column on CDEC-style pages).
func (s *SQLiteGaugeStore) SaveTable(table *fetch.StationTable) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO gauge_rows(station, row_key, headers, cells, fetched_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(station, row_key) DO UPDATE SET
		headers=excluded.headers,
		cells=excluded.cells,
		fetched_at=excluded.fetched_at
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	headers := strings.Join(table.Headers, columnSep)
	for _, row := range table.Rows {
		if len(row) == 0 {
			continue
		}
		_, err := stmt.Exec(
			table.Station,
			row[0],
			headers,
			strings.Join(row, columnSep),
			table.FetchedAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert row for %s at %s: %w", table.Station, row[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetStationTable reassembles the cached table for a station.
func (s *SQLiteGaugeStore) GetStationTable(station string) (*fetch.StationTable, error) {
	rows, err := s.db.Query(`
		SELECT headers, cells, fetched_at FROM gauge_rows
		WHERE station = ? ORDER BY id`, station)
	if err != nil {
		return nil, fmt.Errorf("failed to query station rows: %w", err)
	}
	defer rows.Close()

	table := &fetch.StationTable{Station: station}
	for rows.Next() {
		var headers, cells string
		var fetchedAt time.Time
		if err := rows.Scan(&headers, &cells, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if table.Headers == nil && headers != "" {
			table.Headers = strings.Split(headers, columnSep)
		}
		table.Rows = append(table.Rows, strings.Split(cells, columnSep))
		if fetchedAt.After(table.FetchedAt) {
			table.FetchedAt = fetchedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("no cached data for station %s", station)
	}

	return table, nil
}

// Stations returns the distinct cached station names.
func (s *SQLiteGaugeStore) Stations() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT station FROM gauge_rows ORDER BY station`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []string
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

// LastFetchTime returns the most recent fetch time for a station.
func (s *SQLiteGaugeStore) LastFetchTime(station string) (time.Time, error) {
	var fetchedAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT MAX(fetched_at) FROM gauge_rows WHERE station = ?`, station).Scan(&fetchedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last fetch time: %w", err)
	}
	if !fetchedAt.Valid {
		return time.Time{}, fmt.Errorf("no cached data for station %s", station)
	}
	return fetchedAt.Time, nil
}
