// Package storage provides SQLite-based persistence for best times and game results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

// ErrNegativeTime is returned when a negative duration is offered as a record.
var ErrNegativeTime = errors.New("storage: negative time")

// Store manages the SQLite database connection.
// It is safe for concurrent use by multiple sessions.
type Store struct {
	db *sql.DB
}

// BestTimeEntry is the record for one board configuration.
type BestTimeEntry struct {
	ConfigKey string    `json:"board"`
	Seconds   int       `json:"seconds"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResultEntry is one finished session.
type ResultEntry struct {
	ID        int64     `json:"id"`
	GameID    string    `json:"game_id"` // UUID of the session
	ConfigKey string    `json:"board"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Mines     int       `json:"mines"`
	Won       bool      `json:"won"`
	Seconds   int       `json:"seconds"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats summarises the results of one board configuration.
type Stats struct {
	ConfigKey      string    `json:"board"`
	Played         int       `json:"played"`
	Wins           int       `json:"wins"`
	FastestSeconds int       `json:"fastest_seconds"` // 0 when there are no wins
	AverageWin     float64   `json:"average_win"`     // Mean seconds over wins
	LastPlayed     time.Time `json:"last_played"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; SSH and HTTP sessions share this handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS best_times (
			config_key TEXT PRIMARY KEY,
			seconds INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL UNIQUE,
			config_key TEXT NOT NULL,
			rows INTEGER NOT NULL,
			cols INTEGER NOT NULL,
			mines INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			seconds INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_config_key ON results(config_key);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BestTime returns the stored record for the configuration key.
// ok is false when no record exists yet.
func (s *Store) BestTime(configKey string) (seconds int, ok bool, err error) {
	err = s.db.QueryRow(
		"SELECT seconds FROM best_times WHERE config_key = ?",
		configKey,
	).Scan(&seconds)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best time: %w", err)
	}
	return seconds, true, nil
}

// RecordBestTime stores seconds as the record for configKey when no record
// exists or seconds is strictly lower than it. It reports whether the record changed.
func (s *Store) RecordBestTime(configKey string, seconds int) (bool, error) {
	return recordBestTime(s.db, configKey, seconds)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func recordBestTime(ex execer, configKey string, seconds int) (bool, error) {
	if seconds < 0 {
		return false, fmt.Errorf("%w: %d", ErrNegativeTime, seconds)
	}

	res, err := ex.Exec(
		`INSERT INTO best_times (config_key, seconds, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(config_key) DO UPDATE
		 SET seconds = excluded.seconds, updated_at = excluded.updated_at
		 WHERE excluded.seconds < best_times.seconds`,
		configKey, seconds,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot record best time: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n > 0, nil
}

// BestTimes returns every stored record ordered by configuration key.
func (s *Store) BestTimes() ([]BestTimeEntry, error) {
	rows, err := s.db.Query(
		`SELECT config_key, seconds, updated_at
		 FROM best_times
		 ORDER BY config_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best times: %w", err)
	}
	defer rows.Close()

	var entries []BestTimeEntry
	for rows.Next() {
		var e BestTimeEntry
		var updatedAt any
		if err := rows.Scan(&e.ConfigKey, &e.Seconds, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTimestamp(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// SaveResult records a finished session. An empty GameID is filled with a new UUID.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(e ResultEntry) (int64, error) {
	return saveResult(s.db, e)
}

func saveResult(ex execer, e ResultEntry) (int64, error) {
	if e.GameID == "" {
		e.GameID = uuid.NewString()
	}
	if e.ConfigKey == "" {
		e.ConfigKey = engine.Config{Rows: e.Rows, Cols: e.Cols, Mines: e.Mines}.Key()
	}

	result, err := ex.Exec(
		`INSERT INTO results (game_id, config_key, rows, cols, mines, won, seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.GameID, e.ConfigKey, e.Rows, e.Cols, e.Mines, e.Won, e.Seconds,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentResults returns the latest results for configKey, newest first.
func (s *Store) RecentResults(configKey string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, config_key, rows, cols, mines, won, seconds, created_at
		 FROM results
		 WHERE config_key = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		configKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.ConfigKey, &e.Rows, &e.Cols, &e.Mines,
			&e.Won, &e.Seconds, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// GetStats summarises the results recorded for configKey.
func (s *Store) GetStats(configKey string) (*Stats, error) {
	stats := &Stats{ConfigKey: configKey}

	var wins, fastest sql.NullInt64
	var average sql.NullFloat64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        SUM(won),
		        MIN(CASE WHEN won = 1 THEN seconds END),
		        AVG(CASE WHEN won = 1 THEN seconds END),
		        MAX(created_at)
		 FROM results
		 WHERE config_key = ?`,
		configKey,
	).Scan(&stats.Played, &wins, &fastest, &average, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	stats.Wins = int(wins.Int64)
	stats.FastestSeconds = int(fastest.Int64)
	stats.AverageWin = average.Float64
	stats.LastPlayed = parseTimestamp(lastPlayed)
	return stats, nil
}

// ClearResults deletes the results and the record of configKey.
func (s *Store) ClearResults(configKey string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.Exec("DELETE FROM results WHERE config_key = ?", configKey); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM best_times WHERE config_key = ?", configKey); err != nil {
		return fmt.Errorf("storage: cannot clear best time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// RecordFinish saves the result of a finished session and, when it was won,
// offers its time as the new record. Both writes commit together or not at all.
// It reports whether the record improved.
func (s *Store) RecordFinish(f core.Finish) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	improved := false
	if f.Won {
		if improved, err = recordBestTime(tx, f.Board.Key(), f.ElapsedSeconds); err != nil {
			return false, err
		}
	}

	_, err = saveResult(tx, ResultEntry{
		ConfigKey: f.Board.Key(),
		Rows:      f.Board.Rows,
		Cols:      f.Board.Cols,
		Mines:     f.Board.Mines,
		Won:       f.Won,
		Seconds:   f.ElapsedSeconds,
	})
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return improved, nil
}

// parseTimestamp handles both time.Time and the SQLite text form of CURRENT_TIMESTAMP.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
