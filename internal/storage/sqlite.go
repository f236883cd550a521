// Package storage provides SQLite-based persistence for level results and replays.
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
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Result is one finished play of a level.
type Result struct {
	ID        int64
	LevelID   string
	Source    string // "play", "ssh", "simulate"
	Seed      int64
	Won       bool
	Score     int
	MovesMade int
	MovesLeft int
	Collected int
	CreatedAt time.Time
}

// Replay is a stored, encoded replay record.
type Replay struct {
	ID        string
	LevelID   string
	Seed      int64
	Taps      int
	Won       bool
	Payload   []byte
	CreatedAt time.Time
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

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
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'play',
			seed INTEGER NOT NULL,
			won INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			moves_made INTEGER NOT NULL,
			moves_left INTEGER NOT NULL,
			collected INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_level_id ON results(level_id);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(level_id, score DESC);

		CREATE TABLE IF NOT EXISTS replays (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			taps INTEGER NOT NULL,
			won INTEGER NOT NULL,
			payload BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_level_id ON replays(level_id);
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

// SaveResult records a finished level.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r Result) (int64, error) {
	if r.Source == "" {
		r.Source = "play"
	}
	result, err := s.db.Exec(
		`INSERT INTO results (level_id, source, seed, won, score, moves_made, moves_left, collected)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.LevelID, r.Source, r.Seed, r.Won, r.Score, r.MovesMade, r.MovesLeft, r.Collected,
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

const resultColumns = `id, level_id, source, seed, won, score, moves_made, moves_left, collected, created_at`

// TopResults retrieves the best N results for a level, by score descending.
func (s *Store) TopResults(levelID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE level_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// RecentResults retrieves the latest N results, newest first. An empty
// levelID returns results for every level.
func (s *Store) RecentResults(levelID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE ? = '' OR level_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		levelID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt any
		if err := rows.Scan(&r.ID, &r.LevelID, &r.Source, &r.Seed, &r.Won, &r.Score,
			&r.MovesMade, &r.MovesLeft, &r.Collected, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// ClearResults removes all results for a level.
func (s *Store) ClearResults(levelID string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID    string
	Plays      int
	Wins       int
	HighScore  int
	AvgMoves   float64
	LastPlayed time.Time
}

// WinRate returns wins divided by plays, or 0 when never played.
func (st LevelStats) WinRate() float64 {
	if st.Plays == 0 {
		return 0
	}
	return float64(st.Wins) / float64(st.Plays)
}

// GetLevelStats retrieves aggregated statistics for a specific level.
func (s *Store) GetLevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(MAX(score), 0),
		        COALESCE(AVG(moves_made), 0), MAX(created_at)
		 FROM results WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Plays, &stats.Wins, &stats.HighScore, &stats.AvgMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllLevelStats retrieves statistics for all levels that have been played.
func (s *Store) GetAllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), SUM(won), MAX(score), AVG(moves_made), MAX(created_at)
		 FROM results
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var st LevelStats
		var lastPlayed any
		if err := rows.Scan(&st.LevelID, &st.Plays, &st.Wins, &st.HighScore, &st.AvgMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.LevelID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// SaveReplay stores an encoded replay. An empty ID is filled with a new UUID.
// Returns the replay ID.
func (s *Store) SaveReplay(r Replay) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO replays (id, level_id, seed, taps, won, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.LevelID, r.Seed, r.Taps, r.Won, r.Payload,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save replay: %w", err)
	}
	return r.ID, nil
}

// LoadReplay retrieves a replay by ID. A unique ID prefix is also accepted;
// the prefix is compared literally.
func (s *Store) LoadReplay(id string) (*Replay, error) {
	rows, err := s.db.Query(
		`SELECT id, level_id, seed, taps, won, payload, created_at
		 FROM replays WHERE substr(id, 1, length(?)) = ?
		 LIMIT 2`,
		id, id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	replays, err := scanReplays(rows)
	if err != nil {
		return nil, err
	}
	for i := range replays {
		if replays[i].ID == id {
			return &replays[i], nil
		}
	}
	switch len(replays) {
	case 0:
		return nil, fmt.Errorf("%w: replay %s", ErrNotFound, id)
	case 1:
		return &replays[0], nil
	default:
		return nil, fmt.Errorf("storage: replay prefix %q is ambiguous", id)
	}
}

// RecentReplays lists the latest replays, newest first. Payloads are included.
func (s *Store) RecentReplays(limit int) ([]Replay, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, level_id, seed, taps, won, payload, created_at
		 FROM replays
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	return scanReplays(rows)
}

func scanReplays(rows *sql.Rows) ([]Replay, error) {
	defer rows.Close()

	var replays []Replay
	for rows.Next() {
		var r Replay
		var createdAt any
		if err := rows.Scan(&r.ID, &r.LevelID, &r.Seed, &r.Taps, &r.Won, &r.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan replay: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		replays = append(replays, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return replays, nil
}
