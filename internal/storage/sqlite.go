package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mood-bot/internal/timeutil"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    is_bot BOOLEAN,
    first_name TEXT,
    last_name TEXT,
    username TEXT,
    language_code TEXT
)`

const createMeasurementsTable = `
CREATE TABLE IF NOT EXISTS measurements (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER,
    timestamp DATETIME,
    measurement INTEGER,
    state TEXT,
    error_message TEXT,
    FOREIGN KEY (user_id) REFERENCES users(id)
)`

// SQLiteStore persists users and measurements in a local SQLite file.
// Timestamps are stored as fixed-width RFC3339 UTC strings so that string
// comparison in SQL agrees with chronological order.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database file and configures it for a
// single-process bot: WAL journaling, a busy timeout for writer contention
// and enforced foreign keys.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "psycho_bot.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// journal_mode may be unsupported in some contexts (e.g. in-memory).
	_, _ = db.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createMeasurementsTable); err != nil {
		return fmt.Errorf("create measurements table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO users (id, is_bot, first_name, last_name, username, language_code)
        VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.IsBot, u.FirstName, u.LastName, u.Username, u.LanguageCode)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return nil
}

func (s *SQLiteStore) AddMeasurement(ctx context.Context, m Measurement) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now().UTC()
	} else {
		ts = timeutil.ToUTC(ts)
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO measurements (user_id, timestamp, measurement, state, error_message)
        VALUES (?, ?, ?, ?, ?)`,
		m.UserID, ts.Format(time.RFC3339), m.Value, nullable(m.State), nullable(m.ErrorMessage))
	if err != nil {
		return fmt.Errorf("add measurement for user %d: %w", m.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) Measurements(ctx context.Context, userID int64, windowDays int) ([]Point, error) {
	query := `
        SELECT timestamp, measurement
        FROM measurements
        WHERE user_id = ?
        ORDER BY timestamp DESC`
	args := []any{userID}
	if windowDays > 0 {
		query = `
        SELECT timestamp, measurement
        FROM measurements
        WHERE user_id = ?
        AND timestamp >= ?
        ORDER BY timestamp DESC`
		cutoff := s.now().UTC().AddDate(0, 0, -windowDays)
		args = append(args, cutoff.Format(time.RFC3339))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query measurements for user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var raw string
		var p Point
		if err := rows.Scan(&raw, &p.Value); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt timestamp %q: %w", raw, err)
		}
		p.Timestamp = ts
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
