package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_records (
    key        TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    timestamp  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
    user_id    TEXT NOT NULL,
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (user_id, key)
);`

// SQLiteStore implements both SessionStore and PreferenceStore on a single
// SQLite database, giving browser-storage semantics that survive restarts.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLite opens or creates the database at path and initializes the
// schema. ttl applies to session reads (DefaultSessionTTL when zero).
func OpenSQLite(path string, ttl time.Duration) (*SQLiteStore, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores a session record.
func (s *SQLiteStore) Put(ctx context.Context, key string, value any) error {
	record, err := newSessionRecord(value, s.now())
	if err != nil {
		return fmt.Errorf("store: encode session record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_records(key, payload, timestamp) VALUES(?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, timestamp=excluded.timestamp`,
		key, string(record.Payload), record.TimestampMS)
	if err != nil {
		return fmt.Errorf("store: put session record: %w", err)
	}
	return nil
}

// Get reads a session record, evicting it when stale.
func (s *SQLiteStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	var payload string
	var ts int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, timestamp FROM session_records WHERE key = ?`, key).Scan(&payload, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: get session record: %w", err)
	}
	record := sessionRecord{Payload: json.RawMessage(payload), TimestampMS: ts}
	if record.stale(s.now(), s.ttl) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM session_records WHERE key = ?`, key); err != nil {
			return false, fmt.Errorf("store: evict stale record: %w", err)
		}
		return false, nil
	}
	if dest == nil {
		return true, nil
	}
	return true, json.Unmarshal(record.Payload, dest)
}

// Delete removes a session record.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete session record: %w", err)
	}
	return nil
}

// Preference reads a durable user preference.
func (s *SQLiteStore) Preference(ctx context.Context, userID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE user_id = ? AND key = ?`, userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: get preference: %w", err)
	}
	return value, true, nil
}

// SavePreference writes a durable user preference.
func (s *SQLiteStore) SavePreference(ctx context.Context, userID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences(user_id, key, value, updated_at) VALUES(?, ?, ?, ?)
         ON CONFLICT(user_id, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		userID, key, value, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: save preference: %w", err)
	}
	return nil
}

var (
	_ SessionStore    = (*SQLiteStore)(nil)
	_ PreferenceStore = (*SQLiteStore)(nil)
	_ SessionStore    = (*MemorySessionStore)(nil)
	_ PreferenceStore = (*MemoryPreferenceStore)(nil)
)
