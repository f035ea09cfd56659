// Package store provides the client-side storage analogs used by page
// controllers: a session store with read-time staleness eviction and a
// durable preference store. Both have in-memory and SQLite-backed
// implementations.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultSessionTTL is the staleness cutoff applied when reading session
// records: anything older is discarded instead of returned.
const DefaultSessionTTL = 5 * time.Minute

// SessionStore holds short-lived JSON records stamped with epoch-ms
// timestamps. Staleness is enforced on read, not by a background sweeper.
type SessionStore interface {
	Put(ctx context.Context, key string, value any) error
	// Get unmarshals the stored record into dest. It returns false when the
	// key is absent or the record aged out; stale records are evicted.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Delete(ctx context.Context, key string) error
}

// PreferenceStore persists per-user preferences across sessions.
type PreferenceStore interface {
	Preference(ctx context.Context, userID, key string) (string, bool, error)
	SavePreference(ctx context.Context, userID, key, value string) error
}

type sessionRecord struct {
	Payload     json.RawMessage `json:"payload"`
	TimestampMS int64           `json:"timestamp"`
}

func newSessionRecord(value any, now time.Time) (sessionRecord, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return sessionRecord{}, err
	}
	return sessionRecord{Payload: payload, TimestampMS: now.UnixMilli()}, nil
}

func (r sessionRecord) stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(time.UnixMilli(r.TimestampMS)) > ttl
}
