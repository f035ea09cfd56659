package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemorySessionStore is the in-process SessionStore used by tests and demos.
type MemorySessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	records map[string]sessionRecord
}

// MemorySessionOption customizes the store.
type MemorySessionOption func(*MemorySessionStore)

// WithClock overrides the time source, mainly for staleness tests.
func WithClock(now func() time.Time) MemorySessionOption {
	return func(s *MemorySessionStore) {
		s.now = now
	}
}

// NewMemorySessionStore creates a store with the given TTL (DefaultSessionTTL
// when zero).
func NewMemorySessionStore(ttl time.Duration, opts ...MemorySessionOption) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &MemorySessionStore{
		ttl:     ttl,
		now:     time.Now,
		records: map[string]sessionRecord{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a JSON record stamped with the current time.
func (s *MemorySessionStore) Put(_ context.Context, key string, value any) error {
	record, err := newSessionRecord(value, s.now())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
	return nil
}

// Get returns the record unless it aged out; stale records are evicted.
func (s *MemorySessionStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	record, ok := s.records[key]
	if ok && record.stale(s.now(), s.ttl) {
		delete(s.records, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if dest == nil {
		return true, nil
	}
	return true, json.Unmarshal(record.Payload, dest)
}

// Delete removes a record.
func (s *MemorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// MemoryPreferenceStore is the in-process PreferenceStore.
type MemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryPreferenceStore creates an empty preference store.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{data: map[string]string{}}
}

// Preference returns the stored value for a user key.
func (s *MemoryPreferenceStore) Preference(_ context.Context, userID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[userID+"::"+key]
	return value, ok, nil
}

// SavePreference persists the value for a user key.
func (s *MemoryPreferenceStore) SavePreference(_ context.Context, userID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID+"::"+key] = value
	return nil
}
