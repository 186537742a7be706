package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps client storage in process. Entries expire lazily.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	ttl     map[Scope]time.Duration
	entries map[string]memoryEntry
}

// NewMemoryStore creates a store whose keys live for durableTTL or tabTTL
// after their last Set. A zero TTL never expires.
func NewMemoryStore(durableTTL, tabTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		now: time.Now,
		ttl: map[Scope]time.Duration{
			ScopeDurable: durableTTL,
			ScopeTab:     tabTTL,
		},
		entries: make(map[string]memoryEntry),
	}
}

// WithClock replaces the time source. Used by tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

func (s *MemoryStore) Durable(clientID string) Storage {
	return memoryStorage{s: s, scope: ScopeDurable, clientID: clientID}
}

func (s *MemoryStore) Tab(clientID string) Storage {
	return memoryStorage{s: s, scope: ScopeTab, clientID: clientID}
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

type memoryStorage struct {
	s        *MemoryStore
	scope    Scope
	clientID string
}

func (m memoryStorage) key(k string) string {
	return string(m.scope) + ":" + m.clientID + ":" + k
}

func (m memoryStorage) Get(_ context.Context, key string) (string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	k := m.key(key)
	e, ok := m.s.entries[k]
	if !ok {
		return "", ErrNotFound
	}
	if !e.expiresAt.IsZero() && !m.s.now().Before(e.expiresAt) {
		delete(m.s.entries, k)
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m memoryStorage) Set(_ context.Context, key, value string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl := m.s.ttl[m.scope]; ttl > 0 {
		e.expiresAt = m.s.now().Add(ttl)
	}
	m.s.entries[m.key(key)] = e
	return nil
}

func (m memoryStorage) Clear(_ context.Context, key string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	delete(m.s.entries, m.key(key))
	return nil
}
