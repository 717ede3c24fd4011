// Package cache provides the response cache used by the dashboard
// endpoints. Entries are JSON blobs keyed by endpoint and parameters.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a TTL cache for serialized responses. Get returns false for
// missing or expired entries.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an in-memory TTL cache. Expired entries are
// evicted lazily on read and write.
func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}

	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: now.Add(ttl),
	}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

var _ Store = (*memoryStore)(nil)
