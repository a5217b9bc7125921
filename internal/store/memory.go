package store

import (
	"sync"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

// Memory is a concurrency-safe in-memory cache of computed weather entries.
// Entries are replaced wholesale on Put; readers never observe a partially
// written entry. Expired entries are invalidated lazily on read and kept
// around for the serve-stale-while-failing path until overwritten.
type Memory struct {
	mu   sync.RWMutex
	data map[string]weather.CacheEntry
}

// NewMemory creates an empty cache.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]weather.CacheEntry)}
}

// Get returns the entry for key if it exists and has not expired at now.
func (s *Memory) Get(key string, now time.Time) (weather.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[key]
	if !ok || entry.Expired(now) {
		return weather.CacheEntry{}, false
	}
	return entry, true
}

// GetStale returns the entry for key regardless of expiry.
func (s *Memory) GetStale(key string) (weather.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[key]
	return entry, ok
}

// Put stores the entry, atomically replacing any previous one for the key.
func (s *Memory) Put(key string, entry weather.CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry
}

// Len reports the number of cached entries, live or stale.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
