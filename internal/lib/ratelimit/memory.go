package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	start, end := windowBounds(s.now(), window)
	windowKey := key + ":" + strconv.FormatInt(start.UnixMilli(), 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[windowKey]
	if !ok {
		entry = &memoryEntry{resetAt: end}
		s.entries[windowKey] = entry
	}
	entry.count++

	return entry.count, entry.resetAt, nil
}

// Sweep drops windows that have ended and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of live windows.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
