package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	hash      string
	expiresAt time.Time
}

// MemoryStore is an in-process Store with lazy expiry and a periodic janitor.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uint]memoryEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryStore starts a store whose janitor sweeps expired entries every
// cleanupInterval. Call Stop to release the goroutine.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[uint]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}
	return s
}

func (s *MemoryStore) Set(_ context.Context, userID uint, token string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[userID] = memoryEntry{hash: hashToken(token), expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Valid(_ context.Context, userID uint, token string) (bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[userID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[userID]; ok && cur == entry {
			delete(s.entries, userID)
		}
		s.mu.Unlock()
		return false, nil
	}
	return sameHash(entry.hash, hashToken(token)), nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uint) error {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.deleteExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) deleteExpired() {
	now := s.now()
	s.mu.Lock()
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()
}
