package mem

import (
	"sync"
	"time"
)

// TTLStore is a process-local byte cache with per-entry expiry.
type TTLStore interface {
	Set(key string, value []byte, ttl time.Duration)
	// Get returns the value if present and not expired.
	Get(key string) ([]byte, bool)
	Delete(key string)
	Len() int
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{
		value:     append([]byte(nil), value...),
		expiresAt: s.now().Add(ttl),
	}
	if len(s.data) > 1000 {
		s.evictExpiredLocked()
	}
}

func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.Delete(key) // cleanup expired
		return nil, false
	}
	return append([]byte(nil), e.value...), true
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store) evictExpiredLocked() {
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
