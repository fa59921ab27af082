package memory

import (
	"context"
	"sync"
	"time"
)

// NonceStore implements ports.NonceStore for a single process.
type NonceStore struct {
	mu     sync.Mutex
	seen   map[string]time.Time // key -> expiry
	now    func() time.Time
	sweeps int
}

// NewNonceStore creates an empty nonce store.
func NewNonceStore() *NonceStore {
	return &NonceStore{seen: make(map[string]time.Time), now: time.Now}
}

func (s *NonceStore) CheckAndSet(_ context.Context, scope string, nonce string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	key := scope + ":" + nonce
	if expiry, ok := s.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}
	s.seen[key] = now.Add(ttl)
	return true, nil
}

// sweep drops expired entries every 256 calls.
func (s *NonceStore) sweep(now time.Time) {
	s.sweeps++
	if s.sweeps%256 != 0 {
		return
	}
	for k, expiry := range s.seen {
		if !now.Before(expiry) {
			delete(s.seen, k)
		}
	}
}
