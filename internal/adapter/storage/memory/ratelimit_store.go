package memory

import (
	"context"
	"sync"
	"time"

	"shielded-nft/internal/core/ports"
)

type window struct {
	id    int64
	count int64
}

// RateLimitStore implements ports.RateLimiter with in-process fixed windows.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimitStore creates an empty rate limit store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: make(map[string]*window), now: time.Now}
}

func (s *RateLimitStore) Allow(_ context.Context, key string, limit int64, size time.Duration) (*ports.RateLimitResult, error) {
	secs := int64(size.Seconds())
	if secs <= 0 {
		secs = 1
	}
	id := s.now().Unix() / secs

	s.mu.Lock()
	w, ok := s.windows[key]
	if !ok || w.id != id {
		w = &window{id: id}
		s.windows[key] = w
	}
	w.count++
	count := w.count
	s.mu.Unlock()

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &ports.RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   (id + 1) * secs,
	}, nil
}
