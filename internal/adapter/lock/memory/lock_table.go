package memory

import (
	"context"
	"sync"

	"shielded-nft/internal/core/ports"
)

type entry struct {
	sem  chan struct{}
	refs int
}

// LockTable implements ports.KeyedLocker for a single process. Entries are
// created on demand and dropped once no goroutine holds or waits on them.
type LockTable struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewLockTable creates an empty lock table.
func NewLockTable() *LockTable {
	return &LockTable{entries: make(map[string]*entry)}
}

// Lock blocks until key is free or ctx is done.
func (t *LockTable) Lock(ctx context.Context, key string) (ports.Unlock, error) {
	e := t.ref(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		t.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			t.unref(key, e)
		})
	}, nil
}

func (t *LockTable) ref(key string) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		t.entries[key] = e
	}
	e.refs++
	return e
}

func (t *LockTable) unref(key string, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(t.entries, key)
	}
}

// Len returns the number of live entries.
func (t *LockTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
