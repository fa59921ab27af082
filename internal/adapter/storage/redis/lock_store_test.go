package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLockStore(t *testing.T, ttl time.Duration) (*LockStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewLockStore(client, ttl, zerolog.Nop())
	store.retry = time.Millisecond
	return store, mr
}

func TestLockStore_LockUnlock(t *testing.T) {
	store, mr := newTestLockStore(t, 10*time.Second)
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "nft:a")
	require.NoError(t, err)
	assert.True(t, mr.Exists("snft:lock:nft:a"))
	assert.Equal(t, 10*time.Second, mr.TTL("snft:lock:nft:a"))

	unlock()
	assert.False(t, mr.Exists("snft:lock:nft:a"))
}

func TestLockStore_BlocksUntilReleased(t *testing.T) {
	store, _ := newTestLockStore(t, 10*time.Second)
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "nft:a")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := store.Lock(ctx, "nft:a")
		if assert.NoError(t, err) {
			second()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(30 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second holder never acquired the lock")
	}
}

func TestLockStore_ContextDeadline(t *testing.T) {
	store, _ := newTestLockStore(t, 10*time.Second)

	unlock, err := store.Lock(context.Background(), "nft:a")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = store.Lock(ctx, "nft:a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockStore_StaleUnlockKeepsNewHolder(t *testing.T) {
	store, mr := newTestLockStore(t, time.Second)
	ctx := context.Background()

	stale, err := store.Lock(ctx, "nft:a")
	require.NoError(t, err)

	// The first holder's lease runs out and someone else takes the key.
	mr.FastForward(2 * time.Second)
	fresh, err := store.Lock(ctx, "nft:a")
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists("snft:lock:nft:a"), "stale holder must not release the new lease")

	fresh()
	assert.False(t, mr.Exists("snft:lock:nft:a"))
}

func TestLockStore_MutualExclusion(t *testing.T) {
	store, _ := newTestLockStore(t, 10*time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := store.Lock(ctx, "nft:shared")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}
