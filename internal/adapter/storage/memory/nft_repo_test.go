package memory

import (
	"context"
	"testing"
	"time"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id, owner string) *domain.NFT {
	n := domain.NewNFT(id, owner, domain.Metadata{ContentAddress: "ipfs://" + id, Shielded: true}, nil, time.Now().UTC())
	n.Version = 1
	return n
}

func TestNFTRepository_InsertGet(t *testing.T) {
	repo := NewNFTRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newRecord("a", "alice")))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Owner)

	missing, err := repo.Get(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := repo.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNFTRepository_InsertDuplicate(t *testing.T) {
	repo := NewNFTRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newRecord("a", "alice")))
	err := repo.Insert(ctx, newRecord("a", "bob"))
	assert.ErrorIs(t, err, ports.ErrAlreadyExists)

	got, _ := repo.Get(ctx, "a")
	assert.Equal(t, "alice", got.Owner, "original record is untouched")
}

func TestNFTRepository_ReturnsCopies(t *testing.T) {
	repo := NewNFTRepository()
	ctx := context.Background()

	rec := newRecord("a", "alice")
	require.NoError(t, repo.Insert(ctx, rec))
	rec.Owner = "mallory"

	got, _ := repo.Get(ctx, "a")
	got.Owner = "mallory"

	again, _ := repo.Get(ctx, "a")
	assert.Equal(t, "alice", again.Owner)
}

func TestNFTRepository_UpdateIfUnchanged(t *testing.T) {
	repo := NewNFTRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newRecord("a", "alice")))

	next := newRecord("a", "bob")
	next.Version = 2

	ok, err := repo.UpdateIfUnchanged(ctx, next, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	stale := newRecord("a", "carol")
	stale.Version = 2
	ok, err = repo.UpdateIfUnchanged(ctx, stale, 1)
	require.NoError(t, err)
	assert.False(t, ok, "stale version must lose")

	got, _ := repo.Get(ctx, "a")
	assert.Equal(t, "bob", got.Owner)

	ok, err = repo.UpdateIfUnchanged(ctx, newRecord("missing", "x"), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNFTRepository_ListByOwner(t *testing.T) {
	repo := NewNFTRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newRecord("c", "alice")))
	require.NoError(t, repo.Insert(ctx, newRecord("a", "alice")))
	require.NoError(t, repo.Insert(ctx, newRecord("b", "bob")))

	ids, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)

	none, err := repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAuditRepository_Create(t *testing.T) {
	repo := NewAuditRepository()
	require.NoError(t, repo.Create(context.Background(), domain.NewAuditLog(domain.AuditActionMint, "a", "alice", "")))

	entries := repo.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionMint, entries[0].Action)
}
