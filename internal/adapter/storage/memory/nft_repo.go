package memory

import (
	"context"
	"sort"
	"sync"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"
)

// NFTRepository implements ports.NFTRepository in process memory. Records are
// copied on the way in and out so callers never share state with the map.
type NFTRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.NFT
}

// NewNFTRepository creates an empty repository.
func NewNFTRepository() *NFTRepository {
	return &NFTRepository{records: make(map[string]*domain.NFT)}
}

func (r *NFTRepository) Get(_ context.Context, id string) (*domain.NFT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nft, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return nft.Clone(), nil
}

func (r *NFTRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.records[id]
	return ok, nil
}

func (r *NFTRepository) Insert(_ context.Context, nft *domain.NFT) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[nft.ID]; ok {
		return ports.ErrAlreadyExists
	}
	r.records[nft.ID] = nft.Clone()
	return nil
}

func (r *NFTRepository) UpdateIfUnchanged(_ context.Context, nft *domain.NFT, expectedVersion uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[nft.ID]
	if !ok || current.Version != expectedVersion {
		return false, nil
	}
	r.records[nft.ID] = nft.Clone()
	return true, nil
}

// ListByOwner returns ids in ascending order.
func (r *NFTRepository) ListByOwner(_ context.Context, owner string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, nft := range r.records {
		if nft.Owner == owner {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Ping always succeeds.
func (r *NFTRepository) Ping(_ context.Context) error {
	return nil
}

// Name identifies the store in health reports.
func (r *NFTRepository) Name() string {
	return "memory"
}
