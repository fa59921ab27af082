package ports

import (
	"context"
	"errors"

	"shielded-nft/internal/core/domain"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

var (
	// ErrAlreadyExists is returned by Insert when the key is taken.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrSealFailure marks errors from sealing or opening metadata at rest.
	ErrSealFailure = errors.New("metadata seal failure")
)

// NFTRepository is the keyed store behind NFTStore.
// Get returns nil, nil when the id is unknown.
type NFTRepository interface {
	Get(ctx context.Context, id string) (*domain.NFT, error)
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, nft *domain.NFT) error
	// UpdateIfUnchanged writes nft only if the stored version still equals
	// expectedVersion. It reports false when another writer got there first.
	UpdateIfUnchanged(ctx context.Context, nft *domain.NFT, expectedVersion uint64) (bool, error)
	ListByOwner(ctx context.Context, owner string) ([]string, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
