package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const nftColumns = `id, owner, state, shielded, metadata, staker, staked_at, royalty_rate, version, created_at, updated_at`

// NFTRepo implements ports.NFTRepository. Shielded metadata is sealed before
// it reaches the table, bound to the record id.
type NFTRepo struct {
	pool   Pool
	sealer ports.MetadataSealer
}

// NewNFTRepo creates a new NFTRepo.
func NewNFTRepo(pool Pool, sealer ports.MetadataSealer) *NFTRepo {
	return &NFTRepo{pool: pool, sealer: sealer}
}

// Get fetches a record by id.
func (r *NFTRepo) Get(ctx context.Context, id string) (*domain.NFT, error) {
	query := `SELECT ` + nftColumns + ` FROM nfts WHERE id = $1`

	var (
		n        domain.NFT
		state    string
		shielded bool
		stored   string
		staker   *string
		stakedAt *time.Time
		royalty  *int16
		version  int64
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.Owner, &state, &shielded, &stored, &staker, &stakedAt,
		&royalty, &version, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nft by id: %w", err)
	}

	meta, err := r.openMetadata(n.ID, shielded, stored)
	if err != nil {
		return nil, err
	}
	n.Metadata = meta
	n.State = domain.LifecycleState(state)
	n.Version = uint64(version)
	if staker != nil && stakedAt != nil {
		n.Stake = &domain.StakeInfo{Staker: *staker, StakedAt: *stakedAt}
	}
	if royalty != nil {
		rate := uint8(*royalty)
		n.RoyaltyRate = &rate
	}
	return &n, nil
}

// Exists reports whether id is taken.
func (r *NFTRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM nfts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check nft exists: %w", err)
	}
	return exists, nil
}

// Insert adds a new record. Returns ports.ErrAlreadyExists if id is taken.
func (r *NFTRepo) Insert(ctx context.Context, n *domain.NFT) error {
	stored, err := r.sealMetadata(n.ID, n.Metadata)
	if err != nil {
		return err
	}
	staker, stakedAt := stakeColumns(n)

	query := `INSERT INTO nfts (` + nftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		n.ID, n.Owner, string(n.State), n.Metadata.Shielded, stored, staker, stakedAt,
		royaltyColumn(n), int64(n.Version), n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert nft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrAlreadyExists
	}
	return nil
}

// UpdateIfUnchanged writes the mutable columns guarded by the version.
// Metadata is fixed at mint and never rewritten.
func (r *NFTRepo) UpdateIfUnchanged(ctx context.Context, n *domain.NFT, expectedVersion uint64) (bool, error) {
	staker, stakedAt := stakeColumns(n)

	query := `UPDATE nfts
		SET owner = $2, state = $3, staker = $4, staked_at = $5, version = $6, updated_at = $7
		WHERE id = $1 AND version = $8`

	tag, err := r.pool.Exec(ctx, query,
		n.ID, n.Owner, string(n.State), staker, stakedAt, int64(n.Version), n.UpdatedAt,
		int64(expectedVersion),
	)
	if err != nil {
		return false, fmt.Errorf("update nft: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByOwner returns ids owned by owner in ascending order.
func (r *NFTRepo) ListByOwner(ctx context.Context, owner string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM nfts WHERE owner = $1 ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list nfts by owner: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan nft id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nft ids: %w", err)
	}
	return ids, nil
}

func (r *NFTRepo) sealMetadata(id string, meta domain.Metadata) (string, error) {
	raw, err := json.Marshal(meta.Clone())
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	if !meta.Shielded {
		return string(raw), nil
	}
	if r.sealer == nil {
		return "", fmt.Errorf("%w: no sealer configured", ports.ErrSealFailure)
	}
	sealed, err := r.sealer.Seal(raw, []byte(id))
	if err != nil {
		return "", fmt.Errorf("%w: seal %s: %v", ports.ErrSealFailure, id, err)
	}
	return sealed, nil
}

func (r *NFTRepo) openMetadata(id string, shielded bool, stored string) (domain.Metadata, error) {
	raw := []byte(stored)
	if shielded {
		if r.sealer == nil {
			return domain.Metadata{}, fmt.Errorf("%w: no sealer configured", ports.ErrSealFailure)
		}
		opened, err := r.sealer.Open(stored, []byte(id))
		if err != nil {
			return domain.Metadata{}, fmt.Errorf("%w: open %s: %v", ports.ErrSealFailure, id, err)
		}
		raw = opened
	}

	var meta domain.Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return domain.Metadata{}, fmt.Errorf("decode metadata for %s: %w", id, err)
	}
	return meta.Clone(), nil
}

func stakeColumns(n *domain.NFT) (*string, *time.Time) {
	if n.Stake == nil {
		return nil, nil
	}
	return &n.Stake.Staker, &n.Stake.StakedAt
}

func royaltyColumn(n *domain.NFT) *int16 {
	if n.RoyaltyRate == nil {
		return nil
	}
	rate := int16(*n.RoyaltyRate)
	return &rate
}
