package service

import (
	"context"
	"time"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"

	"github.com/rs/zerolog"
)

// StakingServiceImpl implements ports.StakingService.
type StakingServiceImpl struct {
	store *NFTStore
	audit ports.AuditService
	now   func() time.Time
	log   zerolog.Logger
}

// NewStakingService creates a new staking service.
func NewStakingService(store *NFTStore, audit ports.AuditService, log zerolog.Logger) *StakingServiceImpl {
	return &StakingServiceImpl{
		store: store,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// Stake locks an Active record. The staker is always the current owner.
func (s *StakingServiceImpl) Stake(ctx context.Context, id string) error {
	nft, err := s.store.Update(ctx, id, func(n *domain.NFT) error {
		return n.StakeAt(s.now())
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("nft_id", id).Str("staker", nft.Stake.Staker).Msg("nft staked")
	s.audit.Log(ctx, domain.NewAuditLog(domain.AuditActionStake, id, nft.Stake.Staker, ""))
	return nil
}

// Unstake releases the staking lock. Ownership is unchanged.
func (s *StakingServiceImpl) Unstake(ctx context.Context, id string) error {
	nft, err := s.store.Update(ctx, id, func(n *domain.NFT) error {
		return n.Unstake()
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("nft_id", id).Str("owner", nft.Owner).Msg("nft unstaked")
	s.audit.Log(ctx, domain.NewAuditLog(domain.AuditActionUnstake, id, nft.Owner, ""))
	return nil
}
