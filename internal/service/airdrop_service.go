package service

import (
	"context"
	"fmt"
	"time"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"

	"github.com/rs/zerolog"
)

// AirdropServiceImpl implements ports.AirdropService.
type AirdropServiceImpl struct {
	store         *NFTStore
	codec         *CommitmentCodec
	audit         ports.AuditService
	maxRecipients int
	now           func() time.Time
	log           zerolog.Logger
}

// NewAirdropService creates a new airdrop service. maxRecipients caps the
// fan-out of a single request.
func NewAirdropService(store *NFTStore, codec *CommitmentCodec, audit ports.AuditService, maxRecipients int, log zerolog.Logger) *AirdropServiceImpl {
	return &AirdropServiceImpl{
		store:         store,
		codec:         codec,
		audit:         audit,
		maxRecipients: maxRecipients,
		now:           func() time.Time { return time.Now().UTC() },
		log:           log,
	}
}

// Airdrop mints one independent copy of the source record per recipient.
// The source is left as it was. Per-recipient failures are reported in the
// returned outcomes and never undo copies already minted.
func (s *AirdropServiceImpl) Airdrop(ctx context.Context, id string, recipients []string) ([]domain.AirdropOutcome, error) {
	if len(recipients) == 0 {
		return nil, apperror.Validation("at least one recipient is required")
	}
	if s.maxRecipients > 0 && len(recipients) > s.maxRecipients {
		return nil, apperror.Validation(fmt.Sprintf("at most %d recipients per airdrop", s.maxRecipients))
	}

	// The source stays locked for the whole batch so it cannot be staked
	// between the Active check and the last copy.
	var (
		owner     string
		outcomes  = make([]domain.AirdropOutcome, 0, len(recipients))
		succeeded int
	)
	err := s.store.Hold(ctx, id, func(source *domain.NFT) error {
		if source.State != domain.LifecycleActive {
			return apperror.ErrStakedLockViolation()
		}
		owner = source.Owner
		for i, recipient := range recipients {
			outcome := s.dropOne(ctx, source, recipient, i)
			if outcome.Succeeded() {
				succeeded++
			} else {
				s.log.Debug().Err(outcome.Err).Str("nft_id", id).Int("index", i).Msg("airdrop recipient failed")
			}
			outcomes = append(outcomes, outcome)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("nft_id", id).
		Int("recipients", len(recipients)).
		Int("succeeded", succeeded).
		Msg("airdrop completed")

	s.audit.Log(ctx, domain.NewAuditLog(domain.AuditActionAirdrop, id, owner, auditDetails(map[string]any{
		"recipients": len(recipients),
		"succeeded":  succeeded,
	})))

	return outcomes, nil
}

func (s *AirdropServiceImpl) dropOne(ctx context.Context, source *domain.NFT, recipient string, index int) domain.AirdropOutcome {
	outcome := domain.AirdropOutcome{Recipient: recipient}
	if err := validateAccount("recipient", recipient); err != nil {
		outcome.Err = err
		return outcome
	}

	copyID := s.codec.AirdropID(source.ID, source.Metadata, recipient, index)
	var royalty *uint8
	if source.RoyaltyRate != nil {
		r := *source.RoyaltyRate
		royalty = &r
	}

	nft := domain.NewNFT(copyID, recipient, source.Metadata, royalty, s.now())
	if err := s.store.Insert(ctx, nft); err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.ID = copyID
	return outcome
}
