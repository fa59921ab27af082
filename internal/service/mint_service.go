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

// MintServiceImpl implements ports.MintService.
type MintServiceImpl struct {
	store *NFTStore
	codec *CommitmentCodec
	audit ports.AuditService
	now   func() time.Time
	log   zerolog.Logger
}

// NewMintService creates a new mint service.
func NewMintService(store *NFTStore, codec *CommitmentCodec, audit ports.AuditService, log zerolog.Logger) *MintServiceImpl {
	return &MintServiceImpl{
		store: store,
		codec: codec,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// Mint creates a new Active record owned by req.Owner. The id is the
// commitment over the metadata and nonce, so minting the same pair twice
// fails with DuplicateIdentifier.
func (s *MintServiceImpl) Mint(ctx context.Context, req ports.MintRequest) (string, error) {
	if err := validateAccount("owner", req.Owner); err != nil {
		return "", err
	}
	if err := validateMetadata(req.Metadata); err != nil {
		return "", err
	}

	var royalty *uint8
	if req.RoyaltyRate != nil {
		if *req.RoyaltyRate < 0 || *req.RoyaltyRate > domain.MaxRoyaltyRate {
			return "", apperror.Validation(fmt.Sprintf("royalty_rate must be between 0 and %d", domain.MaxRoyaltyRate))
		}
		r := uint8(*req.RoyaltyRate)
		royalty = &r
	}

	id := s.codec.MintID(req.Metadata, req.Nonce)
	nft := domain.NewNFT(id, req.Owner, req.Metadata, royalty, s.now())
	if err := s.store.Insert(ctx, nft); err != nil {
		return "", err
	}

	s.log.Info().
		Str("nft_id", id).
		Str("owner", req.Owner).
		Bool("shielded", req.Metadata.Shielded).
		Msg("nft minted")

	s.audit.Log(ctx, domain.NewAuditLog(domain.AuditActionMint, id, req.Owner, auditDetails(map[string]any{
		"shielded": req.Metadata.Shielded,
	})))

	return id, nil
}
