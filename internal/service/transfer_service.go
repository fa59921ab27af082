package service

import (
	"context"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"

	"github.com/rs/zerolog"
)

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	store *NFTStore
	audit ports.AuditService
	log   zerolog.Logger
}

// NewTransferService creates a new transfer service.
func NewTransferService(store *NFTStore, audit ports.AuditService, log zerolog.Logger) *TransferServiceImpl {
	return &TransferServiceImpl{store: store, audit: audit, log: log}
}

// Transfer moves ownership of an Active record to newOwner. Staked records
// are locked and fail with StakedLockViolation.
func (s *TransferServiceImpl) Transfer(ctx context.Context, id, newOwner string) error {
	if newOwner != "" {
		if err := validateAccount("new_owner", newOwner); err != nil {
			return err
		}
	}

	var previous string
	_, err := s.store.Update(ctx, id, func(n *domain.NFT) error {
		previous = n.Owner
		return n.TransferTo(newOwner)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("nft_id", id).
		Str("from", previous).
		Str("to", newOwner).
		Msg("nft transferred")

	s.audit.Log(ctx, domain.NewAuditLog(domain.AuditActionTransfer, id, previous, auditDetails(map[string]any{
		"to": newOwner,
	})))
	return nil
}
