package service

import (
	"context"
	"time"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"

	"github.com/rs/zerolog"
)

// ViewServiceImpl implements ports.ViewService.
type ViewServiceImpl struct {
	store *NFTStore
	gate  ports.AccessGate
	keys  ports.ViewingKeyService
	audit ports.AuditService
	log   zerolog.Logger
}

// NewViewService creates a new view service.
func NewViewService(store *NFTStore, gate ports.AccessGate, keys ports.ViewingKeyService, audit ports.AuditService, log zerolog.Logger) *ViewServiceImpl {
	return &ViewServiceImpl{store: store, gate: gate, keys: keys, audit: audit, log: log}
}

// Reveal returns a copy of the record's metadata. Shielded metadata is only
// returned when the gate authorizes credential. An unknown id and a denied
// credential both yield nil, nil.
func (s *ViewServiceImpl) Reveal(ctx context.Context, id, credential string) (*domain.Metadata, error) {
	nft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if nft == nil {
		return nil, nil
	}

	if nft.Metadata.Shielded && !s.gate.Authorize(ctx, credential, nft) {
		s.log.Debug().Str("nft_id", id).Bool("credential", credential != "").Msg("reveal denied")
		return nil, nil
	}

	meta := nft.Metadata.Clone()
	return &meta, nil
}

// IssueViewingKey signs a viewing key for the record's owner. Anyone else,
// including callers asking about unknown ids, gets AccessDenied.
func (s *ViewServiceImpl) IssueViewingKey(ctx context.Context, id, requester string) (string, time.Time, error) {
	if err := validateAccount("requester", requester); err != nil {
		return "", time.Time{}, err
	}

	nft, err := s.store.Get(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if nft == nil || nft.Owner != requester {
		return "", time.Time{}, apperror.ErrAccessDenied()
	}

	key, expiresAt, err := s.keys.Issue(requester, id)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(err)
	}

	s.log.Info().Str("nft_id", id).Time("expires_at", expiresAt).Msg("viewing key issued")
	s.audit.Log(ctx, domain.NewAuditLog(domain.AuditActionViewingKey, id, requester, ""))
	return key, expiresAt, nil
}

// ListOwned returns the ids owned by owner, staked ones included.
func (s *ViewServiceImpl) ListOwned(ctx context.Context, owner string) ([]string, error) {
	if err := validateAccount("owner", owner); err != nil {
		return nil, err
	}
	return s.store.ListByOwner(ctx, owner)
}
