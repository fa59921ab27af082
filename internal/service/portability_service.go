package service

import (
	"context"
	"encoding/hex"
	"time"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"

	"github.com/rs/zerolog"
)

// PortabilityServiceImpl implements ports.PortabilityService.
type PortabilityServiceImpl struct {
	store *NFTStore
	codec *CommitmentCodec
	audit ports.AuditService
	now   func() time.Time
	log   zerolog.Logger
}

// NewPortabilityService creates a new IBC portability service.
func NewPortabilityService(store *NFTStore, codec *CommitmentCodec, audit ports.AuditService, log zerolog.Logger) *PortabilityServiceImpl {
	return &PortabilityServiceImpl{
		store: store,
		codec: codec,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// Export serializes a record into a committed packet. The packet carries
// plaintext metadata, so only the current owner may export; anyone else,
// including callers asking about unknown ids, gets AccessDenied. The local record
// is not modified; export is a copy, not a move.
func (s *PortabilityServiceImpl) Export(ctx context.Context, id, requester string) ([]byte, error) {
	if err := validateAccount("requester", requester); err != nil {
		return nil, err
	}

	nft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if nft == nil || nft.Owner != requester {
		s.log.Warn().Str("nft_id", id).Str("requester", requester).Msg("export refused, requester is not the owner")
		return nil, apperror.ErrAccessDenied()
	}

	packet := domain.Packet{
		Version:    domain.PacketVersion,
		ID:         nft.ID,
		Owner:      nft.Owner,
		Metadata:   nft.Metadata.Clone(),
		Commitment: hex.EncodeToString(s.codec.PacketCommitment(nft.ID, nft.Owner, nft.Metadata)),
	}
	data, err := EncodePacket(packet)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().Str("nft_id", id).Int("bytes", len(data)).Msg("nft exported")
	s.audit.Log(ctx, domain.NewAuditLog(domain.AuditActionExport, id, nft.Owner, ""))
	return data, nil
}

// Import verifies a packet's commitment and inserts the record it carries
// as a fresh Active NFT under the packet's id and owner.
func (s *PortabilityServiceImpl) Import(ctx context.Context, data []byte) (string, error) {
	packet, err := DecodePacket(data)
	if err != nil {
		return "", err
	}

	commitment, err := hex.DecodeString(packet.Commitment)
	if err != nil {
		return "", apperror.ErrInvalidPacket("commitment is not hex")
	}
	if !s.codec.VerifyPacketCommitment(packet.ID, packet.Owner, packet.Metadata, commitment) {
		s.log.Warn().Str("nft_id", packet.ID).Msg("packet commitment mismatch")
		return "", apperror.ErrCommitmentMismatch()
	}

	if err := validateRecordID(packet.ID); err != nil {
		return "", err
	}
	if err := validateAccount("owner", packet.Owner); err != nil {
		return "", err
	}
	if err := validateMetadata(packet.Metadata); err != nil {
		return "", err
	}

	nft := domain.NewNFT(packet.ID, packet.Owner, packet.Metadata, nil, s.now())
	if err := s.store.Insert(ctx, nft); err != nil {
		return "", err
	}

	s.log.Info().Str("nft_id", packet.ID).Str("owner", packet.Owner).Msg("nft imported")
	s.audit.Log(ctx, domain.NewAuditLog(domain.AuditActionImport, packet.ID, packet.Owner, ""))
	return packet.ID, nil
}
