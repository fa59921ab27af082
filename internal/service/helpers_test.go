package service

import (
	"io"
	"testing"
	"time"

	lockmem "shielded-nft/internal/adapter/lock/memory"
	"shielded-nft/internal/adapter/storage/memory"
	"shielded-nft/internal/core/domain"
	"shielded-nft/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testViewingSecret = "test-viewing-secret-for-unit-tests"

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// ledger wires every service over in-memory adapters, the same way the
// application container does.
type ledger struct {
	repo      *memory.NFTRepository
	auditRepo *memory.AuditRepository
	store     *NFTStore
	codec     *CommitmentCodec
	audit     *AuditServiceImpl
	keys      *JWTViewingKeyService

	mint     *MintServiceImpl
	transfer *TransferServiceImpl
	staking  *StakingServiceImpl
	airdrop  *AirdropServiceImpl
	view     *ViewServiceImpl
	ibc      *PortabilityServiceImpl
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	log := newTestLogger()

	l := &ledger{
		repo:      memory.NewNFTRepository(),
		auditRepo: memory.NewAuditRepository(),
		codec:     NewCommitmentCodec(NewSHA3Committer()),
		keys:      NewJWTViewingKeyService(testViewingSecret, time.Hour, "test-issuer"),
	}
	l.store = NewNFTStore(l.repo, lockmem.NewLockTable(), 2*time.Second, log)
	l.audit = NewAuditService(l.auditRepo, log)

	l.mint = NewMintService(l.store, l.codec, l.audit, log)
	l.transfer = NewTransferService(l.store, l.audit, log)
	l.staking = NewStakingService(l.store, l.audit, log)
	l.airdrop = NewAirdropService(l.store, l.codec, l.audit, 100, log)
	l.view = NewViewService(l.store, NewViewingKeyGate(l.keys, log), l.keys, l.audit, log)
	l.ibc = NewPortabilityService(l.store, l.codec, l.audit, log)

	t.Cleanup(l.audit.Wait)
	return l
}

func testMetadata(shielded bool) domain.Metadata {
	return domain.Metadata{
		Name:           "Genesis",
		Description:    "first piece",
		ContentAddress: "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
		Attributes:     []domain.Attribute{{Key: "rarity", Value: "legendary"}},
		Shielded:       shielded,
	}
}

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}

func intPtr(v int) *int { return &v }
