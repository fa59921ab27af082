package service

import (
	"context"
	"testing"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_StakeTransferScenario(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	meta := testMetadata(true)

	n1, err := l.mint.Mint(ctx, ports.MintRequest{Owner: "alice", Metadata: meta, Nonce: "scenario"})
	require.NoError(t, err)

	aliceKey, _, err := l.view.IssueViewingKey(ctx, n1, "alice")
	require.NoError(t, err)

	revealed, err := l.view.Reveal(ctx, n1, aliceKey)
	require.NoError(t, err)
	require.NotNil(t, revealed)
	assert.True(t, revealed.Equal(meta))

	require.NoError(t, l.staking.Stake(ctx, n1))
	assertAppError(t, l.transfer.Transfer(ctx, n1, "bob"), apperror.CodeStakedLockViolation)

	// Staking does not change who may view.
	revealed, err = l.view.Reveal(ctx, n1, aliceKey)
	require.NoError(t, err)
	assert.NotNil(t, revealed)

	require.NoError(t, l.staking.Unstake(ctx, n1))
	require.NoError(t, l.transfer.Transfer(ctx, n1, "bob"))

	// Alice's key depends on the current owner, not on history.
	revealed, err = l.view.Reveal(ctx, n1, aliceKey)
	require.NoError(t, err)
	assert.Nil(t, revealed)

	bobKey, _, err := l.view.IssueViewingKey(ctx, n1, "bob")
	require.NoError(t, err)
	revealed, err = l.view.Reveal(ctx, n1, bobKey)
	require.NoError(t, err)
	assert.NotNil(t, revealed)

	_, _, err = l.view.IssueViewingKey(ctx, n1, "alice")
	assertAppError(t, err, apperror.CodeAccessDenied)

	l.audit.Wait()
	var actions []domain.AuditAction
	for _, e := range l.auditRepo.Entries() {
		actions = append(actions, e.Action)
	}
	assert.ElementsMatch(t, []domain.AuditAction{
		domain.AuditActionMint,
		domain.AuditActionViewingKey,
		domain.AuditActionStake,
		domain.AuditActionUnstake,
		domain.AuditActionTransfer,
		domain.AuditActionViewingKey,
	}, actions)
}
