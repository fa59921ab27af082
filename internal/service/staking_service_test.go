package service

import (
	"context"
	"testing"

	"shielded-nft/internal/core/domain"
	"shielded-nft/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStakingService_Cycle(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	id := mintOne(t, l, "alice", true)

	require.NoError(t, l.staking.Stake(ctx, id))
	got, _ := l.store.Get(ctx, id)
	assert.Equal(t, domain.LifecycleStaked, got.State)
	require.NotNil(t, got.Stake)
	assert.Equal(t, "alice", got.Stake.Staker)
	assert.False(t, got.Stake.StakedAt.IsZero())

	assertAppError(t, l.staking.Stake(ctx, id), apperror.CodeAlreadyStaked)

	require.NoError(t, l.staking.Unstake(ctx, id))
	got, _ = l.store.Get(ctx, id)
	assert.Equal(t, domain.LifecycleActive, got.State)
	assert.Nil(t, got.Stake)
	assert.Equal(t, "alice", got.Owner, "unstake does not move ownership")

	assertAppError(t, l.staking.Unstake(ctx, id), apperror.CodeNotStaked)
}

func TestStakingService_UnknownID(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	assertAppError(t, l.staking.Stake(ctx, "missing"), apperror.CodeNotFound)
	assertAppError(t, l.staking.Unstake(ctx, "missing"), apperror.CodeNotFound)
}

func TestStakingService_StakedRecordStillListed(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	id := mintOne(t, l, "alice", false)
	require.NoError(t, l.staking.Stake(ctx, id))

	owned, err := l.view.ListOwned(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, owned)
}
