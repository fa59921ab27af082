package domain

import (
	"errors"
	"time"

	"shielded-nft/pkg/apperror"
)

// LifecycleState represents where an NFT sits in the Active/Staked cycle.
type LifecycleState string

const (
	LifecycleActive LifecycleState = "ACTIVE"
	LifecycleStaked LifecycleState = "STAKED"
)

// MaxRoyaltyRate is the upper bound of a royalty percentage.
const MaxRoyaltyRate = 100

// StakeInfo is present only while an NFT is staked.
type StakeInfo struct {
	Staker   string    `json:"staker"`
	StakedAt time.Time `json:"staked_at"`
}

// NFT is the mutable ledger entity. Only NFTStore writes it.
type NFT struct {
	ID          string         `json:"id"`
	Owner       string         `json:"owner"`
	Metadata    Metadata       `json:"metadata"`
	State       LifecycleState `json:"state"`
	Stake       *StakeInfo     `json:"stake,omitempty"`
	RoyaltyRate *uint8         `json:"royalty_rate,omitempty"` // percentage, nil = none
	Version     uint64         `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewNFT creates an Active record owned by owner.
func NewNFT(id, owner string, metadata Metadata, royaltyRate *uint8, now time.Time) *NFT {
	return &NFT{
		ID:          id,
		Owner:       owner,
		Metadata:    metadata.Clone(),
		State:       LifecycleActive,
		RoyaltyRate: royaltyRate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsStaked returns true while the staking lock is held.
func (n *NFT) IsStaked() bool {
	return n.State == LifecycleStaked
}

// TransferTo replaces the owner. Staked records are locked.
func (n *NFT) TransferTo(newOwner string) error {
	if n.State != LifecycleActive {
		return apperror.ErrStakedLockViolation()
	}
	if newOwner == "" {
		return apperror.Validation("new owner is required")
	}
	if newOwner == n.Owner {
		return apperror.ErrNoOpTransfer()
	}
	n.Owner = newOwner
	return nil
}

// StakeAt locks the record on behalf of its current owner.
func (n *NFT) StakeAt(now time.Time) error {
	if n.State == LifecycleStaked {
		return apperror.ErrAlreadyStaked()
	}
	if n.State != LifecycleActive {
		return apperror.ErrStakedLockViolation()
	}
	n.State = LifecycleStaked
	n.Stake = &StakeInfo{Staker: n.Owner, StakedAt: now}
	return nil
}

// Unstake releases the staking lock.
func (n *NFT) Unstake() error {
	if n.State != LifecycleStaked {
		return apperror.ErrNotStaked()
	}
	n.State = LifecycleActive
	n.Stake = nil
	return nil
}

// Validate checks the record invariants that must hold after every write.
func (n *NFT) Validate() error {
	switch {
	case n.ID == "":
		return errors.New("nft: empty id")
	case n.Owner == "":
		return errors.New("nft: empty owner")
	case n.Metadata.ContentAddress == "":
		return errors.New("nft: empty content address")
	case n.RoyaltyRate != nil && *n.RoyaltyRate > MaxRoyaltyRate:
		return errors.New("nft: royalty rate above 100")
	}

	switch n.State {
	case LifecycleActive:
		if n.Stake != nil {
			return errors.New("nft: active record carries stake info")
		}
	case LifecycleStaked:
		if n.Stake == nil {
			return errors.New("nft: staked record without stake info")
		}
	default:
		return errors.New("nft: unknown lifecycle state " + string(n.State))
	}
	return nil
}

// Clone returns a deep copy of the record.
func (n *NFT) Clone() *NFT {
	c := *n
	c.Metadata = n.Metadata.Clone()
	if n.Stake != nil {
		s := *n.Stake
		c.Stake = &s
	}
	if n.RoyaltyRate != nil {
		r := *n.RoyaltyRate
		c.RoyaltyRate = &r
	}
	return &c
}
