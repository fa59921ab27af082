package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited lifecycle action.
type AuditAction string

const (
	AuditActionMint       AuditAction = "MINT"
	AuditActionTransfer   AuditAction = "TRANSFER"
	AuditActionStake      AuditAction = "STAKE"
	AuditActionUnstake    AuditAction = "UNSTAKE"
	AuditActionAirdrop    AuditAction = "AIRDROP"
	AuditActionExport     AuditAction = "IBC_EXPORT"
	AuditActionImport     AuditAction = "IBC_IMPORT"
	AuditActionViewingKey AuditAction = "VIEWING_KEY"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID        uuid.UUID   `json:"id"`
	Action    AuditAction `json:"action"`
	NFTID     string      `json:"nft_id"`
	Actor     string      `json:"actor,omitempty"`
	Details   string      `json:"details,omitempty"` // JSON string
	CreatedAt time.Time   `json:"created_at"`
}

// NewAuditLog stamps a new audit entry.
func NewAuditLog(action AuditAction, nftID, actor, details string) *AuditLog {
	return &AuditLog{
		ID:        uuid.New(),
		Action:    action,
		NFTID:     nftID,
		Actor:     actor,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
}
