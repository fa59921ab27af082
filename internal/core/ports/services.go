package ports

import (
	"context"
	"time"

	"shielded-nft/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// Committer is the hashing/commitment primitive. Commit must be deterministic
// and collision resistant.
type Committer interface {
	Commit(data []byte) []byte
}

// AccessGate decides whether credential may read nft's shielded metadata.
type AccessGate interface {
	Authorize(ctx context.Context, credential string, nft *domain.NFT) bool
}

// Unlock releases a lock obtained from KeyedLocker.
type Unlock func()

// KeyedLocker serializes work per key. Lock blocks until the key is free or
// ctx is done.
type KeyedLocker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// MetadataSealer encrypts shielded metadata at rest. associatedData binds a
// ciphertext to its record so sealed blobs cannot be swapped between rows.
type MetadataSealer interface {
	Seal(plaintext, associatedData []byte) (string, error)
	Open(sealed string, associatedData []byte) ([]byte, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
}

// ViewingKeyService issues and validates viewing credentials.
type ViewingKeyService interface {
	Issue(viewer, nftID string) (string, time.Time, error)
	Validate(credential string) (*ViewingClaims, error)
}

// AccountTokenService issues and validates bearer tokens that prove control
// of a ledger account. The wallet or gateway in front of the ledger obtains
// them for its users.
type AccountTokenService interface {
	Issue(account string) (string, time.Time, error)
	Validate(token string) (string, error)
}

// ViewingClaims holds the parsed viewing credential.
type ViewingClaims struct {
	Viewer string
	NFTID  string
}

// AuditService records lifecycle actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// MintService creates new records.
type MintService interface {
	Mint(ctx context.Context, req MintRequest) (string, error)
}

// MintRequest holds input for minting.
type MintRequest struct {
	Owner       string
	Metadata    domain.Metadata
	RoyaltyRate *int // percentage in [0, 100], nil = none
	Nonce       string
}

// TransferService moves ownership.
type TransferService interface {
	Transfer(ctx context.Context, id, newOwner string) error
}

// StakingService toggles the staking lock.
type StakingService interface {
	Stake(ctx context.Context, id string) error
	Unstake(ctx context.Context, id string) error
}

// AirdropService distributes derived copies of a record.
type AirdropService interface {
	Airdrop(ctx context.Context, id string, recipients []string) ([]domain.AirdropOutcome, error)
}

// ViewService exposes metadata subject to shielding.
type ViewService interface {
	// Reveal returns nil, nil both for unknown ids and for denied access.
	Reveal(ctx context.Context, id, credential string) (*domain.Metadata, error)
	IssueViewingKey(ctx context.Context, id, requester string) (string, time.Time, error)
	ListOwned(ctx context.Context, owner string) ([]string, error)
}

// PortabilityService moves records across chains as IBC packets.
type PortabilityService interface {
	// Export discloses plaintext metadata and is refused unless requester
	// is the current owner.
	Export(ctx context.Context, id, requester string) ([]byte, error)
	Import(ctx context.Context, packet []byte) (string, error)
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}
