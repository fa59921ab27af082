package memory

import (
	"context"
	"sync"

	"shielded-nft/internal/core/domain"
)

// AuditRepository keeps audit entries in memory.
type AuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

// NewAuditRepository creates an empty audit repository.
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(_ context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, *log)
	return nil
}

// Entries returns a copy of everything recorded so far, oldest first.
func (r *AuditRepository) Entries() []domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}
