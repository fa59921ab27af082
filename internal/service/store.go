package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"

	"github.com/rs/zerolog"
)

// maxUpdateAttempts bounds the compare-and-swap loop in Update.
const maxUpdateAttempts = 3

var errConcurrentUpdate = errors.New("record changed by another writer")

// NFTStore is the only writer of NFT records. Mutations on one id are
// serialized through the keyed locker and committed with a version check,
// so a record is never left half-updated.
type NFTStore struct {
	repo        ports.NFTRepository
	locker      ports.KeyedLocker
	waitTimeout time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// NewNFTStore creates a new store. waitTimeout bounds lock acquisition;
// zero means wait as long as the caller's context allows.
func NewNFTStore(repo ports.NFTRepository, locker ports.KeyedLocker, waitTimeout time.Duration, log zerolog.Logger) *NFTStore {
	return &NFTStore{
		repo:        repo,
		locker:      locker,
		waitTimeout: waitTimeout,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// Get returns a snapshot of the record, or nil if the id is unknown.
func (s *NFTStore) Get(ctx context.Context, id string) (*domain.NFT, error) {
	nft, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return nft, nil
}

// ListByOwner returns the ids currently owned by owner.
func (s *NFTStore) ListByOwner(ctx context.Context, owner string) ([]string, error) {
	ids, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, repoError(err)
	}
	return ids, nil
}

// Insert stores a new record. It fails with DuplicateIdentifier if the id
// is already taken.
func (s *NFTStore) Insert(ctx context.Context, nft *domain.NFT) error {
	if err := nft.Validate(); err != nil {
		return apperror.Validation(err.Error())
	}

	unlock, err := s.acquire(ctx, nft.ID)
	if err != nil {
		return err
	}
	defer unlock()

	exists, err := s.repo.Exists(ctx, nft.ID)
	if err != nil {
		return repoError(err)
	}
	if exists {
		return apperror.ErrDuplicateIdentifier()
	}

	record := nft.Clone()
	record.Version = 1
	if err := s.repo.Insert(ctx, record); err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			return apperror.ErrDuplicateIdentifier()
		}
		return repoError(err)
	}
	nft.Version = record.Version
	return nil
}

// Update applies mutate to a copy of the current record and commits it if
// the result still satisfies the record invariants. A mutate error aborts
// the update and leaves the stored record untouched.
func (s *NFTStore) Update(ctx context.Context, id string, mutate func(n *domain.NFT) error) (*domain.NFT, error) {
	unlock, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, repoError(err)
		}
		if current == nil {
			return nil, apperror.ErrNotFound("NFT")
		}

		next := current.Clone()
		if err := mutate(next); err != nil {
			return nil, err
		}
		if next.ID != current.ID {
			return nil, apperror.InternalError(fmt.Errorf("nft %s: id is immutable", id))
		}
		if err := next.Validate(); err != nil {
			return nil, apperror.InternalError(err)
		}
		next.Version = current.Version + 1
		next.UpdatedAt = s.now()

		ok, err := s.repo.UpdateIfUnchanged(ctx, next, current.Version)
		if err != nil {
			return nil, repoError(err)
		}
		if ok {
			return next, nil
		}
		s.log.Warn().Str("nft_id", id).Int("attempt", attempt).Msg("version conflict, retrying")
	}
	return nil, apperror.ErrLockTimeout(errConcurrentUpdate)
}

// Hold locks id and calls fn with a snapshot of the record. No mutation of
// id can commit until fn returns, so checks made on the snapshot stay true
// for the whole call. fn must not lock id again.
func (s *NFTStore) Hold(ctx context.Context, id string, fn func(n *domain.NFT) error) error {
	unlock, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return repoError(err)
	}
	if current == nil {
		return apperror.ErrNotFound("NFT")
	}
	return fn(current.Clone())
}

func (s *NFTStore) acquire(ctx context.Context, id string) (ports.Unlock, error) {
	lockCtx := ctx
	if s.waitTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.waitTimeout)
		defer cancel()
	}

	unlock, err := s.locker.Lock(lockCtx, "nft:"+id)
	if err != nil {
		return nil, apperror.ErrLockTimeout(err)
	}
	return unlock, nil
}

func repoError(err error) error {
	if errors.Is(err, ports.ErrSealFailure) {
		return apperror.ErrSealFailure(err)
	}
	return apperror.ErrDatabaseError(err)
}
