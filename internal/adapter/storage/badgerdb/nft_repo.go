package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"

	"github.com/dgraph-io/badger/v4"
)

const (
	recordPrefix = "nft/"
	ownerPrefix  = "owner/"
)

func recordKey(id string) []byte {
	return []byte(recordPrefix + id)
}

// ownerKey indexes id under owner. Account names never contain control
// characters, so NUL separates the two parts unambiguously.
func ownerKey(owner, id string) []byte {
	return []byte(ownerPrefix + owner + "\x00" + id)
}

func ownerScanPrefix(owner string) []byte {
	return []byte(ownerPrefix + owner + "\x00")
}

// NFTRepo implements ports.NFTRepository on an embedded badger store. Each
// write runs in one badger transaction, so the record and its owner index
// never diverge.
type NFTRepo struct {
	db *badger.DB
}

// NewNFTRepo creates a repository over an open store.
func NewNFTRepo(db *badger.DB) *NFTRepo {
	return &NFTRepo{db: db}
}

func (r *NFTRepo) Get(_ context.Context, id string) (*domain.NFT, error) {
	var nft *domain.NFT
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		nft, err = readRecord(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get nft by id: %w", err)
	}
	return nft, nil
}

func (r *NFTRepo) Exists(_ context.Context, id string) (bool, error) {
	exists := false
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check nft exists: %w", err)
	}
	return exists, nil
}

func (r *NFTRepo) Insert(_ context.Context, nft *domain.NFT) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		current, err := readRecord(txn, nft.ID)
		if err != nil {
			return err
		}
		if current != nil {
			return ports.ErrAlreadyExists
		}
		return writeRecord(txn, nft, "")
	})
	if errors.Is(err, ports.ErrAlreadyExists) {
		return err
	}
	if errors.Is(err, badger.ErrConflict) {
		return ports.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert nft: %w", err)
	}
	return nil
}

func (r *NFTRepo) UpdateIfUnchanged(_ context.Context, nft *domain.NFT, expectedVersion uint64) (bool, error) {
	updated := false
	err := r.db.Update(func(txn *badger.Txn) error {
		current, err := readRecord(txn, nft.ID)
		if err != nil {
			return err
		}
		if current == nil || current.Version != expectedVersion {
			return nil
		}
		updated = true
		return writeRecord(txn, nft, current.Owner)
	})
	if errors.Is(err, badger.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update nft: %w", err)
	}
	return updated, nil
}

// ListByOwner returns ids in ascending key order.
func (r *NFTRepo) ListByOwner(_ context.Context, owner string) ([]string, error) {
	prefix := ownerScanPrefix(owner)
	ids := make([]string, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			ids = append(ids, string(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list nfts by owner: %w", err)
	}
	return ids, nil
}

// Ping reports an error once the store is closed.
func (r *NFTRepo) Ping(_ context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}

func (r *NFTRepo) Name() string {
	return "badger"
}

// Close flushes and closes the underlying store.
func (r *NFTRepo) Close() error {
	return r.db.Close()
}

func readRecord(txn *badger.Txn, id string) (*domain.NFT, error) {
	item, err := txn.Get(recordKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var nft domain.NFT
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &nft)
	}); err != nil {
		return nil, fmt.Errorf("decode nft %s: %w", id, err)
	}
	nft.Metadata = nft.Metadata.Clone()
	return &nft, nil
}

// writeRecord stores nft and moves its owner index entry away from
// previousOwner when ownership changed.
func writeRecord(txn *badger.Txn, nft *domain.NFT, previousOwner string) error {
	val, err := json.Marshal(nft)
	if err != nil {
		return fmt.Errorf("encode nft %s: %w", nft.ID, err)
	}
	if err := txn.Set(recordKey(nft.ID), val); err != nil {
		return err
	}
	if previousOwner != "" && previousOwner != nft.Owner {
		if err := txn.Delete(ownerKey(previousOwner, nft.ID)); err != nil {
			return err
		}
	}
	return txn.Set(ownerKey(nft.Owner, nft.ID), nil)
}
