package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the key holds no value.
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrConflict is returned by CompareAndSwap when the stored revision moved.
	ErrConflict = errors.New("kvstore: revision conflict")
)

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// VersionedStore is a Store that can detect concurrent writers. Revisions
// start at 1 for the first write; an absent key has revision 0.
type VersionedStore interface {
	Store

	// GetVersioned returns the value together with its revision.
	GetVersioned(ctx context.Context, key string) (string, int64, error)

	// CompareAndSwap writes value only if the stored revision still equals
	// expected and returns the new revision. It returns ErrConflict otherwise.
	CompareAndSwap(ctx context.Context, key, value string, expected int64) (int64, error)
}
