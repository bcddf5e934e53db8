package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/yukikurage/join-board/internal/constants"
	"github.com/yukikurage/join-board/internal/kvstore"
	"github.com/yukikurage/join-board/internal/logger"
	"github.com/yukikurage/join-board/internal/models"
)

var (
	// ErrCorruptDocument is returned when the stored value is not a user database.
	ErrCorruptDocument = errors.New("user database: stored document is not valid")
	// ErrUpdateConflict is returned when every compare-and-swap attempt lost to another writer.
	ErrUpdateConflict = errors.New("user database: too many concurrent updates")
	// ErrSaveFailed is returned when writing the document back fails.
	ErrSaveFailed = errors.New("user database: save failed")
)

// StoreUserDatabaseRepository keeps the user database as one JSON value in a kvstore.Store.
// When the store implements kvstore.VersionedStore, writes use compare-and-swap and are
// retried on conflict; otherwise the last writer wins.
type StoreUserDatabaseRepository struct {
	store kvstore.Store
	key   string
	log   *logger.Logger

	// mu serializes read-modify-write cycles issued by this process.
	mu sync.Mutex

	observe func(result string)
}

// Update results reported to the observer.
const (
	UpdateOK        = "ok"
	UpdateRetried   = "conflict"
	UpdateExhausted = "exhausted"
	UpdateFailed    = "error"
)

// ObserveUpdates registers fn to be told the outcome of every write attempt.
// It must be called before the repository is shared.
func (r *StoreUserDatabaseRepository) ObserveUpdates(fn func(result string)) {
	r.observe = fn
}

func (r *StoreUserDatabaseRepository) report(result string) {
	if r.observe != nil {
		r.observe(result)
	}
}

// NewUserDatabaseRepository creates a repository for the document stored under key.
func NewUserDatabaseRepository(store kvstore.Store, key string, log *logger.Logger) *StoreUserDatabaseRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &StoreUserDatabaseRepository{
		store: store,
		key:   key,
		log:   log.WithComponent("user_database"),
	}
}

// Load reads the current document. Documents converted from the legacy layout are
// written back so the identities minted while decoding stay stable.
func (r *StoreUserDatabaseRepository) Load(ctx context.Context) (*models.UserDatabase, error) {
	db, _, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	if !db.Migrated() {
		return db, nil
	}
	return r.writeBackMigrated(ctx)
}

// writeBackMigrated re-reads the document under mu and persists the converted copy.
// An Update that ran since the first read has already converted it, and its result wins.
func (r *StoreUserDatabaseRepository) writeBackMigrated(ctx context.Context) (*models.UserDatabase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, rev, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	if !db.Migrated() {
		return db, nil
	}

	if err := r.write(ctx, db, rev); err != nil {
		r.log.Warnw("failed to write back migrated user database", "error", err)
	} else {
		r.log.Infow("migrated legacy user database", "users", len(db.Users))
	}
	return db, nil
}

// Update runs fn on the freshest document and persists it.
func (r *StoreUserDatabaseRepository) Update(ctx context.Context, fn func(db *models.UserDatabase) error) (*models.UserDatabase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 1; attempt <= constants.MaxUpdateAttempts; attempt++ {
		db, rev, err := r.read(ctx)
		if err != nil {
			return nil, err
		}

		if err := fn(db); err != nil {
			return nil, err
		}

		err = r.write(ctx, db, rev)
		if errors.Is(err, kvstore.ErrConflict) {
			r.report(UpdateRetried)
			r.log.Debugw("user database changed concurrently, retrying", "attempt", attempt)
			continue
		}
		if err != nil {
			r.report(UpdateFailed)
			return nil, err
		}
		r.report(UpdateOK)
		return db, nil
	}

	r.report(UpdateExhausted)
	return nil, ErrUpdateConflict
}

func (r *StoreUserDatabaseRepository) read(ctx context.Context) (*models.UserDatabase, int64, error) {
	var (
		value string
		rev   int64
		err   error
	)
	if vs, ok := r.store.(kvstore.VersionedStore); ok {
		value, rev, err = vs.GetVersioned(ctx, r.key)
	} else {
		value, err = r.store.Get(ctx, r.key)
	}

	if errors.Is(err, kvstore.ErrNotFound) {
		return &models.UserDatabase{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load user database: %w", err)
	}

	db := &models.UserDatabase{}
	if err := json.Unmarshal([]byte(value), db); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return db, rev, nil
}

func (r *StoreUserDatabaseRepository) write(ctx context.Context, db *models.UserDatabase, rev int64) error {
	data, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if vs, ok := r.store.(kvstore.VersionedStore); ok {
		if _, err := vs.CompareAndSwap(ctx, r.key, string(data), rev); err != nil {
			if errors.Is(err, kvstore.ErrConflict) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
		return nil
	}

	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}
