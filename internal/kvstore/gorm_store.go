package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/join-board/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps keys in the kv_items table of any gorm dialect.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore. The kv_items table must already exist.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the value stored under key.
func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	value, _, err := s.GetVersioned(ctx, key)
	return value, err
}

// GetVersioned returns the value and revision stored under key.
func (s *GormStore) GetVersioned(ctx context.Context, key string) (string, int64, error) {
	var item models.KVItem
	if err := s.db.WithContext(ctx).Where("item_key = ?", key).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return "", 0, fmt.Errorf("gorm store: get %q: %w", key, err)
	}
	return item.Value, item.Revision, nil
}

// Set writes value unconditionally and bumps the revision.
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	item := models.KVItem{Key: key, Value: value, Revision: 1, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      value,
				"revision":   gorm.Expr("revision + 1"),
				"updated_at": item.UpdatedAt,
			}),
		}).
		Create(&item).Error
	if err != nil {
		return fmt.Errorf("gorm store: set %q: %w", key, err)
	}
	return nil
}

// CompareAndSwap writes value if the stored revision equals expected.
func (s *GormStore) CompareAndSwap(ctx context.Context, key, value string, expected int64) (int64, error) {
	now := time.Now()

	if expected == 0 {
		item := models.KVItem{Key: key, Value: value, Revision: 1, UpdatedAt: now}
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&item)
		if res.Error != nil {
			return 0, fmt.Errorf("gorm store: insert %q: %w", key, res.Error)
		}
		if res.RowsAffected == 0 {
			return 0, ErrConflict
		}
		return 1, nil
	}

	res := s.db.WithContext(ctx).
		Model(&models.KVItem{}).
		Where("item_key = ? AND revision = ?", key, expected).
		Updates(map[string]interface{}{
			"value":      value,
			"revision":   expected + 1,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("gorm store: update %q: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrConflict
	}
	return expected + 1, nil
}
