package database

import (
	"fmt"

	"github.com/yukikurage/join-board/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables backing the key-value store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.KVItem{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
