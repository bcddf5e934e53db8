package models

import "time"

// KVItem is one key of the SQL-backed key-value store.
type KVItem struct {
	Key       string    `gorm:"column:item_key;primaryKey;type:varchar(191)" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	Revision  int64     `gorm:"not null;default:0" json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVItem) TableName() string {
	return "kv_items"
}
