package models

import (
	"time"

	"gorm.io/gorm"

	"presupuesto/internal/uuid"
)

// Base contains the common columns for all tables. Deletes are hard
// deletes: the deletion guards in the service layer make soft deletion
// unnecessary, and a deleted-at column would break the unique index on
// (user_id, month) when a budget is recreated for the same month.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
