package models

import "time"

type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint
	User   User

	Entity   string `gorm:"size:50;not null"` // "user", "requirement", "section"
	EntityID string `gorm:"size:64"`
	Action   string `gorm:"size:50;not null"` // "create", "replace_batch", "field_update" и т.п.
	Details  string `gorm:"type:text"`
}
