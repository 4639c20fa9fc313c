package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Раздел чек-листа ASVS (например, "Authentication").
// Общий для всех пользователей, slug попадает в URL и не меняется.
type Section struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	Name       string `gorm:"size:255;not null"`
	Slug       string `gorm:"size:255;uniqueIndex;not null"`
	OrderIndex int    `gorm:"not null"` // порядок в сайдбаре и в отчёте

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Section) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
