package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequirementStatus string

const (
	StatusValid         RequirementStatus = "Valid"
	StatusNonValid      RequirementStatus = "Non-valid"
	StatusNotApplicable RequirementStatus = "Not Applicable"
	StatusUnanswered    RequirementStatus = "Unanswered"
)

// KnownStatus — проверка, что строка является одним из четырёх статусов.
func KnownStatus(s string) bool {
	switch RequirementStatus(s) {
	case StatusValid, StatusNonValid, StatusNotApplicable, StatusUnanswered:
		return true
	}
	return false
}

// Requirement — одно проверяемое требование чек-листа.
// Принадлежит ровно одной паре (раздел, пользователь): у двух пользователей
// "одно и то же" требование — это две независимые строки.
type Requirement struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	SectionID string `gorm:"type:uuid;not null;index"`
	Section   Section
	UserID    uint `gorm:"not null;index"`

	VerificationRequirement string            `gorm:"type:text;not null"`
	Status                  RequirementStatus `gorm:"type:varchar(20);not null;default:'Unanswered'"`

	// заметки асессора
	Comment             string `gorm:"type:text"`
	ToolUsed            string `gorm:"type:text"`
	SourceCodeReference string `gorm:"type:text"`

	// классификация из каталога ASVS
	ASVSLevel   string `gorm:"size:16"`
	SectionCode string `gorm:"size:32"`
	Area        string `gorm:"size:128"`
	NIST        string `gorm:"size:64"`
	CWE         string `gorm:"size:64"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Requirement) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusUnanswered
	}
	return nil
}
