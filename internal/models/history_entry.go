package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryEntry records one generated pickup line. The generation facts are
// immutable; Rating, Used, Success and Notes carry user feedback.
type HistoryEntry struct {
	ID                uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID            uuid.UUID `gorm:"type:varchar(36);index;not null" json:"user_id"`
	PersonDescription string    `gorm:"type:text;not null" json:"person_description"`
	PickupLine        string    `gorm:"type:text;not null" json:"pickup_line"`
	DirtinessLevel    int       `gorm:"not null" json:"dirtiness_level"`
	Style             string    `gorm:"type:varchar(50);index;not null" json:"style"`
	ModelUsed         string    `gorm:"type:varchar(100);not null" json:"model_used"`
	Rating            *int      `json:"rating"`
	Used              bool      `gorm:"not null;default:false" json:"used"`
	Success           *bool     `json:"success"`
	Notes             *string   `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
}

func (HistoryEntry) TableName() string {
	return "pickup_history"
}

func (h *HistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
