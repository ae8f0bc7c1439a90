package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settings holds a user's generation preferences. Exactly one row exists per user.
type Settings struct {
	ID                    uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID                uuid.UUID `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	CustomPromptTemplate  *string   `gorm:"type:text" json:"custom_prompt_template"`
	PreferredModel        string    `gorm:"type:varchar(100);not null" json:"preferred_model"`
	Temperature           float64   `gorm:"not null" json:"temperature"`
	MaxTokens             int       `gorm:"not null" json:"max_tokens"`
	DefaultDirtinessLevel int       `gorm:"not null;default:5" json:"default_dirtiness_level"`
	IncludeEmojis         bool      `gorm:"not null" json:"include_emojis"`
	PreferredStyle        string    `gorm:"type:varchar(50);not null;default:'playful'" json:"preferred_style"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (Settings) TableName() string {
	return "user_settings"
}

func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// HasCustomTemplate reports whether a non-empty custom prompt template is set.
func (s *Settings) HasCustomTemplate() bool {
	return s != nil && s.CustomPromptTemplate != nil && *s.CustomPromptTemplate != ""
}
