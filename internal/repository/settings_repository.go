package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"gorm.io/gorm"
)

// GormSettingsRepository is a GORM implementation of SettingsRepository
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindByUserID finds the settings belonging to a user
func (r *GormSettingsRepository) FindByUserID(userID uuid.UUID) (*models.Settings, error) {
	var settings models.Settings
	if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update persists the settings; gorm refreshes UpdatedAt on save.
func (r *GormSettingsRepository) Update(settings *models.Settings) error {
	return r.db.Save(settings).Error
}
