package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateSettings is returned when creating the settings row fails inside the signup transaction.
	ErrCreateSettings = errors.New("user repository: create settings failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithSettings creates a user and their settings atomically.
func (r *GormUserRepository) CreateWithSettings(user *models.User, settings *models.Settings) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Settings", "History").Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		settings.UserID = user.ID

		if err := tx.Create(settings).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateSettings, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
