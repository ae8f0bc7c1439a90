package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithSettings creates a user and their settings row within a single transaction.
	CreateWithSettings(user *models.User, settings *models.Settings) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// SettingsRepository defines the interface for settings data access
type SettingsRepository interface {
	// FindByUserID finds the settings belonging to a user
	FindByUserID(userID uuid.UUID) (*models.Settings, error)

	// Update persists all fields of the settings row
	Update(settings *models.Settings) error
}

// HistoryRepository defines the interface for pickup history data access.
// Every lookup is scoped to the owning user.
type HistoryRepository interface {
	// Create stores a new history entry
	Create(entry *models.HistoryEntry) error

	// FindByID finds an entry owned by userID
	FindByID(id, userID uuid.UUID) (*models.HistoryEntry, error)

	// Update persists all fields of an entry
	Update(entry *models.HistoryEntry) error

	// Delete removes an entry owned by userID. Returns gorm.ErrRecordNotFound
	// when nothing matched.
	Delete(id, userID uuid.UUID) error

	// List retrieves entries newest-first with filtering and pagination
	List(filter HistoryFilter) ([]models.HistoryEntry, int64, error)

	// CountByStyle aggregates the usage counters of each style
	CountByStyle(userID uuid.UUID) ([]StyleCount, error)

	// CountByDirtiness counts entries per dirtiness level
	CountByDirtiness(userID uuid.UUID) ([]DirtinessCount, error)

	// RatingTotals sums the ratings of rated entries
	RatingTotals(userID uuid.UUID) (RatingTotals, error)

	// CreatedSince returns the creation times of entries created at or after since
	CreatedSince(userID uuid.UUID, since time.Time) ([]time.Time, error)
}

// StyleCount holds the counters of one style. Successful counts every
// successful entry; UsedSuccessful only those also marked used.
type StyleCount struct {
	Style          string
	Total          int64
	UsedCount      int64
	Successful     int64
	UsedSuccessful int64
}

// DirtinessCount is the number of entries at one dirtiness level.
type DirtinessCount struct {
	DirtinessLevel int
	Total          int64
}

// RatingTotals is the sum and number of ratings given.
type RatingTotals struct {
	Sum   int64 `gorm:"column:rating_sum"`
	Count int64 `gorm:"column:rating_count"`
}

// HistoryFilter holds filtering options for listing history entries
type HistoryFilter struct {
	UserID      uuid.UUID
	Style       *string
	MinRating   *int
	UsedOnly    bool
	SuccessOnly bool
	Pagination  utils.PaginationParams
}
