package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/database"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"gorm.io/gorm"
)

// GormHistoryRepository is a GORM implementation of HistoryRepository
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Create stores a new history entry
func (r *GormHistoryRepository) Create(entry *models.HistoryEntry) error {
	return r.db.Create(entry).Error
}

// FindByID finds an entry owned by userID
func (r *GormHistoryRepository) FindByID(id, userID uuid.UUID) (*models.HistoryEntry, error) {
	var entry models.HistoryEntry
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update persists all fields of an entry
func (r *GormHistoryRepository) Update(entry *models.HistoryEntry) error {
	return r.db.Save(entry).Error
}

// Delete removes an entry owned by userID
func (r *GormHistoryRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.HistoryEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves entries with filtering and pagination
func (r *GormHistoryRepository) List(filter HistoryFilter) ([]models.HistoryEntry, int64, error) {
	entries := []models.HistoryEntry{}

	query := r.db.Model(&models.HistoryEntry{}).Where("user_id = ?", filter.UserID)

	// Apply filters
	if filter.Style != nil {
		query = query.Where("style = ?", *filter.Style)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}
	if filter.UsedOnly {
		query = query.Where("used = ?", true)
	}
	if filter.SuccessOnly {
		query = query.Where("success = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// CountByStyle aggregates the usage counters of each style
func (r *GormHistoryRepository) CountByStyle(userID uuid.UUID) ([]StyleCount, error) {
	counts := []StyleCount{}
	err := r.db.Model(&models.HistoryEntry{}).
		Select("style, COUNT(*) AS total, " +
			"SUM(CASE WHEN used THEN 1 ELSE 0 END) AS used_count, " +
			"SUM(CASE WHEN success THEN 1 ELSE 0 END) AS successful, " +
			"SUM(CASE WHEN used AND success THEN 1 ELSE 0 END) AS used_successful").
		Where("user_id = ?", userID).
		Group("style").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByDirtiness counts entries per dirtiness level
func (r *GormHistoryRepository) CountByDirtiness(userID uuid.UUID) ([]DirtinessCount, error) {
	counts := []DirtinessCount{}
	err := r.db.Model(&models.HistoryEntry{}).
		Select("dirtiness_level, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("dirtiness_level").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// RatingTotals sums the ratings of rated entries
func (r *GormHistoryRepository) RatingTotals(userID uuid.UUID) (RatingTotals, error) {
	var totals RatingTotals
	err := r.db.Model(&models.HistoryEntry{}).
		Select("COALESCE(SUM(rating), 0) AS rating_sum, COUNT(rating) AS rating_count").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	return totals, err
}

// CreatedSince returns the creation times of entries created at or after since
func (r *GormHistoryRepository) CreatedSince(userID uuid.UUID, since time.Time) ([]time.Time, error) {
	times := []time.Time{}
	err := r.db.Model(&models.HistoryEntry{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}
