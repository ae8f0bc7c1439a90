package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/repository"
	"github.com/yukikurage/pickup-line-api/internal/utils"
	"gorm.io/gorm"
)

// HistoryService handles listing, deleting and aggregating history entries.
type HistoryService struct {
	historyRepo repository.HistoryRepository
	now         func() time.Time
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(historyRepo repository.HistoryRepository) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		now:         time.Now,
	}
}

// ListHistoryInput represents filters for listing history
type ListHistoryInput struct {
	UserID      uuid.UUID
	Style       *string
	MinRating   *int
	UsedOnly    bool
	SuccessOnly bool
	Pagination  utils.PaginationParams
}

// HistoryPage is one page of history entries.
type HistoryPage struct {
	Entries []models.HistoryEntry
	Total   int64
	Pages   int
	Page    int
	PerPage int
}

// List returns the caller's entries newest-first.
func (s *HistoryService) List(input ListHistoryInput) (*HistoryPage, error) {
	filter := repository.HistoryFilter{
		UserID:      input.UserID,
		Style:       input.Style,
		UsedOnly:    input.UsedOnly,
		SuccessOnly: input.SuccessOnly,
		Pagination:  input.Pagination,
	}
	if input.MinRating != nil && *input.MinRating > 0 {
		filter.MinRating = input.MinRating
	}

	entries, total, err := s.historyRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return &HistoryPage{
		Entries: entries,
		Total:   total,
		Pages:   input.Pagination.TotalPages(total),
		Page:    input.Pagination.Page,
		PerPage: input.Pagination.Limit,
	}, nil
}

// Delete removes one of the caller's entries.
func (s *HistoryService) Delete(userID, entryID uuid.UUID) error {
	if err := s.historyRepo.Delete(entryID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// StatsOverview holds the all-time counters.
type StatsOverview struct {
	TotalGenerated  int64    `json:"total_generated"`
	TotalUsed       int64    `json:"total_used"`
	TotalSuccessful int64    `json:"total_successful"`
	SuccessRate     float64  `json:"success_rate"`
	AverageRating   *float64 `json:"average_rating"`
}

// StyleSuccess counts outcomes of used entries of one style.
type StyleSuccess struct {
	Total      int64   `json:"total"`
	Successful int64   `json:"successful"`
	Rate       float64 `json:"rate"`
}

// DailyCount is the number of entries created on one UTC day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// HistoryStats is the aggregated view of a user's history.
type HistoryStats struct {
	Days                  int                     `json:"days"`
	Overview              StatsOverview           `json:"overview"`
	StyleDistribution     map[string]int64        `json:"style_distribution"`
	DirtinessDistribution map[string]int64        `json:"dirtiness_distribution"`
	SuccessByStyle        map[string]StyleSuccess `json:"success_by_style"`
	RecentActivity        []DailyCount            `json:"recent_activity"`
}

// Stats aggregates the caller's history. days is echoed back; all
// aggregates are all-time except RecentActivity, which covers the last
// seven days.
func (s *HistoryService) Stats(userID uuid.UUID, days int) (*HistoryStats, error) {
	if days <= 0 {
		days = constants.DefaultStatsDays
	}

	var (
		src StatsSource
		err error
	)
	if src.Styles, err = s.historyRepo.CountByStyle(userID); err != nil {
		return nil, fmt.Errorf("failed to count styles: %w", err)
	}
	if src.Dirtiness, err = s.historyRepo.CountByDirtiness(userID); err != nil {
		return nil, fmt.Errorf("failed to count dirtiness levels: %w", err)
	}
	if src.Ratings, err = s.historyRepo.RatingTotals(userID); err != nil {
		return nil, fmt.Errorf("failed to sum ratings: %w", err)
	}
	since := s.now().Add(-constants.RecentActivityDays * 24 * time.Hour)
	if src.Recent, err = s.historyRepo.CreatedSince(userID, since); err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}

	stats := BuildStats(src)
	stats.Days = days
	return stats, nil
}

// StatsSource holds the database aggregates stats are built from. Recent
// is already limited to the activity window.
type StatsSource struct {
	Styles    []repository.StyleCount
	Dirtiness []repository.DirtinessCount
	Ratings   repository.RatingTotals
	Recent    []time.Time
}

// BuildStats folds the aggregates into the response shape.
func BuildStats(src StatsSource) *HistoryStats {
	stats := &HistoryStats{
		StyleDistribution:     map[string]int64{},
		DirtinessDistribution: map[string]int64{},
		SuccessByStyle:        map[string]StyleSuccess{},
		RecentActivity:        []DailyCount{},
	}

	for _, c := range src.Styles {
		stats.Overview.TotalGenerated += c.Total
		stats.Overview.TotalUsed += c.UsedCount
		stats.Overview.TotalSuccessful += c.Successful
		stats.StyleDistribution[c.Style] += c.Total

		if c.UsedCount > 0 {
			stats.SuccessByStyle[c.Style] = StyleSuccess{
				Total:      c.UsedCount,
				Successful: c.UsedSuccessful,
				Rate:       percentage(c.UsedSuccessful, c.UsedCount),
			}
		}
	}
	stats.Overview.SuccessRate = percentage(stats.Overview.TotalSuccessful, stats.Overview.TotalUsed)

	for _, c := range src.Dirtiness {
		stats.DirtinessDistribution[strconv.Itoa(c.DirtinessLevel)] += c.Total
	}

	if src.Ratings.Count > 0 {
		avg := math.Round(float64(src.Ratings.Sum)/float64(src.Ratings.Count)*100) / 100
		stats.Overview.AverageRating = &avg
	}

	daily := map[string]int64{}
	for _, at := range src.Recent {
		daily[at.UTC().Format(time.DateOnly)]++
	}
	for date, count := range daily {
		stats.RecentActivity = append(stats.RecentActivity, DailyCount{Date: date, Count: count})
	}
	sort.Slice(stats.RecentActivity, func(i, j int) bool {
		return stats.RecentActivity[i].Date < stats.RecentActivity[j].Date
	})

	return stats
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
