package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/services"
)

// HistoryEntryDTO represents a history entry in API responses
type HistoryEntryDTO struct {
	ID                uuid.UUID `json:"id"`
	PersonDescription string    `json:"person_description"`
	PickupLine        string    `json:"pickup_line"`
	DirtinessLevel    int       `json:"dirtiness_level"`
	Style             string    `json:"style"`
	ModelUsed         string    `json:"model_used"`
	Rating            *int      `json:"rating"`
	Used              bool      `json:"used"`
	Success           *bool     `json:"success"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}

// HistoryListResponse represents a paginated list of history entries
type HistoryListResponse struct {
	History     []HistoryEntryDTO `json:"history"`
	Total       int64             `json:"total"`
	Pages       int               `json:"pages"`
	CurrentPage int               `json:"current_page"`
	PerPage     int               `json:"per_page"`
}

// ToHistoryEntryDTO converts a HistoryEntry model to HistoryEntryDTO
func ToHistoryEntryDTO(entry models.HistoryEntry) HistoryEntryDTO {
	return HistoryEntryDTO{
		ID:                entry.ID,
		PersonDescription: entry.PersonDescription,
		PickupLine:        entry.PickupLine,
		DirtinessLevel:    entry.DirtinessLevel,
		Style:             entry.Style,
		ModelUsed:         entry.ModelUsed,
		Rating:            entry.Rating,
		Used:              entry.Used,
		Success:           entry.Success,
		Notes:             entry.Notes,
		CreatedAt:         entry.CreatedAt,
	}
}

// ToHistoryListResponse converts a service page to the list response
func ToHistoryListResponse(page services.HistoryPage) HistoryListResponse {
	items := make([]HistoryEntryDTO, len(page.Entries))
	for i, entry := range page.Entries {
		items[i] = ToHistoryEntryDTO(entry)
	}

	return HistoryListResponse{
		History:     items,
		Total:       page.Total,
		Pages:       page.Pages,
		CurrentPage: page.Page,
		PerPage:     page.PerPage,
	}
}
