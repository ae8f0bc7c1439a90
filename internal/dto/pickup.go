package dto

import (
	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/services"
)

// GenerateRequest is the body of POST /api/pickup/generate
type GenerateRequest struct {
	PersonDescription string `json:"person_description"`
	DirtinessLevel    *int   `json:"dirtiness_level"`
	Style             string `json:"style"`
}

// GenerateResponse is returned by generate and regenerate
type GenerateResponse struct {
	PickupLine     string    `json:"pickup_line"`
	HistoryID      uuid.UUID `json:"history_id"`
	Style          string    `json:"style"`
	DirtinessLevel int       `json:"dirtiness_level"`
}

func ToGenerateResponse(result services.GenerationResult) GenerateResponse {
	return GenerateResponse{
		PickupLine:     result.PickupLine,
		HistoryID:      result.HistoryID,
		Style:          result.Style,
		DirtinessLevel: result.DirtinessLevel,
	}
}

// RateRequest is the body of POST /api/pickup/rate/:id. Absent fields are
// left unchanged.
type RateRequest struct {
	Rating  *int    `json:"rating"`
	Used    *bool   `json:"used"`
	Success *bool   `json:"success"`
	Notes   *string `json:"notes"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
