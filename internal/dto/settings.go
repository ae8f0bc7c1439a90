package dto

import (
	"time"

	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/services"
)

// SettingsDTO represents user settings in API responses
type SettingsDTO struct {
	CustomPromptTemplate  *string   `json:"custom_prompt_template"`
	PreferredModel        string    `json:"preferred_model"`
	Temperature           float64   `json:"temperature"`
	MaxTokens             int       `json:"max_tokens"`
	DefaultDirtinessLevel int       `json:"default_dirtiness_level"`
	IncludeEmojis         bool      `json:"include_emojis"`
	PreferredStyle        string    `json:"preferred_style"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the body of PUT /api/settings
type UpdateSettingsRequest struct {
	CustomPromptTemplate  *string  `json:"custom_prompt_template"`
	PreferredModel        *string  `json:"preferred_model"`
	Temperature           *float64 `json:"temperature"`
	MaxTokens             *int     `json:"max_tokens"`
	DefaultDirtinessLevel *int     `json:"default_dirtiness_level"`
	IncludeEmojis         *bool    `json:"include_emojis"`
	PreferredStyle        *string  `json:"preferred_style"`
}

// UpdateSettingsResponse is returned after a successful update
type UpdateSettingsResponse struct {
	Message  string      `json:"message"`
	Settings SettingsDTO `json:"settings"`
}

// ModelsResponse lists the models a user may pick
type ModelsResponse struct {
	Models []services.ModelInfo `json:"models"`
}

// ToSettingsDTO converts a Settings model to SettingsDTO
func ToSettingsDTO(settings models.Settings) SettingsDTO {
	return SettingsDTO{
		CustomPromptTemplate:  settings.CustomPromptTemplate,
		PreferredModel:        settings.PreferredModel,
		Temperature:           settings.Temperature,
		MaxTokens:             settings.MaxTokens,
		DefaultDirtinessLevel: settings.DefaultDirtinessLevel,
		IncludeEmojis:         settings.IncludeEmojis,
		PreferredStyle:        settings.PreferredStyle,
		UpdatedAt:             settings.UpdatedAt,
	}
}

// ToUpdateSettingsInput converts the request body to the service input
func (r UpdateSettingsRequest) ToUpdateSettingsInput() services.UpdateSettingsInput {
	return services.UpdateSettingsInput{
		CustomPromptTemplate:  r.CustomPromptTemplate,
		PreferredModel:        r.PreferredModel,
		Temperature:           r.Temperature,
		MaxTokens:             r.MaxTokens,
		DefaultDirtinessLevel: r.DefaultDirtinessLevel,
		IncludeEmojis:         r.IncludeEmojis,
		PreferredStyle:        r.PreferredStyle,
	}
}
