package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSettingsNotFound   = errors.New("settings not found")
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
	ErrInvalidMaxTokens   = errors.New("max tokens must be between 50 and 500")
	ErrInvalidStyle       = errors.New("style must be one of: " + strings.Join(constants.ValidStyles, ", "))
	ErrInvalidModel       = errors.New("preferred model cannot be empty")
)

// SettingsService reads and updates user settings.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	catalog      []ModelInfo
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo repository.SettingsRepository, catalog []ModelInfo) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		catalog:      slices.Clone(catalog),
	}
}

// UpdateSettingsInput represents a partial settings update; nil fields are left unchanged.
type UpdateSettingsInput struct {
	CustomPromptTemplate  *string
	PreferredModel        *string
	Temperature           *float64
	MaxTokens             *int
	DefaultDirtinessLevel *int
	IncludeEmojis         *bool
	PreferredStyle        *string
}

// Validate checks every provided field. Unlike generation, the style must be
// one of the known styles here.
func (in UpdateSettingsInput) Validate() error {
	if in.PreferredModel != nil && strings.TrimSpace(*in.PreferredModel) == "" {
		return ErrInvalidModel
	}
	if in.Temperature != nil && (*in.Temperature < constants.MinTemperature || *in.Temperature > constants.MaxTemperature) {
		return ErrInvalidTemperature
	}
	if in.MaxTokens != nil && (*in.MaxTokens < constants.MinMaxTokens || *in.MaxTokens > constants.MaxMaxTokens) {
		return ErrInvalidMaxTokens
	}
	if in.DefaultDirtinessLevel != nil && (*in.DefaultDirtinessLevel < constants.MinDirtinessLevel || *in.DefaultDirtinessLevel > constants.MaxDirtinessLevel) {
		return ErrInvalidDirtiness
	}
	if in.PreferredStyle != nil && !slices.Contains(constants.ValidStyles, *in.PreferredStyle) {
		return ErrInvalidStyle
	}
	return nil
}

// Get returns the caller's settings.
func (s *SettingsService) Get(userID uuid.UUID) (*models.Settings, error) {
	settings, err := s.settingsRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to find settings: %w", err)
	}
	return settings, nil
}

// Update validates the whole input before changing anything, then applies
// the provided fields. An empty custom template clears it.
func (s *SettingsService) Update(userID uuid.UUID, input UpdateSettingsInput) (*models.Settings, error) {
	settings, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.CustomPromptTemplate != nil {
		if *input.CustomPromptTemplate == "" {
			settings.CustomPromptTemplate = nil
		} else {
			settings.CustomPromptTemplate = input.CustomPromptTemplate
		}
	}
	if input.PreferredModel != nil {
		settings.PreferredModel = strings.TrimSpace(*input.PreferredModel)
	}
	if input.Temperature != nil {
		settings.Temperature = *input.Temperature
	}
	if input.MaxTokens != nil {
		settings.MaxTokens = *input.MaxTokens
	}
	if input.DefaultDirtinessLevel != nil {
		settings.DefaultDirtinessLevel = *input.DefaultDirtinessLevel
	}
	if input.IncludeEmojis != nil {
		settings.IncludeEmojis = *input.IncludeEmojis
	}
	if input.PreferredStyle != nil {
		settings.PreferredStyle = *input.PreferredStyle
	}

	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	return settings, nil
}

// Models returns the offered model catalog.
func (s *SettingsService) Models() []ModelInfo {
	return slices.Clone(s.catalog)
}
