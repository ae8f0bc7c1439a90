package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrHistoryNotFound = errors.New("history entry not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// PickupService handles generation, regeneration and feedback.
type PickupService struct {
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	historyRepo  repository.HistoryRepository
	composer     *PromptComposer
	gateway      *GenerationGateway
}

// NewPickupService creates a new PickupService
func NewPickupService(userRepo repository.UserRepository, settingsRepo repository.SettingsRepository, historyRepo repository.HistoryRepository, composer *PromptComposer, gateway *GenerationGateway) *PickupService {
	return &PickupService{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		historyRepo:  historyRepo,
		composer:     composer,
		gateway:      gateway,
	}
}

// RateInput carries the feedback fields; nil fields are left unchanged.
type RateInput struct {
	Rating  *int
	Used    *bool
	Success *bool
	Notes   *string
}

// Generate composes a prompt from params and the caller's settings and runs it
// through the gateway. Unknown users fail with ErrUserNotFound before the
// provider is called.
func (s *PickupService) Generate(ctx context.Context, userID uuid.UUID, params GenerationParams) (*GenerationResult, error) {
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	settings, err := s.findSettings(userID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.composer.Compose(params, settings)
	if err != nil {
		return nil, err
	}

	return s.gateway.Generate(ctx, GenerationRequest{
		UserID:   userID,
		Prompt:   prompt,
		Params:   params,
		Settings: settings,
	})
}

// Regenerate reruns the pipeline with the parameters of an existing entry,
// producing a new entry.
func (s *PickupService) Regenerate(ctx context.Context, userID, entryID uuid.UUID) (*GenerationResult, error) {
	entry, err := s.findEntry(entryID, userID)
	if err != nil {
		return nil, err
	}

	return s.Generate(ctx, userID, GenerationParams{
		PersonDescription: entry.PersonDescription,
		DirtinessLevel:    entry.DirtinessLevel,
		Style:             entry.Style,
	})
}

// Rate applies the provided feedback fields to an entry.
func (s *PickupService) Rate(userID, entryID uuid.UUID, input RateInput) (*models.HistoryEntry, error) {
	if input.Rating != nil && (*input.Rating < constants.MinRating || *input.Rating > constants.MaxRating) {
		return nil, ErrInvalidRating
	}

	entry, err := s.findEntry(entryID, userID)
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		entry.Rating = input.Rating
	}
	if input.Used != nil {
		entry.Used = *input.Used
	}
	if input.Success != nil {
		entry.Success = input.Success
	}
	if input.Notes != nil {
		entry.Notes = input.Notes
	}

	if err := s.historyRepo.Update(entry); err != nil {
		return nil, fmt.Errorf("failed to update history entry: %w", err)
	}

	return entry, nil
}

func (s *PickupService) findEntry(entryID, userID uuid.UUID) (*models.HistoryEntry, error) {
	entry, err := s.historyRepo.FindByID(entryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, fmt.Errorf("failed to find history entry: %w", err)
	}
	return entry, nil
}

// findSettings returns nil settings when the user has none.
func (s *PickupService) findSettings(userID uuid.UUID) (*models.Settings, error) {
	settings, err := s.settingsRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}
