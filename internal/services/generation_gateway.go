package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/cache"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/repository"
	"go.uber.org/zap"
)

// ErrGenerationFailed matches every GenerationError via errors.Is.
var ErrGenerationFailed = errors.New("generation failed")

// GenerationError wraps any provider failure. Detail is the upstream message.
type GenerationError struct {
	Detail string
	Err    error
}

func (e *GenerationError) Error() string {
	return "failed to generate pickup line: " + e.Detail
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// LineCache stores generated lines with an expiry.
type LineCache interface {
	Store(ctx context.Context, key, value string, ttl time.Duration) error
}

// GenerationDefaults apply when the user has no settings row.
type GenerationDefaults struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// GenerationRequest is one round trip through the gateway.
type GenerationRequest struct {
	UserID   uuid.UUID
	Prompt   Prompt
	Params   GenerationParams
	Settings *models.Settings
}

// GenerationResult is returned to the caller after a successful generation.
type GenerationResult struct {
	PickupLine     string
	HistoryID      uuid.UUID
	Style          string
	DirtinessLevel int
}

// GenerationGateway calls the provider and records successful results.
type GenerationGateway struct {
	llm      ChatCompleter
	history  repository.HistoryRepository
	cache    LineCache
	defaults GenerationDefaults
	log      *zap.Logger
}

func NewGenerationGateway(llm ChatCompleter, history repository.HistoryRepository, lineCache LineCache, defaults GenerationDefaults, log *zap.Logger) *GenerationGateway {
	if lineCache == nil {
		lineCache = cache.NopStore{}
	}
	return &GenerationGateway{
		llm:      llm,
		history:  history,
		cache:    lineCache,
		defaults: defaults,
		log:      log,
	}
}

// Generate performs one provider call. Nothing is persisted when the call
// fails; the cache write afterwards is best effort.
func (g *GenerationGateway) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	model, temperature, maxTokens := g.resolve(req.Settings)

	text, err := g.llm.Complete(ctx, CompletionRequest{
		Model:       model,
		System:      req.Prompt.System,
		Prompt:      req.Prompt.User,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, &GenerationError{Detail: err.Error(), Err: err}
	}

	line := strings.TrimSpace(text)
	if line == "" {
		return nil, &GenerationError{Detail: "provider returned an empty completion"}
	}

	entry := &models.HistoryEntry{
		UserID:            req.UserID,
		PersonDescription: req.Params.PersonDescription,
		PickupLine:        line,
		DirtinessLevel:    req.Params.DirtinessLevel,
		Style:             req.Params.Style,
		ModelUsed:         model,
	}
	if err := g.history.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to save history entry: %w", err)
	}

	key := cache.PickupKey(req.UserID, req.Params.PersonDescription, req.Params.DirtinessLevel, req.Params.Style)
	if err := g.cache.Store(ctx, key, line, constants.PickupCacheTTL); err != nil {
		g.log.Warn("Failed to cache pickup line", zap.Error(err), zap.String("user_id", req.UserID.String()))
	}

	return &GenerationResult{
		PickupLine:     line,
		HistoryID:      entry.ID,
		Style:          entry.Style,
		DirtinessLevel: entry.DirtinessLevel,
	}, nil
}

func (g *GenerationGateway) resolve(settings *models.Settings) (string, float64, int) {
	model, temperature, maxTokens := g.defaults.Model, g.defaults.Temperature, g.defaults.MaxTokens
	if settings == nil {
		return model, temperature, maxTokens
	}

	if settings.PreferredModel != "" {
		model = settings.PreferredModel
	}
	temperature = settings.Temperature
	if settings.MaxTokens > 0 {
		maxTokens = settings.MaxTokens
	}
	return model, temperature, maxTokens
}
