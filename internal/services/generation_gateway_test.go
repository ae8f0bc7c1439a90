package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pickup-line-api/internal/cache"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/repository"
	"github.com/yukikurage/pickup-line-api/internal/testutil"
	"go.uber.org/zap"
)

var testDefaults = GenerationDefaults{Model: "default/model", Temperature: 0.8, MaxTokens: 150}

func newGatewayRequest(userID uuid.UUID, settings *models.Settings) GenerationRequest {
	return GenerationRequest{
		UserID:   userID,
		Prompt:   Prompt{System: SystemInstruction, User: "Generate a playful pickup line"},
		Params:   GenerationParams{PersonDescription: "likes hiking", DirtinessLevel: 3, Style: "playful"},
		Settings: settings,
	}
}

func TestGenerationGateway_PersistsAndCaches(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	llm := &fakeCompleter{replies: []string{"  You must be a hiking trail, because I'm lost in you.\n"}}
	lineCache := &fakeLineCache{}
	gateway := NewGenerationGateway(llm, repository.NewHistoryRepository(db), lineCache, testDefaults, zap.NewNop())

	settings := &models.Settings{PreferredModel: "user/model", Temperature: 1.2, MaxTokens: 200}
	result, err := gateway.Generate(context.Background(), newGatewayRequest(user.ID, settings))
	require.NoError(t, err)

	assert.Equal(t, "You must be a hiking trail, because I'm lost in you.", result.PickupLine)
	assert.Equal(t, "playful", result.Style)
	assert.Equal(t, 3, result.DirtinessLevel)

	req := llm.last()
	assert.Equal(t, "user/model", req.Model)
	assert.InDelta(t, 1.2, req.Temperature, 1e-9)
	assert.Equal(t, 200, req.MaxTokens)
	assert.Equal(t, SystemInstruction, req.System)

	var stored models.HistoryEntry
	require.NoError(t, db.First(&stored, "id = ?", result.HistoryID).Error)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, result.PickupLine, stored.PickupLine)
	assert.Equal(t, "user/model", stored.ModelUsed)
	assert.Nil(t, stored.Rating)
	assert.False(t, stored.Used)
	assert.Nil(t, stored.Success)

	key := cache.PickupKey(user.ID, "likes hiking", 3, "playful")
	assert.Equal(t, result.PickupLine, lineCache.stored[key])
}

func TestGenerationGateway_DefaultsWithoutSettings(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	llm := &fakeCompleter{}
	gateway := NewGenerationGateway(llm, repository.NewHistoryRepository(db), nil, testDefaults, zap.NewNop())

	_, err := gateway.Generate(context.Background(), newGatewayRequest(user.ID, nil))
	require.NoError(t, err)

	req := llm.last()
	assert.Equal(t, "default/model", req.Model)
	assert.InDelta(t, 0.8, req.Temperature, 1e-9)
	assert.Equal(t, 150, req.MaxTokens)
}

func TestGenerationGateway_ProviderFailurePersistsNothing(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	llm := &fakeCompleter{err: errors.New("OpenRouter API error: 503 upstream overloaded")}
	gateway := NewGenerationGateway(llm, repository.NewHistoryRepository(db), nil, testDefaults, zap.NewNop())

	_, err := gateway.Generate(context.Background(), newGatewayRequest(user.ID, nil))
	require.ErrorIs(t, err, ErrGenerationFailed)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Detail, "503 upstream overloaded")

	var count int64
	require.NoError(t, db.Model(&models.HistoryEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerationGateway_EmptyCompletionFails(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	llm := &fakeCompleter{replies: []string{"   "}}
	gateway := NewGenerationGateway(llm, repository.NewHistoryRepository(db), nil, testDefaults, zap.NewNop())

	_, err := gateway.Generate(context.Background(), newGatewayRequest(user.ID, nil))
	require.ErrorIs(t, err, ErrGenerationFailed)

	var count int64
	require.NoError(t, db.Model(&models.HistoryEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerationGateway_CacheFailureIsIgnored(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	gateway := NewGenerationGateway(&fakeCompleter{}, repository.NewHistoryRepository(db), &fakeLineCache{fail: true}, testDefaults, zap.NewNop())

	result, err := gateway.Generate(context.Background(), newGatewayRequest(user.ID, nil))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.HistoryID)
}
