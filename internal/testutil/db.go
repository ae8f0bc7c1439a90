// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens an isolated in-memory SQLite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Settings{},
		&models.HistoryEntry{},
	)
	require.NoError(t, err)

	return db
}

// CreateUser inserts a user with default settings.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Omit("Settings", "History").Create(user).Error)

	settings := &models.Settings{
		UserID:                user.ID,
		PreferredModel:        "test/model",
		Temperature:           0.8,
		MaxTokens:             150,
		DefaultDirtinessLevel: 5,
		IncludeEmojis:         true,
		PreferredStyle:        "playful",
	}
	require.NoError(t, db.Create(settings).Error)

	return user
}

// EntryOption customizes a history entry created by CreateEntry.
type EntryOption func(*models.HistoryEntry)

func WithStyle(style string) EntryOption {
	return func(e *models.HistoryEntry) { e.Style = style }
}

func WithUsed(used bool) EntryOption {
	return func(e *models.HistoryEntry) { e.Used = used }
}

func WithSuccess(success bool) EntryOption {
	return func(e *models.HistoryEntry) { e.Success = &success }
}

func WithRating(rating int) EntryOption {
	return func(e *models.HistoryEntry) { e.Rating = &rating }
}

func WithDirtiness(level int) EntryOption {
	return func(e *models.HistoryEntry) { e.DirtinessLevel = level }
}

func WithCreatedAt(at time.Time) EntryOption {
	return func(e *models.HistoryEntry) { e.CreatedAt = at }
}

// CreateEntry inserts a history entry for userID.
func CreateEntry(t *testing.T, db *gorm.DB, userID uuid.UUID, opts ...EntryOption) *models.HistoryEntry {
	t.Helper()

	entry := &models.HistoryEntry{
		UserID:            userID,
		PersonDescription: "likes hiking",
		PickupLine:        "Are you a trail? Because I'd follow you anywhere.",
		DirtinessLevel:    3,
		Style:             "playful",
		ModelUsed:         "test/model",
	}
	for _, opt := range opts {
		opt(entry)
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}
