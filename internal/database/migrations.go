package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/pickup-line-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by history listing and stats.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns []string
	}{
		// Newest-first listing per user
		{&models.HistoryEntry{}, "pickup_history", "idx_pickup_history_user_created", []string{"user_id", "created_at"}},
		// Style filters and per-style aggregation
		{&models.HistoryEntry{}, "pickup_history", "idx_pickup_history_user_style", []string{"user_id", "style"}},
		// used_only / success_only filters
		{&models.HistoryEntry{}, "pickup_history", "idx_pickup_history_user_used", []string{"user_id", "used"}},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
