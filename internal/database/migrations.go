package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/logger"
	"github.com/trailpaw/custody-api/internal/models"
)

// Migrate runs schema migrations and creates secondary indexes.
func Migrate() error {
	logger.Get().Info("Running database migrations")

	err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Pet{},
		&models.Checkpoint{},
		&models.CheckpointPhoto{},
		&models.CheckpointSetting{},
		&models.TrackingSequence{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := addIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	logger.Get().Info("Database migrations completed")
	return nil
}

// addIndexes adds performance-critical indexes not covered by model tags.
func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Pet listing and dashboard aggregation
		{"pets", "idx_pets_org_status", "organization_id, status"},
		{"pets", "idx_pets_org_created_at", "organization_id, created_at"},

		// Checkpoint history reads
		{"checkpoints", "idx_checkpoints_pet_completed", "pet_id, completed_at"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
