package persistence

import (
	"context"
	"fmt"

	"github.com/localisation/backend/internal/infrastructure/persistence/models"
	"github.com/localisation/backend/internal/infrastructure/persistence/seed"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the reference and user tables
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedIfEmpty loads the fixture when the brigades table is empty.
// Returns whether the fixture was applied.
func (d *Database) SeedIfEmpty(ctx context.Context, data *seed.Data, logger *zap.Logger) (bool, error) {
	var count int64
	if err := d.DB.WithContext(ctx).Model(&models.BrigadeModel{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count brigades: %w", err)
	}
	if count > 0 {
		logger.Debug("Catalog already seeded", zap.Int64("brigades", count))
		return false, nil
	}
	if err := d.Seed(ctx, data); err != nil {
		return false, err
	}
	logger.Info("Catalog seeded",
		zap.Int("reservistes", len(data.Reservistes)),
		zap.Int("brigades", len(data.Brigades)),
		zap.Int("campagnes", len(data.Campagnes)),
		zap.Int("users", len(data.Users)),
	)
	return true, nil
}

// Seed upserts the fixture's reference data and users in one transaction
func (d *Database) Seed(ctx context.Context, data *seed.Data) error {
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog := NewGormReferenceCatalog(tx)
		if err := catalog.SaveReservistes(ctx, data.Reservistes); err != nil {
			return err
		}
		if err := catalog.SaveBrigades(ctx, data.Brigades); err != nil {
			return err
		}
		if err := catalog.SaveCampagnes(ctx, data.Campagnes); err != nil {
			return err
		}
		return NewGormUserRepository(tx).SaveAll(ctx, data.Users)
	})
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	return nil
}
