package database

import (
	"fmt"

	"catalog-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the catalog tables. GORM's auto-migration
// is additive: it never drops columns or data.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.LocationRow{},
		&models.EntityRow{},
		&models.LocationUpdateLogRow{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
