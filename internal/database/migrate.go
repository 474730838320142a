package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/feedgraph/backend/internal/models"
)

// Migrate brings the schema up to date for every model in the data layer.
// Constraints (unique email, one profile per user, author foreign keys)
// live in the model tags and are applied here.
func Migrate(db *gorm.DB) error {
	log.Printf("Running migrations (dialect: %s)", db.Dialector.Name())

	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Printf("Migrations complete")
	return nil
}
