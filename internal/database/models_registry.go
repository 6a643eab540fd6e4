package database

import (
	"fmt"

	"wiseadvice/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns every schema-managed model in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Favorite{},
		&models.Subscription{},
		&models.Notification{},
	}
}

// AutoMigrate creates or updates the schema for PersistentModels.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
