package db

import (
	"evently/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Event{},
		&models.ParticipationRequest{},
		&models.Comment{},
		&models.Compilation{},
		&models.SystemSetting{},
	)
}
