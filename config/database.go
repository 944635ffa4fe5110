package config

import (
	"github.com/snap-point/directory-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens the Postgres database used for persisted place
// details and migrates its schema. It returns a nil DB when dsn is empty.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.PlaceDetail{}); err != nil {
		return nil, err
	}

	return db, nil
}
