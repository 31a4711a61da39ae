package db

import (
	"fmt"
	"nymo/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and runs migrations. The caller owns the handle
// and is responsible for closing the underlying connection on shutdown.
func Open(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established")

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migration completed")

	return gdb, nil
}

// Migrate creates or updates the schema. Exported so tests can run the same
// migrations against an in-memory database.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Post{},
		&models.Vote{},
		&models.View{},
	)
}
