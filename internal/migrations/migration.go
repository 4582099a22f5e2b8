package migrations

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"order_history/internal/models"
)

// Models lists every table owned by this service.
func Models() []interface{} {
	return []interface{}{
		&models.FetchLog{},
	}
}

// RunMigrations brings the schema up to date without dropping data.
func RunMigrations(db *gorm.DB) error {
	log.Info("Running database migrations...")

	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}

	log.Info("Database migrations completed successfully!")
	return nil
}

// ResetSchema drops and recreates every table. Used by the CLI migrate command.
func ResetSchema(db *gorm.DB) error {
	log.Warn("Dropping existing tables...")
	if err := db.Migrator().DropTable(Models()...); err != nil {
		log.WithError(err).Warn("Error dropping tables")
	}
	return RunMigrations(db)
}
