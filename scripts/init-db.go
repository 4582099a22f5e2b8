package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"order_history/internal/config"
	"order_history/internal/migrations"
)

// Recreates the fetch audit schema from scratch. Existing audit rows are lost.
func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if !cfg.AuditEnabled() {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := migrations.ResetSchema(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	fmt.Println("Database initialization completed successfully!")
}
