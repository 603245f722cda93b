package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase establishes the database connection. The support portal
// runs against a local SQLite file by default; a postgres:// DATABASE_URL
// switches to PostgreSQL for deployed environments.
func ConnectDatabase() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = "hardware_support.db"
		log.Println("DATABASE_URL not set, using local SQLite file:", databaseURL)
	}

	var err error
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(databaseURL), &gorm.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
