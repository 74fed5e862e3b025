package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chirpnet/backend/internal/config"
	"github.com/chirpnet/backend/internal/models"
)

// InitDB initializes the PostgreSQL connection and migrates the schema.
// TranslateError makes unique-constraint violations surface as
// gorm.ErrDuplicatedKey, which the store layer relies on: uniqueness of
// usernames, emails and follow edges is enforced by the database, not by
// pre-checks in application code.
func InitDB(config *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(config.GetDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// auto migrate schema
	if err := db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follow{}); err != nil {
		log.Fatal("Failed to migrate database schema:", err)
	}
	return db
}
