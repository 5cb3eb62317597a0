package database

import (
	"ascend/models"
	"ascend/models/catalog"
	"ascend/models/progress"
	"ascend/models/protocol"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	// Build the PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	// Run database migrations
	runMigrations(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	if err := db.AutoMigrate(MigrationModels()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}

// MigrationModels lists every model the schema is built from.
// Shared with the test suites so sqlite fixtures stay in sync.
func MigrationModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Permission{},
		&catalog.Program{},
		&catalog.Phase{},
		&catalog.Lesson{},
		&catalog.Tactic{},
		&catalog.AssessmentQuestion{},
		&catalog.AssessmentOption{},
		&progress.Enrollment{},
		&progress.PhaseProgress{},
		&progress.LessonProgress{},
		&progress.TacticCompletion{},
		&progress.AssessmentAttempt{},
		&protocol.Protocol{},
		&protocol.ProtocolCompletion{},
		&protocol.UserStreak{},
		&protocol.StreakMilestone{},
	}
}
