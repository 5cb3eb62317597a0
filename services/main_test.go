package services

import (
	"ascend/database"
	"ascend/models/catalog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database with the full
// schema migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database is per-connection, keep the pool at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.MigrationModels()...))
	return db
}

// seedProgram creates a published program with one published phase
func seedProgram(t *testing.T, db *gorm.DB) (*catalog.Program, *catalog.Phase) {
	t.Helper()

	program := catalog.Program{
		Title:            "Foundations",
		Status:           catalog.StatusPublished,
		DefaultDripModel: catalog.DripImmediate,
	}
	require.NoError(t, db.Create(&program).Error)

	phase := catalog.Phase{
		ProgramID:  program.ID,
		Title:      "Phase One",
		OrderIndex: 1,
		Status:     catalog.StatusPublished,
		DripModel:  catalog.DripInherit,
	}
	require.NoError(t, db.Create(&phase).Error)

	return &program, &phase
}

// seedLesson creates a published lesson under a phase. Gates are
// configured by the caller mutating the returned lesson and saving.
func seedLesson(t *testing.T, db *gorm.DB, phaseID uint, orderIndex int) *catalog.Lesson {
	t.Helper()

	lesson := catalog.Lesson{
		PhaseID:    phaseID,
		Title:      "Lesson",
		OrderIndex: orderIndex,
		Status:     catalog.StatusPublished,
	}
	require.NoError(t, db.Create(&lesson).Error)
	return &lesson
}

// seedTactic creates a published required tactic under a lesson
func seedTactic(t *testing.T, db *gorm.DB, lessonID uint, orderIndex int) *catalog.Tactic {
	t.Helper()

	tactic := catalog.Tactic{
		LessonID:   lessonID,
		Title:      "Tactic",
		OrderIndex: orderIndex,
		IsRequired: true,
		Status:     catalog.StatusPublished,
	}
	require.NoError(t, db.Create(&tactic).Error)
	return &tactic
}

// enrollUser enrolls the user in the program and fails the test on error
func enrollUser(t *testing.T, db *gorm.DB, userID, programID uint) {
	t.Helper()
	_, err := Enroll(db, userID, programID)
	require.NoError(t, err)
}

// date builds a midnight timestamp in UTC
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
