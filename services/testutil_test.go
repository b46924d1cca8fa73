package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"readsprint/database"
	"readsprint/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter uint64

// newTestDB opens a fresh in-memory SQLite database with the full schema and
// the seeded achievement catalog. Each test gets its own database so unique
// constraints never bleed between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", id)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Exercise{},
		&models.Question{},
		&models.Attempt{},
		&models.DailyChallenge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Notification{},
		&models.Friendship{},
	)
	require.NoError(t, err, "failed to migrate test database")

	database.SeedAchievements(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Password:    "hashed",
		MaxWpmLimit: DefaultWpmLimit,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestExercise(t *testing.T, db *gorm.DB, title string, wordCount int, ranked bool) *models.Exercise {
	t.Helper()
	ex := &models.Exercise{
		Title:     title,
		Text:      "placeholder text",
		WordCount: wordCount,
		IsPublic:  true,
		IsRanked:  ranked,
	}
	require.NoError(t, db.Create(ex).Error)
	return ex
}

func createTestAttempt(t *testing.T, db *gorm.DB, userID, exerciseID uint, counted bool, points int, completedAt time.Time) *models.Attempt {
	t.Helper()
	attempt := &models.Attempt{
		UserID:            userID,
		ExerciseID:        exerciseID,
		Wpm:               200,
		Accuracy:          90,
		AttemptNumber:     1,
		CountedForRanking: counted,
		RankingPoints:     points,
		CompletedAt:       completedAt,
	}
	require.NoError(t, db.Create(attempt).Error)
	return attempt
}
