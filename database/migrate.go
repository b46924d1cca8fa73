// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"readsprint/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Exercise{},
		&models.Question{},
		&models.Attempt{},
		&models.DailyChallenge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Notification{},
		&models.Friendship{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()
	SeedAchievements(db)

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes AutoMigrate does not cover
func createIndexes() {
	db := GetDB()

	// Leaderboard ordering and the ranked-attempt lookup are the two hot reads.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_ranking ON users(total_ranking_points DESC, id ASC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_attempts_ranked_pair ON attempts(user_id, exercise_id, counted_for_ranking)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_attempts_completed_at ON attempts(completed_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, read)")
}
