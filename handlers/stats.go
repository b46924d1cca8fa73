// handlers/stats.go - per-user ranking stats and attempt history
package handlers

import (
	"readsprint/database"
	"readsprint/middleware"
	"readsprint/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyStats returns the caller's cached ranking aggregates together with
// their recent qualifying attempts.
// GET /api/ranking/my-stats
func GetMyStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	var recent []models.Attempt
	if err := db.Preload("Exercise").
		Where("user_id = ? AND counted_for_ranking = ? AND ranking_points > 0", userID, true).
		Order("completed_at DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch attempts"})
	}

	return c.JSON(fiber.Map{
		"success":                     true,
		"total_ranking_points":        user.TotalRankingPoints,
		"ranking_exercises_completed": user.RankingExercisesCompleted,
		"average_wpm":                 user.AverageWpm,
		"average_accuracy":            user.AverageAccuracy,
		"current_streak":              user.CurrentStreak,
		"max_streak":                  user.MaxStreak,
		"recent_attempts":             recent,
	})
}

// GetProgressHistory returns the caller's full attempt history, ranked and
// training attempts alike.
// GET /api/ranking/history?limit=50&offset=0
func GetProgressHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := clampInt(c.QueryInt("limit", 50), 1, 200)
	offset := maxInt(c.QueryInt("offset", 0), 0)

	db := database.GetDB()

	var attempts []models.Attempt
	if err := db.Preload("Exercise").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch history"})
	}

	var total int64
	db.Model(&models.Attempt{}).Where("user_id = ?", userID).Count(&total)

	return c.JSON(fiber.Map{
		"success":  true,
		"attempts": attempts,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
