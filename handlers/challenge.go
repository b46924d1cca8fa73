// handlers/challenge.go - today's featured exercise
package handlers

import (
	"time"

	"readsprint/database"
	"readsprint/middleware"
	"readsprint/services"

	"github.com/gofiber/fiber/v2"
)

// GetTodayChallenge returns today's challenge and whether the caller already
// banked today's bonus.
// GET /api/challenge/today
func GetTodayChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	now := time.Now().UTC()

	exercise, err := services.TodayChallenge(db, now)
	if err != nil {
		return fail(c, err)
	}

	if exercise == nil {
		return c.JSON(fiber.Map{"success": true, "challenge": nil})
	}

	completed, err := services.HasBankedDailyBonus(db, userID, now)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"challenge":       exercise,
		"completed_today": completed,
		"bonus_points":    services.DailyChallengeBonus,
	})
}
