// handlers/achievements.go - achievement catalog and per-user unlocks
package handlers

import (
	"readsprint/database"
	"readsprint/middleware"
	"readsprint/models"

	"github.com/gofiber/fiber/v2"
)

// GetAchievements returns the full badge catalog with the caller's unlock
// state merged in.
// GET /api/achievements
func GetAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var catalog []models.Achievement
	if err := db.Order("id ASC").Find(&catalog).Error; err != nil {
		return fail(c, errInput("load achievements: %w", err))
	}

	var unlocked []models.UserAchievement
	if err := db.Where("user_id = ?", userID).Find(&unlocked).Error; err != nil {
		return fail(c, errInput("load user achievements: %w", err))
	}

	unlockedAt := make(map[uint]models.UserAchievement, len(unlocked))
	for _, ua := range unlocked {
		unlockedAt[ua.AchievementID] = ua
	}

	items := make([]fiber.Map, 0, len(catalog))
	for _, a := range catalog {
		item := fiber.Map{
			"id":          a.ID,
			"slug":        a.Slug,
			"title":       a.Title,
			"description": a.Description,
			"icon_name":   a.IconName,
			"unlocked":    false,
		}
		if ua, ok := unlockedAt[a.ID]; ok {
			item["unlocked"] = true
			item["unlocked_at"] = ua.UnlockedAt
		}
		items = append(items, item)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": items,
		"unlocked":     len(unlocked),
		"total":        len(catalog),
	})
}
