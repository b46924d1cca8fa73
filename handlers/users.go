// handlers/users.go - profile status and reader settings
package handlers

import (
	"math"

	"readsprint/apperr"
	"readsprint/database"
	"readsprint/middleware"
	"readsprint/models"
	"readsprint/services"

	"github.com/gofiber/fiber/v2"
)

// GetUserStatus returns the caller's progression snapshot: speed ladder,
// streaks and ranking aggregates in one payload.
// GET /api/users/status
func GetUserStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return fail(c, apperr.NotFound("user"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status": fiber.Map{
			"username":                  user.Username,
			"is_guest":                  user.IsGuest,
			"max_wpm_limit":             user.MaxWpmLimit,
			"next_wpm_limit":            services.NextWpmLimit(user.MaxWpmLimit),
			"has_completed_calibration": user.HasCompletedCalibration,
			"current_streak":            user.CurrentStreak,
			"max_streak":                user.MaxStreak,
			"total_ranking_points":      user.TotalRankingPoints,
			"ranking_exercises":         user.RankingExercisesCompleted,
			"average_wpm":               user.AverageWpm,
			"average_accuracy":          user.AverageAccuracy,
		},
	})
}

// GetSettings returns the caller's reader display settings.
// GET /api/users/settings
func GetSettings(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return fail(c, apperr.NotFound("user"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"settings": fiber.Map{
			"speed":            user.SpeedMs,
			"muted":            user.Muted,
			"mode":             user.Mode,
			"chunk_size":       user.ChunkSize,
			"highlight_width":  user.HighlightWidth,
			"highlight_height": user.HighlightHeight,
			"max_wpm_limit":    user.MaxWpmLimit,
		},
	})
}

type settingsRequest struct {
	Speed           *int    `json:"speed"`
	Muted           *bool   `json:"muted"`
	Mode            *string `json:"mode"`
	ChunkSize       *int    `json:"chunk_size"`
	HighlightWidth  *int    `json:"highlight_width"`
	HighlightHeight *int    `json:"highlight_height"`
	Calibrated      *bool   `json:"has_completed_calibration"`
}

// minSpeedMs converts an unlocked WPM ceiling into the fastest per-word
// interval a user may set. The top tier is pinned to 40ms so the reader
// stays renderable.
func minSpeedMs(maxWpm int) int {
	if maxWpm >= 1500 {
		return 40
	}
	if maxWpm <= 0 {
		maxWpm = services.DefaultWpmLimit
	}
	return int(math.Round(60000.0 / float64(maxWpm)))
}

// UpdateSettings applies partial updates to the caller's reader settings.
// Speed is clamped against the user's unlocked WPM ceiling.
// PUT /api/users/settings
func UpdateSettings(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperr.Validation("invalid request body"))
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return fail(c, apperr.NotFound("user"))
	}

	updates := map[string]interface{}{}

	if req.Speed != nil {
		floor := minSpeedMs(user.MaxWpmLimit)
		if *req.Speed < floor {
			return fail(c, apperr.Validationf("speed %dms is below your unlocked minimum of %dms", *req.Speed, floor))
		}
		if *req.Speed > 2000 {
			return fail(c, apperr.Validation("speed must be at most 2000ms"))
		}
		updates["speed_ms"] = *req.Speed
	}
	if req.Muted != nil {
		updates["muted"] = *req.Muted
	}
	if req.Mode != nil {
		if *req.Mode != "word" && *req.Mode != "chunk" && *req.Mode != "line" {
			return fail(c, apperr.Validation("mode must be one of: word, chunk, line"))
		}
		updates["mode"] = *req.Mode
	}
	if req.ChunkSize != nil {
		if *req.ChunkSize < 1 || *req.ChunkSize > 10 {
			return fail(c, apperr.Validation("chunk_size must be between 1 and 10"))
		}
		updates["chunk_size"] = *req.ChunkSize
	}
	if req.HighlightWidth != nil {
		updates["highlight_width"] = *req.HighlightWidth
	}
	if req.HighlightHeight != nil {
		updates["highlight_height"] = *req.HighlightHeight
	}
	if req.Calibrated != nil {
		updates["has_completed_calibration"] = *req.Calibrated
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return fail(c, errInput("update settings: %w", err))
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Settings updated"})
}
