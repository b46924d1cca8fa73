// handlers/submit.go - attempt submission endpoint
package handlers

import (
	"time"

	"readsprint/database"
	"readsprint/middleware"
	"readsprint/services"

	"github.com/gofiber/fiber/v2"
)

// SubmitProgress records a completed reading attempt and returns the full
// pipeline outcome: points, eligibility, streak, new unlocks.
func SubmitProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var input services.SubmissionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	result, err := services.SubmitAttempt(database.GetDB(), userID, input, time.Now().UTC())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}
