// handlers/handlers.go - shared response helpers
package handlers

import (
	"fmt"
	"log"

	"readsprint/apperr"

	"github.com/gofiber/fiber/v2"
)

func errInput(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// fail maps a service error onto an HTTP response. Server-side errors are
// logged with detail but surfaced generically.
func fail(c *fiber.Ctx, err error) error {
	status := apperr.StatusOf(err)
	if status >= 500 {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   apperr.MessageOf(err),
	})
}
