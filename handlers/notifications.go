// handlers/notifications.go
package handlers

import (
	"readsprint/database"
	"readsprint/middleware"
	"readsprint/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications lists the caller's notifications, newest first.
// GET /api/notifications
func GetNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var notifications []models.Notification
	if err := db.Preload("Actor").
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		return fail(c, errInput("load notifications: %w", err))
	}

	var unread int64
	if err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return fail(c, errInput("count unread: %w", err))
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationsRead marks all of the caller's notifications as read.
// POST /api/notifications/read
func MarkNotificationsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	res := database.GetDB().Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Update("read", true)
	if res.Error != nil {
		return fail(c, errInput("mark read: %w", res.Error))
	}

	return c.JSON(fiber.Map{"success": true, "marked": res.RowsAffected})
}
