// handlers/social.go - follow relationships and the friends activity feed
package handlers

import (
	"fmt"

	"readsprint/apperr"
	"readsprint/database"
	"readsprint/middleware"
	"readsprint/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// FollowUser creates a follow edge from the caller towards :id and notifies
// the followed user. Following twice is a no-op.
// POST /api/social/follow/:id
func FollowUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	targetID, err := c.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return fail(c, apperr.Validation("invalid user id"))
	}
	if uint(targetID) == userID {
		return fail(c, apperr.Validation("you cannot follow yourself"))
	}

	db := database.GetDB()

	var target models.User
	if err := db.First(&target, targetID).Error; err != nil {
		return fail(c, apperr.NotFound("user"))
	}

	var actor models.User
	if err := db.First(&actor, userID).Error; err != nil {
		return fail(c, apperr.NotFound("user"))
	}

	edge := models.Friendship{FollowerID: userID, FollowedID: target.ID}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
	if res.Error != nil {
		return fail(c, errInput("create follow: %w", res.Error))
	}

	// Only notify on a fresh edge, not on repeated follows.
	if res.RowsAffected > 0 {
		notif := models.Notification{
			RecipientID: target.ID,
			ActorID:     userID,
			Verb:        fmt.Sprintf("%s started following you", actor.Username),
		}
		if err := db.Create(&notif).Error; err != nil {
			return fail(c, errInput("create notification: %w", err))
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Now following " + target.Username})
}

// UnfollowUser removes the caller's follow edge towards :id.
// DELETE /api/social/follow/:id
func UnfollowUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	targetID, err := c.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return fail(c, apperr.Validation("invalid user id"))
	}

	db := database.GetDB()
	res := db.Where("follower_id = ? AND followed_id = ?", userID, targetID).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return fail(c, errInput("delete follow: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return fail(c, apperr.NotFound("follow relationship"))
	}

	return c.JSON(fiber.Map{"success": true, "message": "Unfollowed"})
}

// GetFollowing lists the users the caller follows.
// GET /api/social/following
func GetFollowing(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var edges []models.Friendship
	if err := db.Preload("Followed").
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Find(&edges).Error; err != nil {
		return fail(c, errInput("load following: %w", err))
	}

	users := make([]fiber.Map, 0, len(edges))
	for _, e := range edges {
		if e.Followed == nil {
			continue
		}
		users = append(users, fiber.Map{
			"id":                   e.Followed.ID,
			"username":             e.Followed.Username,
			"total_ranking_points": e.Followed.TotalRankingPoints,
			"average_wpm":          e.Followed.AverageWpm,
			"followed_at":          e.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"success": true, "following": users, "count": len(users)})
}

// GetFriendsFeed lists recent qualifying attempts by followed users.
// GET /api/social/feed
func GetFriendsFeed(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var followedIDs []uint
	if err := db.Model(&models.Friendship{}).
		Where("follower_id = ?", userID).
		Pluck("followed_id", &followedIDs).Error; err != nil {
		return fail(c, errInput("load following: %w", err))
	}

	if len(followedIDs) == 0 {
		return c.JSON(fiber.Map{"success": true, "feed": []fiber.Map{}})
	}

	var attempts []models.Attempt
	if err := db.Preload("User").Preload("Exercise").
		Where("user_id IN ? AND counted_for_ranking = ? AND ranking_points > 0", followedIDs, true).
		Order("completed_at DESC").
		Limit(20).
		Find(&attempts).Error; err != nil {
		return fail(c, errInput("load feed: %w", err))
	}

	feed := make([]fiber.Map, 0, len(attempts))
	for _, a := range attempts {
		item := fiber.Map{
			"wpm":            a.Wpm,
			"accuracy":       a.Accuracy,
			"ranking_points": a.RankingPoints,
			"completed_at":   a.CompletedAt,
		}
		if a.User != nil {
			item["username"] = a.User.Username
		}
		if a.Exercise != nil {
			item["exercise_title"] = a.Exercise.Title
		}
		feed = append(feed, item)
	}

	return c.JSON(fiber.Map{"success": true, "feed": feed})
}
