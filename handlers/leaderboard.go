// handlers/leaderboard.go
package handlers

import (
	"readsprint/database"
	"readsprint/middleware"
	"readsprint/models"

	"github.com/gofiber/fiber/v2"
)

type LeaderboardEntry struct {
	Rank                      int     `json:"rank"`
	UserID                    uint    `json:"user_id"`
	Username                  string  `json:"username"`
	TotalRankingPoints        int     `json:"total_ranking_points"`
	RankingExercisesCompleted int     `json:"ranking_exercises_completed"`
	AverageWpm                float64 `json:"average_wpm"`
	AverageAccuracy           float64 `json:"average_accuracy"`
	CurrentStreak             int     `json:"current_streak"`
}

// GetLeaderboard returns the global ranking: only users with points, ordered
// by points descending, ties broken by id order.
// GET /api/ranking/leaderboard?limit=100&offset=0
func GetLeaderboard(c *fiber.Ctx) error {
	limit := clampInt(c.QueryInt("limit", 100), 1, 100)
	offset := maxInt(c.QueryInt("offset", 0), 0)

	db := database.GetDB()

	var users []models.User
	if err := db.Where("total_ranking_points > ?", 0).
		Order("total_ranking_points DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch leaderboard"})
	}

	var total int64
	db.Model(&models.User{}).Where("total_ranking_points > ?", 0).Count(&total)

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, leaderboardEntry(user, offset+i+1))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetFriendsLeaderboard ranks only the caller and the users they follow.
// GET /api/ranking/leaderboard/friends
func GetFriendsLeaderboard(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var followedIDs []uint
	db.Model(&models.Friendship{}).Where("follower_id = ?", userID).Pluck("followed_id", &followedIDs)
	followedIDs = append(followedIDs, userID)

	var users []models.User
	if err := db.Where("id IN ? AND total_ranking_points > ?", followedIDs, 0).
		Order("total_ranking_points DESC, id ASC").
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch leaderboard"})
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, leaderboardEntry(user, i+1))
	}

	return c.JSON(fiber.Map{"success": true, "entries": entries})
}

func leaderboardEntry(user models.User, rank int) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:                      rank,
		UserID:                    user.ID,
		Username:                  user.Username,
		TotalRankingPoints:        user.TotalRankingPoints,
		RankingExercisesCompleted: user.RankingExercisesCompleted,
		AverageWpm:                user.AverageWpm,
		AverageAccuracy:           user.AverageAccuracy,
		CurrentStreak:             user.CurrentStreak,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
