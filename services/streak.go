// services/streak.go - daily training streak
package services

import (
	"time"

	"readsprint/models"
)

// UpdateStreak advances the user's consecutive-day streak for an attempt
// completed at now. Idempotent per calendar day: repeat attempts on the same
// day change nothing. Pure mutation; the caller persists the user.
func UpdateStreak(user *models.User, now time.Time) {
	today := DateKey(now)
	yesterday := DateKey(now.AddDate(0, 0, -1))

	if user.LastStreakDate != nil && *user.LastStreakDate == today {
		if user.CurrentStreak > user.MaxStreak {
			user.MaxStreak = user.CurrentStreak
		}
		return
	}

	if user.LastStreakDate != nil && *user.LastStreakDate == yesterday {
		user.CurrentStreak++
	} else {
		user.CurrentStreak = 1
	}

	user.LastStreakDate = &today
	if user.CurrentStreak > user.MaxStreak {
		user.MaxStreak = user.CurrentStreak
	}
}
