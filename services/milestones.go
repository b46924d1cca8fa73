// services/milestones.go - WPM unlock ladder
package services

import (
	"fmt"
	"log"

	"readsprint/models"

	"gorm.io/gorm"
)

// DefaultWpmLimit is the reading-speed ceiling new users start with.
const DefaultWpmLimit = 350

// wpmMilestones maps each ceiling to the next. 1500 is the hard cap and maps
// to itself.
var wpmMilestones = map[int]int{
	350:  500,
	500:  700,
	700:  900,
	900:  1200,
	1200: 1500,
	1500: 1500,
}

// NextWpmLimit returns the ceiling that follows the current one. Unknown
// values (legacy data) stay where they are.
func NextWpmLimit(current int) int {
	if next, ok := wpmMilestones[current]; ok {
		return next
	}
	return current
}

// CheckWpmMilestone advances the user's maximum reading speed when a
// qualifying attempt meets or exceeds the current ceiling on a ranked
// exercise. The new limit is persisted immediately and a notification is
// emitted. Returns the new limit, or nil when nothing advanced.
func CheckWpmMilestone(tx *gorm.DB, user *models.User, attempt *models.Attempt, exercise *models.Exercise) (*int, error) {
	if attempt.Accuracy < MinPassAccuracy {
		return nil, nil
	}
	if !exercise.IsRanked {
		return nil, nil
	}
	if attempt.Wpm < user.MaxWpmLimit {
		return nil, nil
	}

	next := NextWpmLimit(user.MaxWpmLimit)
	if next <= user.MaxWpmLimit {
		return nil, nil
	}

	oldLimit := user.MaxWpmLimit
	user.MaxWpmLimit = next

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("max_wpm_limit", next).Error; err != nil {
		return nil, err
	}

	notif := models.Notification{
		RecipientID: user.ID,
		ActorID:     user.ID,
		Verb:        fmt.Sprintf("unlocked a new speed limit: %d WPM", next),
	}
	if err := tx.Create(&notif).Error; err != nil {
		return nil, err
	}

	log.Printf("🚀 User %s unlocked %d WPM (from %d)", user.Username, next, oldLimit)
	return &next, nil
}
