// services/achievements.go - badge unlock evaluation
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"readsprint/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Achievement slugs granted by the engine.
const (
	AchSpeedster  = "speedster"  // wpm >= 300
	AchSupersonic = "supersonic" // wpm >= 800
	AchSniper     = "sniper"     // accuracy == 100
	AchMarathoner = "marathoner" // word count > 800
	AchDailyHero  = "daily-hero" // completed the daily challenge
)

// CheckAchievements evaluates the unlock predicates against a persisted
// attempt and grants anything newly satisfied. Attempts below the accuracy
// floor unlock nothing. The predicates are independent: one attempt can fire
// several at once. Returns only the freshly granted achievements.
func CheckAchievements(tx *gorm.DB, user *models.User, attempt *models.Attempt, exercise *models.Exercise, now time.Time) ([]models.Achievement, error) {
	if attempt.Accuracy < MinPassAccuracy {
		return nil, nil
	}

	var slugs []string
	if attempt.Wpm >= 300 {
		slugs = append(slugs, AchSpeedster)
	}
	if attempt.Wpm >= 800 {
		slugs = append(slugs, AchSupersonic)
	}
	if attempt.Accuracy == 100 {
		slugs = append(slugs, AchSniper)
	}
	if exercise.WordCount > 800 {
		slugs = append(slugs, AchMarathoner)
	}
	if attempt.CompletedDailyChallenge {
		slugs = append(slugs, AchDailyHero)
	}

	var newlyGranted []models.Achievement
	for _, slug := range slugs {
		ach, granted, err := grantAchievement(tx, user, slug, now)
		if err != nil {
			return nil, err
		}
		if granted {
			newlyGranted = append(newlyGranted, *ach)
		}
	}

	return newlyGranted, nil
}

// grantAchievement awards a badge at most once per user. The grant is an
// insert-if-absent against the unique (user, achievement) index, so two
// concurrent submissions cannot produce a duplicate row or a duplicate
// notification: exactly one of them observes RowsAffected > 0.
func grantAchievement(tx *gorm.DB, user *models.User, slug string, now time.Time) (*models.Achievement, bool, error) {
	var ach models.Achievement
	if err := tx.Where("slug = ?", slug).First(&ach).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Attempted to grant unknown achievement: %s", slug)
			return nil, false, nil
		}
		return nil, false, err
	}

	grant := models.UserAchievement{
		UserID:        user.ID,
		AchievementID: ach.ID,
		UnlockedAt:    now,
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		// Already owned.
		return nil, false, nil
	}

	notif := models.Notification{
		RecipientID: user.ID,
		ActorID:     user.ID,
		Verb:        fmt.Sprintf("unlocked the achievement: %s", ach.Title),
	}
	if err := tx.Create(&notif).Error; err != nil {
		return nil, false, err
	}

	log.Printf("🏆 Granted achievement %q to user %s", slug, user.Username)
	return &ach, true, nil
}
