// services/challenge.go - daily challenge selection
package services

import (
	"errors"
	"log"
	"time"

	"readsprint/models"

	"gorm.io/gorm"
)

// TodayChallenge returns the exercise featured for the day containing now,
// creating the day's DailyChallenge record on first call. Repeated calls
// within the same day return the same exercise regardless of later pool
// changes. Returns nil (without error) when no exercise qualifies.
func TodayChallenge(db *gorm.DB, now time.Time) (*models.Exercise, error) {
	today := DateKey(now)

	// Housekeeping: entries for past days are dead weight.
	if res := db.Where("date < ?", today).Delete(&models.DailyChallenge{}); res.Error != nil {
		log.Printf("Failed to purge old daily challenges: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("Purged %d expired daily challenge(s)", res.RowsAffected)
	}

	var entry models.DailyChallenge
	err := db.Preload("Exercise").Where("date = ?", today).First(&entry).Error
	if err == nil {
		return entry.Exercise, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	chosen, err := pickChallenge(db, now)
	if err != nil {
		return nil, err
	}
	if chosen == nil {
		return nil, nil
	}

	entry = models.DailyChallenge{Date: today, ExerciseID: chosen.ID}
	if err := db.Create(&entry).Error; err != nil {
		// Concurrent first call won the unique date slot; use its pick.
		var existing models.DailyChallenge
		if ferr := db.Preload("Exercise").Where("date = ?", today).First(&existing).Error; ferr == nil {
			return existing.Exercise, nil
		}
		return nil, err
	}

	log.Printf("📅 Daily challenge for %s: %q (exercise %d)", today, chosen.Title, chosen.ID)
	return chosen, nil
}

// pickChallenge selects deterministically from the candidate pool: the pool
// is ordered by id and indexed by day-of-year, so the same day always picks
// the same exercise and tests need no seeded randomness.
func pickChallenge(db *gorm.DB, now time.Time) (*models.Exercise, error) {
	pools := [][]interface{}{
		{"is_ranked = ? AND is_daily_candidate = ?", true, true},
		{"is_ranked = ? AND is_public = ?", true, true},
		{"is_ranked = ?", true},
	}

	for _, cond := range pools {
		var pool []models.Exercise
		if err := db.Where(cond[0], cond[1:]...).Order("id ASC").Find(&pool).Error; err != nil {
			return nil, err
		}
		if len(pool) > 0 {
			return &pool[now.YearDay()%len(pool)], nil
		}
	}

	return nil, nil
}

// HasBankedDailyBonus reports whether the user already collected the daily
// challenge bonus during the calendar day containing now.
func HasBankedDailyBonus(db *gorm.DB, userID uint, now time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.Attempt{}).
		Where("user_id = ? AND completed_daily_challenge = ? AND completed_at >= ?", userID, true, StartOfDay(now)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
