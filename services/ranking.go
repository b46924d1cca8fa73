// services/ranking.go - ranking eligibility and scoring
package services

import (
	"time"

	"readsprint/apperr"
	"readsprint/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// RankingCooldown is how long a counted attempt blocks re-ranking the
	// same exercise.
	RankingCooldown = 30 * 24 * time.Hour

	// MinPassAccuracy is the hard accuracy floor. Below it an attempt scores
	// zero and unlocks nothing.
	MinPassAccuracy = 60.0

	// DailyChallengeBonus is the flat bonus for completing the featured
	// exercise, banked at most once per calendar day.
	DailyChallengeBonus = 50
)

// EligibilityResult is the outcome of the cooldown check for a new attempt.
type EligibilityResult struct {
	AttemptNumber int
	Counted       bool
	// Supersedes is the previously counted attempt that must be deactivated,
	// strictly after the new attempt is durably saved.
	Supersedes *models.Attempt
}

// DetermineEligibility decides whether a new attempt for (userID, exerciseID)
// counts toward ranking and assigns its ordinal. Must run inside the
// submission transaction: on Postgres the currently counted attempt row is
// locked FOR UPDATE so concurrent submissions for the same pair serialize
// instead of both claiming the ranked slot.
func DetermineEligibility(tx *gorm.DB, userID, exerciseID uint, now time.Time, isTodayChallenge, dailyAlreadyBanked bool) (*EligibilityResult, error) {
	var priorCount int64
	if err := tx.Model(&models.Attempt{}).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Count(&priorCount).Error; err != nil {
		return nil, err
	}

	result := &EligibilityResult{AttemptNumber: int(priorCount) + 1}

	q := tx.Where("user_id = ? AND exercise_id = ? AND counted_for_ranking = ?", userID, exerciseID, true).
		Order("completed_at DESC")
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ranked []models.Attempt
	if err := q.Find(&ranked).Error; err != nil {
		return nil, err
	}

	if len(ranked) > 1 {
		return nil, apperr.Invariantf("user %d has %d active ranked attempts for exercise %d", userID, len(ranked), exerciseID)
	}

	if len(ranked) == 0 {
		result.Counted = true
		return result, nil
	}

	last := ranked[0]

	// The daily challenge bypasses the cooldown once per calendar day.
	if isTodayChallenge && !dailyAlreadyBanked {
		result.Counted = true
		result.Supersedes = &last
		return result, nil
	}

	if now.Sub(last.CompletedAt) > RankingCooldown {
		result.Counted = true
		result.Supersedes = &last
		return result, nil
	}

	// Within the cooldown window: training attempt, persisted but unranked.
	result.Counted = false
	return result, nil
}

// LengthMultiplier is the scoring step function over text length.
func LengthMultiplier(wordCount int) float64 {
	switch {
	case wordCount <= 300:
		return 0.8
	case wordCount <= 500:
		return 1.0
	case wordCount <= 800:
		return 1.2
	default:
		return 1.5
	}
}

// BasePoints computes raw ranking points before any bonus. Attempts below the
// accuracy floor score zero no matter how fast they were.
func BasePoints(wpm int, accuracy float64, wordCount int) int {
	if accuracy < MinPassAccuracy {
		return 0
	}
	return int(float64(wpm) * (accuracy / 100) * LengthMultiplier(wordCount))
}

// FinalizePoints sets RankingPoints and CompletedDailyChallenge on the
// attempt. Today's challenge is an injected parameter, not a hidden lookup,
// so the function stays pure. The daily bonus is suppressed when base points
// are zero: a failed attempt must not read as a completed challenge.
func FinalizePoints(attempt *models.Attempt, wordCount int, isTodayChallenge, dailyAlreadyBanked bool) {
	attempt.RankingPoints = 0
	attempt.CompletedDailyChallenge = false

	if !attempt.CountedForRanking {
		return
	}

	base := BasePoints(attempt.Wpm, attempt.Accuracy, wordCount)
	if base == 0 {
		return
	}

	if isTodayChallenge && !dailyAlreadyBanked {
		attempt.RankingPoints = base + DailyChallengeBonus
		attempt.CompletedDailyChallenge = true
		return
	}

	attempt.RankingPoints = base
}
