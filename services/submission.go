// services/submission.go - attempt submission pipeline
package services

import (
	"errors"
	"time"

	"readsprint/apperr"
	"readsprint/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionInput is the caller-supplied payload for one reading attempt.
type SubmissionInput struct {
	ExerciseID    uint          `json:"exercise_id"`
	ReadingTimeMs int           `json:"reading_time_ms"`
	Answers       []AnswerInput `json:"answers"`
}

// SubmissionResult is everything the presentation layer needs to report one
// processed attempt.
type SubmissionResult struct {
	Wpm                     int                  `json:"wpm"`
	Accuracy                float64              `json:"accuracy"`
	RankingPoints           int                  `json:"ranking_points"`
	CountedForRanking       bool                 `json:"counted_for_ranking"`
	AttemptNumber           int                  `json:"attempt_number"`
	CompletedDailyChallenge bool                 `json:"completed_daily_challenge"`
	NewAchievements         []models.Achievement `json:"new_achievements"`
	NewWpmLimit             *int                 `json:"new_wpm_limit,omitempty"`
	CurrentStreak           int                  `json:"current_streak"`
	MaxStreak               int                  `json:"max_streak"`
}

// SubmitAttempt runs the full submission pipeline: validate input, derive WPM
// and accuracy, decide ranking eligibility, persist the attempt, deactivate a
// superseded prior attempt, then update streak, milestone, achievements and
// aggregates. Everything after validation runs in one transaction; a failure
// anywhere rolls the whole pipeline back.
func SubmitAttempt(db *gorm.DB, userID uint, input SubmissionInput, now time.Time) (*SubmissionResult, error) {
	if input.ReadingTimeMs <= 0 {
		return nil, apperr.Validation("reading time must be positive")
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}

	var exercise models.Exercise
	if err := db.Preload("Questions").First(&exercise, input.ExerciseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("exercise")
		}
		return nil, err
	}

	wpm, err := DeriveWpm(exercise.WordCount, input.ReadingTimeMs)
	if err != nil {
		return nil, err
	}

	accuracy, err := GradeAnswers(exercise.Questions, input.Answers)
	if err != nil {
		return nil, err
	}

	// Resolve today's challenge up front and pass it down: scoring and
	// eligibility take it as a parameter instead of re-querying.
	todayChallenge, err := TodayChallenge(db, now)
	if err != nil {
		return nil, err
	}
	isTodayChallenge := todayChallenge != nil && todayChallenge.ID == exercise.ID

	var result *SubmissionResult

	err = db.Transaction(func(tx *gorm.DB) error {
		// The user row is the serialization point for the whole pipeline.
		// Two submissions from the same user must not both read "no counted
		// attempt yet" or "bonus not banked yet": the second writer blocks
		// here until the first commits, then sees its rows. SQLite already
		// serializes writers, so the lock is Postgres-only.
		if tx.Dialector.Name() == "postgres" {
			var locked models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, userID).Error; err != nil {
				return err
			}
		}

		dailyBanked, err := HasBankedDailyBonus(tx, userID, now)
		if err != nil {
			return err
		}

		eligibility, err := DetermineEligibility(tx, userID, exercise.ID, now, isTodayChallenge, dailyBanked)
		if err != nil {
			return err
		}

		// Attempts on non-ranked exercises are history only: persisted and
		// numbered, never counted.
		if !exercise.IsRanked {
			eligibility.Counted = false
			eligibility.Supersedes = nil
		}

		attempt := &models.Attempt{
			UserID:            userID,
			ExerciseID:        exercise.ID,
			Wpm:               wpm,
			Accuracy:          accuracy,
			AttemptNumber:     eligibility.AttemptNumber,
			CountedForRanking: eligibility.Counted,
			CompletedAt:       now,
		}
		FinalizePoints(attempt, exercise.WordCount, isTodayChallenge, dailyBanked)

		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		// Only now that the replacement is durable may the old ranked attempt
		// lose its flag; concurrent readers never see a window with zero
		// ranked attempts. The flag guard makes a double-deactivation a no-op.
		if eligibility.Supersedes != nil {
			if err := tx.Model(&models.Attempt{}).
				Where("id = ? AND counted_for_ranking = ?", eligibility.Supersedes.ID, true).
				Update("counted_for_ranking", false).Error; err != nil {
				return err
			}
		}

		UpdateStreak(&user, now)
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"current_streak":   user.CurrentStreak,
			"max_streak":       user.MaxStreak,
			"last_streak_date": user.LastStreakDate,
		}).Error; err != nil {
			return err
		}

		newWpmLimit, err := CheckWpmMilestone(tx, &user, attempt, &exercise)
		if err != nil {
			return err
		}

		newAchievements, err := CheckAchievements(tx, &user, attempt, &exercise, now)
		if err != nil {
			return err
		}

		// Training attempts cannot change the qualifying set, so the
		// recompute only runs for counted ones.
		if attempt.CountedForRanking {
			if err := RecomputeStats(tx, &user); err != nil {
				return err
			}
		}

		if newAchievements == nil {
			newAchievements = []models.Achievement{}
		}

		result = &SubmissionResult{
			Wpm:                     attempt.Wpm,
			Accuracy:                attempt.Accuracy,
			RankingPoints:           attempt.RankingPoints,
			CountedForRanking:       attempt.CountedForRanking,
			AttemptNumber:           attempt.AttemptNumber,
			CompletedDailyChallenge: attempt.CompletedDailyChallenge,
			NewAchievements:         newAchievements,
			NewWpmLimit:             newWpmLimit,
			CurrentStreak:           user.CurrentStreak,
			MaxStreak:               user.MaxStreak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AttemptStatus values for the read-only eligibility check.
const (
	AttemptStatusNonRanked        = "non_ranked"
	AttemptStatusRankable         = "rankable"
	AttemptStatusTrainingCooldown = "training_cooldown"
)

// AttemptStatusFor reports, without mutating anything, whether a new attempt
// on the exercise would currently count toward ranking. It must mirror
// DetermineEligibility: when the exercise is today's challenge and the bonus
// is not yet banked, the cooldown does not apply.
func AttemptStatusFor(db *gorm.DB, userID uint, exercise *models.Exercise, now time.Time, isTodayChallenge, dailyBanked bool) (string, error) {
	if !exercise.IsRanked {
		return AttemptStatusNonRanked, nil
	}

	var last models.Attempt
	err := db.Where("user_id = ? AND exercise_id = ? AND counted_for_ranking = ?", userID, exercise.ID, true).
		Order("completed_at DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttemptStatusRankable, nil
		}
		return "", err
	}

	if isTodayChallenge && !dailyBanked {
		return AttemptStatusRankable, nil
	}
	if now.Sub(last.CompletedAt) > RankingCooldown {
		return AttemptStatusRankable, nil
	}
	return AttemptStatusTrainingCooldown, nil
}
