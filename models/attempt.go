// models/attempt.go
package models

import (
	"time"
)

// Attempt records one completed reading of an exercise. Attempts are
// immutable after creation except for CountedForRanking, which flips to false
// on a previous attempt when a newer one supersedes it. At most one attempt
// per (user, exercise) pair may have CountedForRanking set.
type Attempt struct {
	ID                      uint      `json:"id" gorm:"primaryKey"`
	UserID                  uint      `json:"user_id" gorm:"not null;index:idx_attempts_user_exercise"`
	User                    *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ExerciseID              uint      `json:"exercise_id" gorm:"not null;index:idx_attempts_user_exercise"`
	Exercise                *Exercise `json:"exercise,omitempty" gorm:"foreignKey:ExerciseID"`
	Wpm                     int       `json:"wpm" gorm:"not null"`
	Accuracy                float64   `json:"accuracy" gorm:"not null"` // 0-100
	AttemptNumber           int       `json:"attempt_number" gorm:"not null;default:1"`
	CountedForRanking       bool      `json:"counted_for_ranking" gorm:"default:false;index"`
	RankingPoints           int       `json:"ranking_points" gorm:"default:0"`
	CompletedDailyChallenge bool      `json:"completed_daily_challenge" gorm:"default:false"`
	CompletedAt             time.Time `json:"completed_at" gorm:"not null;index"`
}

func (Attempt) TableName() string {
	return "attempts"
}
