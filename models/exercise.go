// models/exercise.go - Reading exercises, quiz questions and the daily challenge
package models

import (
	"time"
)

// Exercise is a timed reading text. WordCount is derived from Text and must be
// recomputed in the same transaction as any text edit: scoring multipliers and
// WPM derivation read it directly.
type Exercise struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Title            string     `json:"title" gorm:"not null;size:100"`
	Text             string     `json:"text" gorm:"not null;type:text"`
	WordCount        int        `json:"word_count" gorm:"not null;default:0"`
	IsPublic         bool       `json:"is_public" gorm:"default:false;index"`
	IsRanked         bool       `json:"is_ranked" gorm:"default:false;index"`
	IsDailyCandidate bool       `json:"is_daily_candidate" gorm:"default:false;index"`
	CreatedBy        *uint      `json:"created_by" gorm:"index"`
	Creator          *User      `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Questions        []Question `json:"questions,omitempty" gorm:"foreignKey:ExerciseID"`
}

// Question types
const (
	QuestionTypeOpen   = "open"
	QuestionTypeChoice = "choice"
)

// Question is a comprehension question for an exercise. Multiple-choice
// questions carry exactly four options, open questions none.
type Question struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ExerciseID    uint      `json:"exercise_id" gorm:"not null;index"`
	Text          string    `json:"text" gorm:"not null;type:text"`
	CorrectAnswer string    `json:"correct_answer" gorm:"not null;size:500"`
	QuestionType  string    `json:"question_type" gorm:"not null;default:'open';size:20"`
	Option1       string    `json:"option_1" gorm:"size:255"`
	Option2       string    `json:"option_2" gorm:"size:255"`
	Option3       string    `json:"option_3" gorm:"size:255"`
	Option4       string    `json:"option_4" gorm:"size:255"`
	CreatedAt     time.Time `json:"created_at"`
}

// DailyChallenge pins one exercise as the featured challenge of a calendar
// day. Immutable once created for a date; rows for past dates get purged.
type DailyChallenge struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Date       string    `json:"date" gorm:"size:10;uniqueIndex;not null"` // YYYY-MM-DD
	ExerciseID uint      `json:"exercise_id" gorm:"not null;index"`
	Exercise   *Exercise `json:"exercise,omitempty" gorm:"foreignKey:ExerciseID"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Exercise) TableName() string {
	return "exercises"
}

func (Question) TableName() string {
	return "questions"
}

func (DailyChallenge) TableName() string {
	return "daily_challenges"
}
