// models/user.go
package models

import (
	"time"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `gorm:"not null" json:"-"`
	IsGuest  bool    `gorm:"default:false" json:"is_guest"`
	IsAdmin  bool    `gorm:"default:false" json:"is_admin"`

	// Reading speed unlock ladder
	MaxWpmLimit             int  `gorm:"default:350" json:"max_wpm_limit"`
	HasCompletedCalibration bool `gorm:"default:false" json:"has_completed_calibration"`

	// Ranking aggregates. Cached view over qualifying attempts, recomputed
	// from scratch after every counted attempt. Never hand-edited.
	TotalRankingPoints        int     `gorm:"default:0" json:"total_ranking_points"`
	RankingExercisesCompleted int     `gorm:"default:0" json:"ranking_exercises_completed"`
	AverageWpm                float64 `gorm:"default:0" json:"average_wpm"`
	AverageAccuracy           float64 `gorm:"default:0" json:"average_accuracy"`

	// Daily training streak
	CurrentStreak  int     `gorm:"default:0" json:"current_streak"`
	MaxStreak      int     `gorm:"default:0" json:"max_streak"`
	LastStreakDate *string `gorm:"size:10" json:"last_streak_date,omitempty"` // YYYY-MM-DD

	// Reader display settings
	SpeedMs         int    `gorm:"default:250" json:"speed"` // ms per word
	Muted           bool   `gorm:"default:false" json:"muted"`
	Mode            string `gorm:"default:'word';size:20" json:"mode"`
	ChunkSize       int    `gorm:"default:1" json:"chunk_size"`
	HighlightWidth  int    `gorm:"default:0" json:"highlight_width"`
	HighlightHeight int    `gorm:"default:0" json:"highlight_height"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Achievements []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	Attempts     []Attempt         `gorm:"foreignKey:UserID" json:"attempts,omitempty"`
}

func (User) TableName() string {
	return "users"
}
