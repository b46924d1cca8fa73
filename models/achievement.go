// models/achievement.go
package models

import "time"

// Achievement is a badge definition from the fixed catalog.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"not null;uniqueIndex;size:50" json:"slug"`
	Title       string    `gorm:"not null;size:100" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	IconName    string    `gorm:"size:50" json:"icon_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserAchievement is a grant record, unique per (user, achievement). Grants
// go through an insert-if-absent so concurrent submissions cannot duplicate
// them.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`

	User        *User        `gorm:"foreignKey:UserID" json:"-"`
	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
