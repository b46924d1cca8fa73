// models/notification.go
package models

import "time"

// Notification is a short activity message shown to a user (milestone
// unlocks, achievement grants, new followers).
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"not null;index"`
	Recipient   *User     `json:"-" gorm:"foreignKey:RecipientID"`
	ActorID     uint      `json:"actor_id" gorm:"not null;index"`
	Actor       *User     `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
	Verb        string    `json:"verb" gorm:"not null;size:255"`
	Read        bool      `json:"read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
