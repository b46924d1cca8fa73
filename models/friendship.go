// models/friendship.go
package models

import "time"

// Friendship is a one-directional follow, unique per (follower, followed).
type Friendship struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follower_followed"`
	Follower   *User     `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	FollowedID uint      `json:"followed_id" gorm:"not null;uniqueIndex:idx_follower_followed"`
	Followed   *User     `json:"followed,omitempty" gorm:"foreignKey:FollowedID"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}
