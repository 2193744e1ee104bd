package models

import "time"

// UserFollower is a directed follow edge. The composite primary key makes
// follow/unfollow idempotent set-membership operations: a duplicate follow
// fails the key constraint instead of creating a second edge.
type UserFollower struct {
	FollowerID  uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowingID uint      `gorm:"primaryKey;autoIncrement:false" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE;" json:"-"`
}
