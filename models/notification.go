package models

import "time"

// Notification audience types. A notification describes who should receive it;
// the per-recipient fan-out rows are materialized at creation time.
const (
	AudienceAll      = "all"
	AudienceUser     = "user"
	AudienceRole     = "role"
	AudienceCategory = "category"
)

// Notification is the source record carrying the audience descriptor.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	Link         string    `gorm:"size:512" json:"link,omitempty"`
	AudienceType string    `gorm:"size:16;index;not null" json:"audience_type"`
	AudienceID   *uint     `gorm:"index" json:"audience_id,omitempty"`
	CreatedBy    uint      `gorm:"index;not null" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserNotification is the per-recipient fan-out row. Read state is tracked
// here per recipient, never recomputed from the source notification.
type UserNotification struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	NotificationID uint       `gorm:"index:idx_user_notification,unique;not null" json:"notification_id"`
	UserID         uint       `gorm:"index:idx_user_notification,unique;index;not null" json:"user_id"`
	IsRead         bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	Notification Notification `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"notification"`
}

// ValidAudienceType reports whether t is a known audience descriptor.
func ValidAudienceType(t string) bool {
	switch t {
	case AudienceAll, AudienceUser, AudienceRole, AudienceCategory:
		return true
	}
	return false
}
