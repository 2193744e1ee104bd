package models

import "time"

// NewsletterSubscriber tracks the double-opt-in subscription flow. The
// verification token is stored as a SHA-256 hash only; the plaintext token
// lives in the verification email.
type NewsletterSubscriber struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Email             string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	VerificationToken string     `gorm:"size:64;index;not null" json:"-"`
	IsVerified        bool       `gorm:"default:false;index" json:"is_verified"`
	SubscribedAt      time.Time  `json:"subscribed_at"`
	UnsubscribedAt    *time.Time `json:"unsubscribed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsActive reports whether the subscriber should receive mailings.
func (s *NewsletterSubscriber) IsActive() bool {
	return s.IsVerified && s.UnsubscribedAt == nil
}
