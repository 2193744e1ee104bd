package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account. Passwords are stored as bcrypt hashes only.
// banned_at and blocked_at are orthogonal suspension states: either one
// keeps the account out of the API.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:128;not null" json:"name"`
	Username        string         `gorm:"size:64;uniqueIndex" json:"username"`
	Email           string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	AvatarURL       string         `gorm:"size:512" json:"avatar_url"`
	Bio             string         `gorm:"size:500" json:"bio"`
	Website         string         `gorm:"size:255" json:"website"`
	Provider        string         `gorm:"size:32" json:"provider,omitempty"`
	ProviderID      string         `gorm:"size:255" json:"-"`
	RegisterIP      string         `gorm:"size:45" json:"-"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	BannedAt        *time.Time     `gorm:"index" json:"banned_at,omitempty"`
	BlockedAt       *time.Time     `gorm:"index" json:"blocked_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// IsSuspended reports whether the account is banned or blocked.
func (u *User) IsSuspended() bool {
	return u.BannedAt != nil || u.BlockedAt != nil
}

// HasPermission checks the union of permissions across all assigned roles.
// Roles and their permissions must be preloaded; the set is rebuilt per
// request by the auth middleware, never cached on the user row.
func (u *User) HasPermission(slug string) bool {
	for i := range u.Roles {
		for j := range u.Roles[i].Permissions {
			if u.Roles[i].Permissions[j].Slug == slug {
				return true
			}
		}
	}
	return false
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(slug string) bool {
	for i := range u.Roles {
		if u.Roles[i].Slug == slug {
			return true
		}
	}
	return false
}

// PublicProfile strips private fields for unauthenticated consumers.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"username":   u.Username,
		"avatar_url": u.AvatarURL,
		"bio":        u.Bio,
		"website":    u.Website,
		"created_at": u.CreatedAt,
	}
}
