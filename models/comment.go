package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment moderation status values. Pending is the initial state; moderation
// may move a comment between the remaining states any number of times.
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
	CommentStatusSpam     = "spam"
)

// Comment represents a reader comment on an article. The author is nullable
// because accounts can be removed while their comments stay behind.
// Deletion is soft and records who removed the comment and why, independent
// of the moderation status.
type Comment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ArticleID       uint       `gorm:"index;not null" json:"article_id"`
	UserID          *uint      `gorm:"index" json:"user_id"`
	ParentCommentID *uint      `gorm:"index" json:"parent_comment_id"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Status          string     `gorm:"size:16;index;not null;default:'pending'" json:"status"`
	ApprovedBy      *uint      `json:"approved_by"`
	ModeratorNotes  string     `gorm:"size:500" json:"moderator_notes,omitempty"`
	ReportCount     int64      `gorm:"not null;default:0" json:"report_count"`
	LastReportedAt  *time.Time `json:"last_reported_at"`
	DeletedReason   string     `gorm:"size:500" json:"deleted_reason,omitempty"`
	DeletedBy       *uint          `json:"deleted_by,omitempty"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	User    *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`
}

// IsDeleted reports whether the comment was soft-deleted.
func (c *Comment) IsDeleted() bool {
	return c.DeletedAt.Valid
}

// Tombstone blanks the author-visible fields of a soft-deleted comment so it
// can keep its place in a thread without exposing content or moderation
// metadata.
func (c *Comment) Tombstone() {
	c.Content = "[removed]"
	c.UserID = nil
	c.User = nil
	c.DeletedReason = ""
	c.DeletedBy = nil
	c.ModeratorNotes = ""
}

// ValidCommentStatus reports whether s is a known moderation status.
func ValidCommentStatus(s string) bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected, CommentStatusSpam:
		return true
	}
	return false
}
