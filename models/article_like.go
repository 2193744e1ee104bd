package models

import "time"

// Reaction type values for article likes.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// ArticleLike is a per-article reaction. Exactly one of UserID / IPAddress is
// set: authenticated reactions are keyed by (article, user), anonymous ones by
// (article, ip). Duplicate submissions race on the unique indexes rather than
// on application-level locking.
type ArticleLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_article_user_like;uniqueIndex:idx_article_ip_like" json:"article_id"`
	UserID    *uint     `gorm:"uniqueIndex:idx_article_user_like" json:"user_id,omitempty"`
	IPAddress *string   `gorm:"size:45;uniqueIndex:idx_article_ip_like" json:"-"`
	Type      string    `gorm:"size:8;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
