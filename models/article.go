package models

import (
	"time"

	"gorm.io/gorm"
)

// Article status lifecycle values.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusReview    = "review"
	ArticleStatusScheduled = "scheduled"
	ArticleStatusPublished = "published"
	ArticleStatusArchived  = "archived"
	ArticleStatusTrashed   = "trashed"
)

// Article represents a blog article authored by a user.
// Content is stored both as the original markdown and the rendered, sanitized HTML.
type Article struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Slug            string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Subtitle        string         `gorm:"size:255" json:"subtitle"`
	Excerpt         string         `gorm:"type:text" json:"excerpt"`
	ContentMarkdown string         `gorm:"type:longtext;not null" json:"content_markdown"`
	ContentHTML     string         `gorm:"type:longtext" json:"content_html"`
	Status          string         `gorm:"size:16;index;not null;default:'draft'" json:"status"`
	PublishedAt     *time.Time     `gorm:"index" json:"published_at"`
	MetaTitle       string         `gorm:"size:255" json:"meta_title"`
	MetaDescription string         `gorm:"size:500" json:"meta_description"`
	CreatedBy       uint           `gorm:"index;not null" json:"created_by"`
	ApprovedBy      *uint          `gorm:"index" json:"approved_by"`
	FeaturedImageID *uint          `gorm:"index" json:"featured_image_id"`
	IsFeatured      bool           `gorm:"default:false;index" json:"is_featured"`
	FeaturedAt      *time.Time     `json:"featured_at"`
	IsPinned        bool           `gorm:"default:false;index" json:"is_pinned"`
	PinnedAt        *time.Time     `json:"pinned_at"`
	ReportCount     int64          `gorm:"not null;default:0" json:"report_count"`
	LastReportedAt  *time.Time     `json:"last_reported_at"`
	ReportReason    string         `gorm:"size:500" json:"report_reason"`
	ViewCount       int64          `gorm:"not null;default:0" json:"view_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Creator       User      `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	Approver      *User     `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	FeaturedImage *Media    `gorm:"foreignKey:FeaturedImageID" json:"featured_image,omitempty"`
	Categories    []Category `gorm:"many2many:article_categories;" json:"categories"`
	Tags          []Tag      `gorm:"many2many:article_tags;" json:"tags"`
	Media         []Media    `gorm:"many2many:article_media;" json:"media,omitempty"`
	Comments      []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}

// IsPubliclyVisible reports whether the article should appear in public reads.
// Scheduling is a query-time predicate: a scheduled row becomes visible the
// moment its published_at passes, with no timer flipping the stored status.
func (a *Article) IsPubliclyVisible(now time.Time) bool {
	if a.Status != ArticleStatusPublished && a.Status != ArticleStatusScheduled {
		return false
	}
	return a.PublishedAt != nil && !a.PublishedAt.After(now)
}

// DeriveStatus maps a requested publish time to the stored lifecycle status:
// absent -> draft, future -> scheduled, past or now -> published.
func DeriveStatus(publishedAt *time.Time, now time.Time) string {
	if publishedAt == nil {
		return ArticleStatusDraft
	}
	if publishedAt.After(now) {
		return ArticleStatusScheduled
	}
	return ArticleStatusPublished
}

// ValidArticleStatus reports whether s is a known lifecycle status.
func ValidArticleStatus(s string) bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusReview, ArticleStatusScheduled,
		ArticleStatusPublished, ArticleStatusArchived, ArticleStatusTrashed:
		return true
	}
	return false
}
