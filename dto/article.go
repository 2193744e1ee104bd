package dto

import (
	"strings"
	"time"
)

// CreateArticleRequest is the validated payload for creating an article.
// External field names are snake_case; optional nullable fields use Optional
// so an omitted key and an explicit null are distinguishable.
type CreateArticleRequest struct {
	Title           string               `json:"title"`
	Subtitle        string               `json:"subtitle"`
	Slug            string               `json:"slug"`
	Excerpt         string               `json:"excerpt"`
	ContentMarkdown string               `json:"content_markdown"`
	Status          string               `json:"status"`
	PublishedAt     Optional[time.Time]  `json:"published_at"`
	MetaTitle       string               `json:"meta_title"`
	MetaDescription string               `json:"meta_description"`
	FeaturedImageID Optional[uint]       `json:"featured_image_id"`
	CategoryIDs     []uint               `json:"category_ids"`
	TagIDs          []uint               `json:"tag_ids"`
	MediaIDs        []uint               `json:"media_ids"`
}

// Validate returns a field->message map; empty means valid.
func (r *CreateArticleRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		errs["title"] = "title is required"
	} else if len(r.Title) > 255 {
		errs["title"] = "title must be at most 255 characters"
	}
	if strings.TrimSpace(r.ContentMarkdown) == "" {
		errs["content_markdown"] = "content_markdown is required"
	}
	if r.Status != "" && r.Status != "draft" && r.Status != "review" {
		errs["status"] = "status must be draft or review when provided"
	}
	return errs
}

// UpdateArticleRequest is the partial-update payload. Every field is
// presence-aware so PATCH semantics work without guessing zero values.
type UpdateArticleRequest struct {
	Title           Optional[string]    `json:"title"`
	Subtitle        Optional[string]    `json:"subtitle"`
	Slug            Optional[string]    `json:"slug"`
	Excerpt         Optional[string]    `json:"excerpt"`
	ContentMarkdown Optional[string]    `json:"content_markdown"`
	PublishedAt     Optional[time.Time] `json:"published_at"`
	MetaTitle       Optional[string]    `json:"meta_title"`
	MetaDescription Optional[string]    `json:"meta_description"`
	FeaturedImageID Optional[uint]      `json:"featured_image_id"`
	CategoryIDs     Optional[[]uint]    `json:"category_ids"`
	TagIDs          Optional[[]uint]    `json:"tag_ids"`
	MediaIDs        Optional[[]uint]    `json:"media_ids"`
}

// Validate returns a field->message map; empty means valid.
func (r *UpdateArticleRequest) Validate() map[string]string {
	errs := map[string]string{}
	if title, ok := r.Title.Get(); ok {
		if strings.TrimSpace(title) == "" {
			errs["title"] = "title cannot be empty"
		} else if len(title) > 255 {
			errs["title"] = "title must be at most 255 characters"
		}
	} else if r.Title.ShouldClear() {
		errs["title"] = "title cannot be null"
	}
	if content, ok := r.ContentMarkdown.Get(); ok && strings.TrimSpace(content) == "" {
		errs["content_markdown"] = "content_markdown cannot be empty"
	}
	if r.ContentMarkdown.ShouldClear() {
		errs["content_markdown"] = "content_markdown cannot be null"
	}
	return errs
}

// ArticleListFilter captures the admin listing filters.
type ArticleListFilter struct {
	Status     string
	CategoryID uint
	TagID      uint
	AuthorID   uint
	Search     string
	HasReports bool
	Featured   bool
	Pinned     bool
}

// ReportArticleRequest carries the reporter's reason.
type ReportArticleRequest struct {
	Reason string `json:"reason"`
}

// Validate returns a field->message map; empty means valid.
func (r *ReportArticleRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs["reason"] = "reason is required"
	} else if len(r.Reason) > 500 {
		errs["reason"] = "reason must be at most 500 characters"
	}
	return errs
}
