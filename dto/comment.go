package dto

import "strings"

// CreateCommentRequest creates a comment under an article, optionally as a
// reply to an existing comment on the same article.
type CreateCommentRequest struct {
	ArticleID       uint   `json:"article_id"`
	ParentCommentID *uint  `json:"parent_comment_id"`
	Content         string `json:"content"`
}

// Validate returns a field->message map; empty means valid.
func (r *CreateCommentRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.ArticleID == 0 {
		errs["article_id"] = "article_id is required"
	}
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		errs["content"] = "content is required"
	} else if len(r.Content) > 10000 {
		errs["content"] = "content must be at most 10000 characters"
	}
	return errs
}

// UpdateCommentRequest edits the comment body.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// Validate returns a field->message map; empty means valid.
func (r *UpdateCommentRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		errs["content"] = "content is required"
	} else if len(r.Content) > 10000 {
		errs["content"] = "content must be at most 10000 characters"
	}
	return errs
}

// ModerateCommentRequest moves a comment to a moderation status.
type ModerateCommentRequest struct {
	Status         string `json:"status"`
	ModeratorNotes string `json:"moderator_notes"`
}

// Validate returns a field->message map; empty means valid.
func (r *ModerateCommentRequest) Validate() map[string]string {
	errs := map[string]string{}
	switch r.Status {
	case "approved", "rejected", "spam", "pending":
	default:
		errs["status"] = "status must be one of pending, approved, rejected, spam"
	}
	if len(r.ModeratorNotes) > 500 {
		errs["moderator_notes"] = "moderator_notes must be at most 500 characters"
	}
	return errs
}

// DeleteCommentRequest records the audit reason for a soft delete.
type DeleteCommentRequest struct {
	Reason string `json:"reason"`
}

// ReportCommentRequest carries the reporter's reason.
type ReportCommentRequest struct {
	Reason string `json:"reason"`
}

// Validate returns a field->message map; empty means valid.
func (r *ReportCommentRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs["reason"] = "reason is required"
	} else if len(r.Reason) > 500 {
		errs["reason"] = "reason must be at most 500 characters"
	}
	return errs
}
