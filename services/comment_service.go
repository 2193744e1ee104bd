package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/policies"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

// authorNotifier is the slice of NotificationService the comment flow needs.
type authorNotifier interface {
	NotifyUser(ctx context.Context, userID uint, title, message, link string, createdBy uint) error
}

// CommentService implements comment creation, moderation, and soft deletion.
type CommentService struct {
	comments repositories.CommentRepository
	articles repositories.ArticleRepository
	notifier authorNotifier
}

// NewCommentService creates a CommentService. notifier may be nil to skip
// author notifications.
func NewCommentService(comments repositories.CommentRepository, articles repositories.ArticleRepository, notifier authorNotifier) *CommentService {
	return &CommentService{comments: comments, articles: articles, notifier: notifier}
}

// Create stores a new pending comment. A reply must target a comment on the
// same article, and replies nest one level deep: replying to a reply attaches
// to the reply's parent instead.
func (s *CommentService) Create(ctx context.Context, actor *models.User, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	article, err := s.articles.FindByID(ctx, req.ArticleID)
	if err != nil {
		return nil, err
	}
	if article == nil || !article.IsPubliclyVisible(time.Now()) {
		return nil, ErrNotFound
	}

	parentID := req.ParentCommentID
	if parentID != nil {
		parent, err := s.comments.FindByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrNotFound
		}
		if parent.ArticleID != req.ArticleID {
			return nil, NewValidationError("parent_comment_id", "parent comment belongs to a different article")
		}
		if parent.ParentCommentID != nil {
			parentID = parent.ParentCommentID
		}
	}

	comment := &models.Comment{
		ArticleID:       req.ArticleID,
		UserID:          &actor.ID,
		ParentCommentID: parentID,
		Content:         utils.Sanitize(req.Content),
		Status:          models.CommentStatusPending,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Commenting on your own article should not self-notify.
	if s.notifier != nil && article.CreatedBy != actor.ID {
		if err := s.notifier.NotifyUser(ctx, article.CreatedBy,
			"New comment on your article",
			fmt.Sprintf("%s commented on %q", actor.Name, article.Title),
			"/articles/"+article.Slug,
			actor.ID); err != nil {
			return nil, err
		}
	}
	return comment, nil
}

// Update replaces the comment body. Moderation status is untouched; edits to
// an approved comment stay approved.
func (s *CommentService) Update(ctx context.Context, actor *models.User, id uint, req *dto.UpdateCommentRequest) (*models.Comment, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	if !policies.CanEditComment(actor, comment) {
		return nil, ErrForbidden
	}
	comment.Content = utils.Sanitize(req.Content)
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Moderate moves a comment to the requested status. Approval records the
// moderator; any transition between statuses is allowed.
func (s *CommentService) Moderate(ctx context.Context, actor *models.User, id uint, req *dto.ModerateCommentRequest) (*models.Comment, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	comment.Status = req.Status
	comment.ModeratorNotes = req.ModeratorNotes
	if req.Status == models.CommentStatusApproved {
		comment.ApprovedBy = &actor.ID
	} else {
		comment.ApprovedBy = nil
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete soft-deletes a comment, recording who removed it and why. Replies
// stay in place; listings render the deleted parent as a tombstone.
func (s *CommentService) Delete(ctx context.Context, actor *models.User, id uint, reason string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}
	if !policies.CanDeleteComment(actor, comment) {
		return ErrForbidden
	}
	err = s.comments.SoftDelete(ctx, id, reason, actor.ID)
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Report increments the report counter atomically in the database.
func (s *CommentService) Report(ctx context.Context, id uint, req *dto.ReportCommentRequest) error {
	if errs := req.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	err := s.comments.IncrementReportCount(ctx, id, time.Now())
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListByArticle returns approved comments for a public article. Soft-deleted
// parents come back as tombstones so their replies keep a thread to hang on.
func (s *CommentService) ListByArticle(ctx context.Context, articleID uint, page dto.Pagination) ([]models.Comment, int64, error) {
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, 0, err
	}
	if article == nil || !article.IsPubliclyVisible(time.Now()) {
		return nil, 0, ErrNotFound
	}
	comments, total, err := s.comments.ListByArticle(ctx, articleID, page)
	if err != nil {
		return nil, 0, err
	}
	for i := range comments {
		if comments[i].IsDeleted() {
			comments[i].Tombstone()
		}
	}
	return comments, total, nil
}

// ListForModeration returns comments for the moderation queue.
func (s *CommentService) ListForModeration(ctx context.Context, status string, hasReports bool, page dto.Pagination) ([]models.Comment, int64, error) {
	if status != "" && !models.ValidCommentStatus(status) {
		return nil, 0, NewValidationError("status", "unknown status")
	}
	return s.comments.ListForModeration(ctx, status, hasReports, page)
}
