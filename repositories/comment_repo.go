package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
)

type commentRepo struct {
	db *gorm.DB
}

// NewCommentRepo creates a GORM-backed CommentRepository.
func NewCommentRepo(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepo) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByArticle returns approved top-level comments for an article, newest
// first, with one level of approved replies preloaded. Top-level rows are
// fetched unscoped so a soft-deleted parent keeps its place in the thread and
// its surviving replies stay reachable; the reply preload keeps the default
// scope, so deleted replies drop out.
func (r *commentRepo) ListByArticle(ctx context.Context, articleID uint, page dto.Pagination) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Unscoped().Model(&models.Comment{}).
		Where("article_id = ? AND status = ? AND parent_comment_id IS NULL", articleID, models.CommentStatusApproved)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := q.Preload("User").
		Preload("Replies", "status = ?", models.CommentStatusApproved).
		Preload("Replies.User").
		Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepo) ListForModeration(ctx context.Context, status string, hasReports bool, page dto.Pagination) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if hasReports {
		q = q.Where("report_count > 0")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := q.Preload("User").
		Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// IncrementReportCount bumps the counter in SQL so concurrent reports never
// lose updates.
func (r *commentRepo) IncrementReportCount(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"report_count":     gorm.Expr("report_count + 1"),
			"last_reported_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete stamps the deletion metadata and the deleted_at marker in a
// single update so the audit fields can never exist without the marker.
func (r *commentRepo) SoftDelete(ctx context.Context, id uint, reason string, deletedBy uint) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_reason": reason,
			"deleted_by":     deletedBy,
			"deleted_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
