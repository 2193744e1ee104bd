package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
)

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo creates a GORM-backed NotificationRepository.
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateUserNotifications inserts fan-out rows in one batch. Duplicate
// (notification, user) pairs are skipped via ON CONFLICT so a retried
// fan-out never double-delivers. Returns the number of rows inserted.
func (r *notificationRepo) CreateUserNotifications(ctx context.Context, rows []models.UserNotification) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 500)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID uint, onlyUnread bool, page dto.Pagination) ([]models.UserNotification, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.UserNotification{}).Where("user_id = ?", userID)
	if onlyUnread {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserNotification
	err := q.Preload("Notification").
		Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *notificationRepo) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.UserNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.UserNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()}).Error
}

func (r *notificationRepo) DeleteForUser(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.UserNotification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) AllUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("banned_at IS NULL AND blocked_at IS NULL").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *notificationRepo) UserIDsWithRole(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Table("user_roles").
		Where("role_id = ?", roleID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// CategoryAuthorIDs resolves a category audience to the distinct authors of
// published articles in that category.
func (r *notificationRepo) CategoryAuthorIDs(ctx context.Context, categoryID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Distinct("articles.created_by").
		Joins("JOIN article_categories ac ON ac.article_id = articles.id").
		Where("ac.category_id = ? AND articles.status IN ? AND articles.published_at <= ?",
			categoryID, []string{models.ArticleStatusPublished, models.ArticleStatusScheduled}, time.Now()).
		Pluck("articles.created_by", &ids).Error
	return ids, err
}

func (r *notificationRepo) UserExists(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("id").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
