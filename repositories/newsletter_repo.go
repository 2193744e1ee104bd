package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
)

type newsletterRepo struct {
	db *gorm.DB
}

// NewNewsletterRepo creates a GORM-backed NewsletterRepository.
func NewNewsletterRepo(db *gorm.DB) NewsletterRepository {
	return &newsletterRepo{db: db}
}

func (r *newsletterRepo) Create(ctx context.Context, s *models.NewsletterSubscriber) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *newsletterRepo) Update(ctx context.Context, s *models.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *newsletterRepo) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *newsletterRepo) FindByTokenHash(ctx context.Context, hash string) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	err := r.db.WithContext(ctx).Where("verification_token = ?", hash).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *newsletterRepo) List(ctx context.Context, verifiedOnly bool, page dto.Pagination) ([]models.NewsletterSubscriber, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.NewsletterSubscriber{})
	if verifiedOnly {
		q = q.Where("is_verified = ? AND unsubscribed_at IS NULL", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []models.NewsletterSubscriber
	err := q.Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *newsletterRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.NewsletterSubscriber{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
