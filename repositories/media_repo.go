package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
)

type mediaRepo struct {
	db *gorm.DB
}

// NewMediaRepo creates a GORM-backed MediaRepository.
func NewMediaRepo(db *gorm.DB) MediaRepository {
	return &mediaRepo{db: db}
}

func (r *mediaRepo) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepo) FindByID(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	err := r.db.WithContext(ctx).First(&media, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// List returns media records, optionally restricted to one uploader when
// uploadedBy is non-zero.
func (r *mediaRepo) List(ctx context.Context, uploadedBy uint, page dto.Pagination) ([]models.Media, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Media{})
	if uploadedBy != 0 {
		q = q.Where("uploaded_by = ?", uploadedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var media []models.Media
	err := q.Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&media).Error
	if err != nil {
		return nil, 0, err
	}
	return media, total, nil
}

func (r *mediaRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Media{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
