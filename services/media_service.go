package services

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/policies"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

// MediaService manages uploaded media records. The upload handler writes the
// file to disk first and then registers it here.
type MediaService struct {
	media repositories.MediaRepository
}

// NewMediaService creates a MediaService.
func NewMediaService(media repositories.MediaRepository) *MediaService {
	return &MediaService{media: media}
}

// Register stores the database record for a file already written to disk.
func (s *MediaService) Register(ctx context.Context, media *models.Media) error {
	media.Type = models.MediaTypeFromMime(media.MimeType)
	return s.media.Create(ctx, media)
}

// Get returns a media record by id.
func (s *MediaService) Get(ctx context.Context, id uint) (*models.Media, error) {
	media, err := s.media.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrNotFound
	}
	return media, nil
}

// List returns media records. Callers without delete_others_media see only
// their own uploads.
func (s *MediaService) List(ctx context.Context, actor *models.User, page dto.Pagination) ([]models.Media, int64, error) {
	uploadedBy := actor.ID
	if actor.HasPermission(models.PermDeleteOthersMedia) {
		uploadedBy = 0
	}
	return s.media.List(ctx, uploadedBy, page)
}

// Delete removes the record and best-effort removes the file from disk. A
// missing file is logged, not surfaced; the record is the source of truth.
func (s *MediaService) Delete(ctx context.Context, actor *models.User, id uint) error {
	media, err := s.media.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return ErrNotFound
	}
	if !policies.CanDeleteMedia(actor, media) {
		return ErrForbidden
	}
	err = s.media.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if rmErr := os.Remove(media.FilePath); rmErr != nil && !os.IsNotExist(rmErr) {
		utils.Logger.Warn("media file removal failed",
			zap.String("path", media.FilePath), zap.Error(rmErr))
	}
	return nil
}
