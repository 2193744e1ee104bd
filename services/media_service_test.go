package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/mocks"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/services"
)

func TestMediaRegisterBucketsMimeType(t *testing.T) {
	repo := mocks.NewMockMediaRepository()
	svc := services.NewMediaService(repo)

	media := &models.Media{UploadedBy: 1, FileName: "cat.png", FilePath: "/tmp/cat.png", MimeType: "image/png"}
	require.NoError(t, svc.Register(context.Background(), media))
	assert.Equal(t, models.MediaTypeImage, media.Type)

	pdf := &models.Media{UploadedBy: 1, FileName: "doc.pdf", FilePath: "/tmp/doc.pdf", MimeType: "application/pdf"}
	require.NoError(t, svc.Register(context.Background(), pdf))
	assert.Equal(t, models.MediaTypeDocument, pdf.Type)
}

func TestMediaListScopedToOwnUploads(t *testing.T) {
	repo := mocks.NewMockMediaRepository()
	svc := services.NewMediaService(repo)
	repo.Create(context.Background(), &models.Media{UploadedBy: 1, FileName: "a.png"})
	repo.Create(context.Background(), &models.Media{UploadedBy: 2, FileName: "b.png"})

	uploader := userWithPerms(1, models.PermUploadMedia)
	own, total, err := svc.List(context.Background(), uploader, dto.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, own, 1)
	assert.Equal(t, "a.png", own[0].FileName)

	admin := userWithPerms(1, models.PermDeleteOthersMedia)
	all, total, err := svc.List(context.Background(), admin, dto.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestMediaDeleteOwnershipPolicy(t *testing.T) {
	repo := mocks.NewMockMediaRepository()
	svc := services.NewMediaService(repo)
	file := &models.Media{UploadedBy: 1, FileName: "a.png", FilePath: "/nonexistent/a.png"}
	repo.Create(context.Background(), file)

	stranger := userWithPerms(2, models.PermDeleteMedia)
	err := svc.Delete(context.Background(), stranger, file.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	owner := userWithPerms(1, models.PermDeleteMedia)
	require.NoError(t, svc.Delete(context.Background(), owner, file.ID))
	assert.Empty(t, repo.Files)
}

func TestMediaDeleteUnknown(t *testing.T) {
	svc := services.NewMediaService(mocks.NewMockMediaRepository())
	admin := userWithPerms(1, models.PermDeleteOthersMedia)
	err := svc.Delete(context.Background(), admin, 404)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestMediaGetUnknown(t *testing.T) {
	svc := services.NewMediaService(mocks.NewMockMediaRepository())
	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
