package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/config"
	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// MediaController serves media upload, listing, and deletion. Files land on
// local disk under the configured upload directory, sharded by date.
type MediaController struct {
	media *services.MediaService
}

// NewMediaController creates a MediaController.
func NewMediaController(media *services.MediaService) *MediaController {
	return &MediaController{media: media}
}

// Upload saves a multipart file and registers the media record.
func (c *MediaController) Upload(ctx *gin.Context) {
	user := currentUser(ctx)

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxSizeMB) * 1024 * 1024
	if header.Size > 0 && header.Size > maxSize {
		utils.ValidationFailed(ctx, map[string]string{
			"file": fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB),
		})
		return
	}

	now := time.Now()
	baseDir := filepath.Join(cfg.UploadDir, now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	fname := filepath.Base(header.Filename)
	if fname == "." || fname == "" {
		fname = fmt.Sprintf("file_%d", now.UnixNano())
	}
	safeName := fmt.Sprintf("%d_%d_%s", now.UnixNano(), user.ID, fname)
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to save file")
		return
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, "failed to write file")
		return
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		utils.ValidationFailed(ctx, map[string]string{
			"file": fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB),
		})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	media := &models.Media{
		UploadedBy: user.ID,
		FileName:   fname,
		FilePath:   dstPath,
		URL:        "/" + filepath.ToSlash(strings.TrimPrefix(dstPath, "./")),
		MimeType:   mimeType,
		Size:       written,
	}
	if err := c.media.Register(ctx.Request.Context(), media); err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, "failed to register media")
		return
	}
	utils.Created(ctx, "file uploaded", media)
}

// List returns media records visible to the caller.
func (c *MediaController) List(ctx *gin.Context) {
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	media, total, err := c.media.List(ctx.Request.Context(), currentUser(ctx), page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(media, page.Meta(total)))
}

// Get returns one media record.
func (c *MediaController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	media, err := c.media.Get(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", media)
}

// Delete removes a media record and its file.
func (c *MediaController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.media.Delete(ctx.Request.Context(), currentUser(ctx), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "media deleted", nil)
}
