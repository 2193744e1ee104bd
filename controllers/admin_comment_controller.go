package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// AdminCommentController serves the moderation queue.
type AdminCommentController struct {
	comments *services.CommentService
}

// NewAdminCommentController creates an AdminCommentController.
func NewAdminCommentController(comments *services.CommentService) *AdminCommentController {
	return &AdminCommentController{comments: comments}
}

// List returns comments filtered by moderation status and report presence.
func (c *AdminCommentController) List(ctx *gin.Context) {
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	comments, total, err := c.comments.ListForModeration(ctx.Request.Context(),
		ctx.Query("status"), ctx.Query("has_reports") == "true", page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(comments, page.Meta(total)))
}

// Moderate moves a comment to the requested moderation status.
func (c *AdminCommentController) Moderate(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ModerateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	comment, err := c.comments.Moderate(ctx.Request.Context(), currentUser(ctx), id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "comment moderated", comment)
}
