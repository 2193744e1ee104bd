package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// CommentController serves comment reading, writing, and reporting.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a CommentController.
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// ListByArticle returns approved comments for a public article, with one
// level of replies.
func (c *CommentController) ListByArticle(ctx *gin.Context) {
	articleID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	comments, total, err := c.comments.ListByArticle(ctx.Request.Context(), articleID, page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(comments, page.Meta(total)))
}

// Create stores a new pending comment.
func (c *CommentController) Create(ctx *gin.Context) {
	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	comment, err := c.comments.Create(ctx.Request.Context(), currentUser(ctx), &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Created(ctx, "comment submitted for moderation", comment)
}

// Update edits the comment body.
func (c *CommentController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	comment, err := c.comments.Update(ctx.Request.Context(), currentUser(ctx), id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "comment updated", comment)
}

// Delete soft-deletes a comment, recording who removed it and why.
func (c *CommentController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.DeleteCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := c.comments.Delete(ctx.Request.Context(), currentUser(ctx), id, req.Reason); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "comment deleted", nil)
}

// Report files an abuse report against a comment.
func (c *CommentController) Report(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReportCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := c.comments.Report(ctx.Request.Context(), id, &req); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "report recorded", nil)
}
