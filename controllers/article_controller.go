package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// ArticleController serves the public article surface and authenticated
// authoring operations.
type ArticleController struct {
	articles *services.ArticleService
}

// NewArticleController creates an ArticleController.
func NewArticleController(articles *services.ArticleService) *ArticleController {
	return &ArticleController{articles: articles}
}

// List returns published articles with optional category/tag/search filters.
// Unfiltered first pages are cached.
func (c *ArticleController) List(ctx *gin.Context) {
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	filter := dto.ArticleListFilter{
		Search: ctx.Query("search"),
	}
	if id, err := parseQueryUint(ctx, "category_id"); err == nil {
		filter.CategoryID = id
	}
	if id, err := parseQueryUint(ctx, "tag_id"); err == nil {
		filter.TagID = id
	}
	filter.Featured = ctx.Query("featured") == "true"
	filter.Pinned = ctx.Query("pinned") == "true"

	cacheable := filter == (dto.ArticleListFilter{}) && page.Page <= 3
	cacheKey := "articles:list:" + ctx.Request.URL.RawQuery
	if cacheable {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	articles, total, err := c.articles.ListPublic(ctx.Request.Context(), filter, page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := listEnvelope(articles, page.Meta(total))
	if cacheable {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{
			Status: "success", Message: "ok", Data: payload,
		}, time.Minute)
	}
	utils.Success(ctx, "ok", payload)
}

// Get returns one publicly visible article, bumping its view count. The
// path value may be a numeric id or a slug.
func (c *ArticleController) Get(ctx *gin.Context) {
	article, err := c.articles.GetPublic(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", article)
}

// Create stores a new article owned by the caller.
func (c *ArticleController) Create(ctx *gin.Context) {
	var req dto.CreateArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	article, err := c.articles.Create(ctx.Request.Context(), currentUser(ctx), &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Created(ctx, "article created", article)
}

// Update applies a partial update to an article.
func (c *ArticleController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	article, err := c.articles.Update(ctx.Request.Context(), currentUser(ctx), id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "article updated", article)
}

// SubmitForReview moves the caller's draft into the review queue.
func (c *ArticleController) SubmitForReview(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	article, err := c.articles.SubmitForReview(ctx.Request.Context(), currentUser(ctx), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "article submitted for review", article)
}

// Trash moves an article to the trash.
func (c *ArticleController) Trash(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	article, err := c.articles.Trash(ctx.Request.Context(), currentUser(ctx), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "article trashed", article)
}

// Restore pulls a trashed article back to draft.
func (c *ArticleController) Restore(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	article, err := c.articles.Restore(ctx.Request.Context(), currentUser(ctx), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "article restored", article)
}

// Archive retires a published article.
func (c *ArticleController) Archive(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	article, err := c.articles.Archive(ctx.Request.Context(), currentUser(ctx), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "article archived", article)
}

// Report files an abuse report against an article. Anonymous callers are
// allowed.
func (c *ArticleController) Report(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReportArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := c.articles.Report(ctx.Request.Context(), id, &req); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "report recorded", nil)
}

// React records a like or dislike, keyed by user for authenticated callers
// and by client IP otherwise.
func (c *ArticleController) React(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var userID *uint
	if user := currentUser(ctx); user != nil {
		userID = &user.ID
	}
	likes, dislikes, err := c.articles.React(ctx.Request.Context(), id, userID, ctx.ClientIP(), req.Type)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "reaction recorded", gin.H{"likes": likes, "dislikes": dislikes})
}

// RemoveReaction deletes the caller's reaction.
func (c *ArticleController) RemoveReaction(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var userID *uint
	if user := currentUser(ctx); user != nil {
		userID = &user.ID
	}
	likes, dislikes, err := c.articles.RemoveReaction(ctx.Request.Context(), id, userID, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "reaction removed", gin.H{"likes": likes, "dislikes": dislikes})
}
