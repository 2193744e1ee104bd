package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// AdminArticleController serves the editorial surface: review approval,
// scheduling, featuring, pinning, and cross-status listings.
type AdminArticleController struct {
	articles *services.ArticleService
}

// NewAdminArticleController creates an AdminArticleController.
func NewAdminArticleController(articles *services.ArticleService) *AdminArticleController {
	return &AdminArticleController{articles: articles}
}

// List returns articles across all statuses with editorial filters.
func (c *AdminArticleController) List(ctx *gin.Context) {
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	filter := dto.ArticleListFilter{
		Status:     ctx.Query("status"),
		Search:     ctx.Query("search"),
		HasReports: ctx.Query("has_reports") == "true",
	}
	if id, err := parseQueryUint(ctx, "category_id"); err == nil {
		filter.CategoryID = id
	}
	if id, err := parseQueryUint(ctx, "tag_id"); err == nil {
		filter.TagID = id
	}
	if id, err := parseQueryUint(ctx, "author_id"); err == nil {
		filter.AuthorID = id
	}

	articles, total, err := c.articles.ListAdmin(ctx.Request.Context(), filter, page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(articles, page.Meta(total)))
}

// Get returns any article by id regardless of status.
func (c *AdminArticleController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	article, err := c.articles.Get(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", article)
}

// Approve publishes an article out of review, optionally at a future time.
func (c *AdminArticleController) Approve(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		PublishedAt *time.Time `json:"published_at"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	article, err := c.articles.Approve(ctx.Request.Context(), currentUser(ctx), id, req.PublishedAt)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "article approved", article)
}

// Feature marks an article as featured.
func (c *AdminArticleController) Feature(ctx *gin.Context) {
	c.setFeatured(ctx, true)
}

// Unfeature clears the featured flag.
func (c *AdminArticleController) Unfeature(ctx *gin.Context) {
	c.setFeatured(ctx, false)
}

// Pin pins an article to the top of listings.
func (c *AdminArticleController) Pin(ctx *gin.Context) {
	c.setPinned(ctx, true)
}

// Unpin clears the pinned flag.
func (c *AdminArticleController) Unpin(ctx *gin.Context) {
	c.setPinned(ctx, false)
}

func (c *AdminArticleController) setFeatured(ctx *gin.Context, featured bool) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	article, err := c.articles.SetFeatured(ctx.Request.Context(), id, featured)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "article updated", article)
}

func (c *AdminArticleController) setPinned(ctx *gin.Context, pinned bool) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	article, err := c.articles.SetPinned(ctx.Request.Context(), id, pinned)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "article updated", article)
}
