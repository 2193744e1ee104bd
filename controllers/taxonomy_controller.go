package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

const taxonomyCachePrefix = "taxonomy:"

// TaxonomyController serves categories and tags.
type TaxonomyController struct {
	taxonomy *services.TaxonomyService
}

// NewTaxonomyController creates a TaxonomyController.
func NewTaxonomyController(taxonomy *services.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{taxonomy: taxonomy}
}

// ListCategories returns all categories. Cached; taxonomies change rarely.
func (c *TaxonomyController) ListCategories(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(taxonomyCachePrefix + "categories"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}
	categories, err := c.taxonomy.ListCategories(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheSetJSON(taxonomyCachePrefix+"categories", utils.JSONResponse{
		Status: "success", Message: "ok", Data: categories,
	}, 10*time.Minute)
	utils.Success(ctx, "ok", categories)
}

// CreateCategory stores a new category.
func (c *TaxonomyController) CreateCategory(ctx *gin.Context) {
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	category, err := c.taxonomy.CreateCategory(ctx.Request.Context(), &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(taxonomyCachePrefix)
	utils.Created(ctx, "category created", category)
}

// UpdateCategory renames a category or changes its slug.
func (c *TaxonomyController) UpdateCategory(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	category, err := c.taxonomy.UpdateCategory(ctx.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(taxonomyCachePrefix)
	utils.Success(ctx, "category updated", category)
}

// DeleteCategory removes a category.
func (c *TaxonomyController) DeleteCategory(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.taxonomy.DeleteCategory(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(taxonomyCachePrefix)
	utils.Success(ctx, "category deleted", nil)
}

// ListTags returns all tags.
func (c *TaxonomyController) ListTags(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(taxonomyCachePrefix + "tags"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}
	tags, err := c.taxonomy.ListTags(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.CacheSetJSON(taxonomyCachePrefix+"tags", utils.JSONResponse{
		Status: "success", Message: "ok", Data: tags,
	}, 10*time.Minute)
	utils.Success(ctx, "ok", tags)
}

// CreateTag stores a new tag.
func (c *TaxonomyController) CreateTag(ctx *gin.Context) {
	var req dto.TagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	tag, err := c.taxonomy.CreateTag(ctx.Request.Context(), &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(taxonomyCachePrefix)
	utils.Created(ctx, "tag created", tag)
}

// UpdateTag renames a tag or changes its slug.
func (c *TaxonomyController) UpdateTag(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.TagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	tag, err := c.taxonomy.UpdateTag(ctx.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(taxonomyCachePrefix)
	utils.Success(ctx, "tag updated", tag)
}

// DeleteTag removes a tag.
func (c *TaxonomyController) DeleteTag(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.taxonomy.DeleteTag(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(taxonomyCachePrefix)
	utils.Success(ctx, "tag deleted", nil)
}
