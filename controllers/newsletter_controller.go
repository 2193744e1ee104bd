package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// NewsletterController serves the double-opt-in flow and the admin
// subscriber listing.
type NewsletterController struct {
	newsletter *services.NewsletterService
}

// NewNewsletterController creates a NewsletterController.
func NewNewsletterController(newsletter *services.NewsletterService) *NewsletterController {
	return &NewsletterController{newsletter: newsletter}
}

// Subscribe starts the opt-in flow. The response never reveals whether the
// address was already subscribed.
func (c *NewsletterController) Subscribe(ctx *gin.Context) {
	var req dto.SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := c.newsletter.Subscribe(ctx.Request.Context(), &req); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "check your inbox to confirm the subscription", nil)
}

// Verify completes the opt-in with the mailed token.
func (c *NewsletterController) Verify(ctx *gin.Context) {
	if err := c.newsletter.Verify(ctx.Request.Context(), ctx.Query("token")); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "subscription confirmed", nil)
}

// Unsubscribe deactivates the subscription for the token's address.
func (c *NewsletterController) Unsubscribe(ctx *gin.Context) {
	if err := c.newsletter.Unsubscribe(ctx.Request.Context(), ctx.Query("token")); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "unsubscribed", nil)
}

// List returns subscribers for admin screens.
func (c *NewsletterController) List(ctx *gin.Context) {
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	subs, total, err := c.newsletter.List(ctx.Request.Context(), ctx.Query("verified") == "true", page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(subs, page.Meta(total)))
}

// Delete removes a subscriber row.
func (c *NewsletterController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.newsletter.Remove(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "subscriber removed", nil)
}
