package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// UserController serves public profiles, the follow graph, and admin user
// management.
type UserController struct {
	users *services.UserService
}

// NewUserController creates a UserController.
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GetPublicProfile returns a user's public view by username.
func (c *UserController) GetPublicProfile(ctx *gin.Context) {
	user, err := c.users.GetPublicProfile(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", user.PublicProfile())
}

// Get returns a user's public view by numeric ID.
func (c *UserController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user, err := c.users.GetPublicProfileByID(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", user.PublicProfile())
}

// Follow makes the caller follow the target user.
func (c *UserController) Follow(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.users.Follow(ctx.Request.Context(), currentUser(ctx), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "followed", nil)
}

// Unfollow removes the caller's follow edge to the target user.
func (c *UserController) Unfollow(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.users.Unfollow(ctx.Request.Context(), currentUser(ctx), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "unfollowed", nil)
}

// FollowState reports whether the caller follows the target user.
func (c *UserController) FollowState(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	following, err := c.users.IsFollowing(ctx.Request.Context(), currentUser(ctx).ID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", gin.H{"following": following})
}

// Followers lists who follows the target user.
func (c *UserController) Followers(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	users, total, err := c.users.Followers(ctx.Request.Context(), id, page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(publicProfiles(users), page.Meta(total)))
}

// Following lists who the target user follows.
func (c *UserController) Following(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	users, total, err := c.users.Following(ctx.Request.Context(), id, page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(publicProfiles(users), page.Meta(total)))
}

func publicProfiles(users []models.User) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		out = append(out, users[i].PublicProfile())
	}
	return out
}

// List returns users for admin screens.
func (c *UserController) List(ctx *gin.Context) {
	page := dto.ParsePagination(ctx.Query("page"), ctx.Query("page_size"))
	users, total, err := c.users.List(ctx.Request.Context(), page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", listEnvelope(users, page.Meta(total)))
}

// SetSuspension bans/unbans or blocks/unblocks a user.
func (c *UserController) SetSuspension(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Kind      string `json:"kind"`
		Suspended bool   `json:"suspended"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	user, err := c.users.SetSuspension(ctx.Request.Context(), currentUser(ctx), id, req.Kind, req.Suspended)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "user updated", user)
}

// AssignRole attaches a role to a user.
func (c *UserController) AssignRole(ctx *gin.Context) {
	c.changeRole(ctx, true)
}

// RevokeRole detaches a role from a user.
func (c *UserController) RevokeRole(ctx *gin.Context) {
	c.changeRole(ctx, false)
}

func (c *UserController) changeRole(ctx *gin.Context, assign bool) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AssignRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.RoleSlug == "" {
		utils.Error(ctx, http.StatusBadRequest, "role_slug is required")
		return
	}

	var err error
	var user interface{}
	if assign {
		user, err = c.users.AssignRole(ctx.Request.Context(), id, req.RoleSlug)
	} else {
		user, err = c.users.RevokeRole(ctx.Request.Context(), id, req.RoleSlug)
	}
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "roles updated", user)
}
