package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

// RoleController exposes the role and permission catalog for admin screens.
type RoleController struct {
	roles repositories.RoleRepository
}

// NewRoleController creates a RoleController.
func NewRoleController(roles repositories.RoleRepository) *RoleController {
	return &RoleController{roles: roles}
}

// List returns all roles with their permissions.
func (c *RoleController) List(ctx *gin.Context) {
	roles, err := c.roles.List(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", roles)
}

// ListPermissions returns the full permission catalog.
func (c *RoleController) ListPermissions(ctx *gin.Context) {
	perms, err := c.roles.ListPermissions(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "ok", perms)
}
