package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/utils"
)

// RequirePermission rejects requests whose authenticated user lacks the
// permission slug. Must run after AuthRequired.
func RequirePermission(slug string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		if user == nil {
			utils.Error(ctx, http.StatusUnauthorized, "authentication required")
			ctx.Abort()
			return
		}
		if !user.HasPermission(slug) {
			utils.Error(ctx, http.StatusForbidden, "insufficient permissions")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// RequireAnyPermission passes when the user holds at least one of the slugs.
func RequireAnyPermission(slugs ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		if user == nil {
			utils.Error(ctx, http.StatusUnauthorized, "authentication required")
			ctx.Abort()
			return
		}
		for _, slug := range slugs {
			if user.HasPermission(slug) {
				ctx.Next()
				return
			}
		}
		utils.Error(ctx, http.StatusForbidden, "insufficient permissions")
		ctx.Abort()
	}
}
