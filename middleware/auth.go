package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

const (
	// ContextUserKey stores the authenticated *models.User in the Gin context.
	ContextUserKey = "auth_user"
	// ContextTokenKey stores the raw bearer token for logout blacklisting.
	ContextTokenKey = "auth_token"
)

// AuthRequired authenticates the request with a bearer access token and
// loads the user with roles and permissions. Permissions are read fresh per
// request so grants and revocations apply without reissuing tokens.
func AuthRequired(users repositories.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, "empty bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, "invalid token")
			ctx.Abort()
			return
		}
		if claims.TokenType != utils.TokenTypeAccess || !claims.HasAbility(utils.AbilityAccessAPI) {
			utils.Error(ctx, http.StatusUnauthorized, "token cannot access the API")
			ctx.Abort()
			return
		}

		user, err := users.FindByIDWithPermissions(ctx.Request.Context(), claims.UserID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "internal server error")
			ctx.Abort()
			return
		}
		if user == nil {
			utils.Error(ctx, http.StatusUnauthorized, "account no longer exists")
			ctx.Abort()
			return
		}
		if user.IsSuspended() {
			utils.Error(ctx, http.StatusForbidden, "account suspended")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

// OptionalAuth loads the user when a valid bearer token is present but lets
// anonymous requests through. Used on endpoints such as reactions where the
// identity changes the dedupe key, not the access.
func OptionalAuth(users repositories.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Next()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			ctx.Next()
			return
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" || utils.IsTokenBlacklisted(tokenString) {
			ctx.Next()
			return
		}
		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims.TokenType != utils.TokenTypeAccess {
			ctx.Next()
			return
		}
		user, err := users.FindByIDWithPermissions(ctx.Request.Context(), claims.UserID)
		if err == nil && user != nil && !user.IsSuspended() {
			ctx.Set(ContextUserKey, user)
			ctx.Set(ContextTokenKey, tokenString)
		}
		ctx.Next()
	}
}

// CurrentUser returns the authenticated user from the Gin context, or nil.
func CurrentUser(ctx *gin.Context) *models.User {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
