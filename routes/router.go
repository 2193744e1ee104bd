package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mubbi/blogapi/config"
	"github.com/mubbi/blogapi/controllers"
	"github.com/mubbi/blogapi/middleware"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// SetupRouter wires middlewares, repositories, services, and controllers
// into the /api/v1 surface.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Request logging goes to its own rolling file, separate from the app log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, "ok", gin.H{"status": "ok"})
	})

	repos := repositories.New(db)

	notificationSvc := services.NewNotificationService(repos.Notification, repos.Role)
	articleSvc := services.NewArticleService(repos.Article)
	commentSvc := services.NewCommentService(repos.Comment, repos.Article, notificationSvc)
	userSvc := services.NewUserService(repos.User, repos.Role)
	taxonomySvc := services.NewTaxonomyService(repos.Category, repos.Tag)
	mediaSvc := services.NewMediaService(repos.Media)
	newsletterSvc := services.NewNewsletterService(repos.Newsletter, nil)

	authCtl := controllers.NewAuthController(repos.User, repos.Role, userSvc, nil)
	articleCtl := controllers.NewArticleController(articleSvc)
	adminArticleCtl := controllers.NewAdminArticleController(articleSvc)
	commentCtl := controllers.NewCommentController(commentSvc)
	adminCommentCtl := controllers.NewAdminCommentController(commentSvc)
	taxonomyCtl := controllers.NewTaxonomyController(taxonomySvc)
	mediaCtl := controllers.NewMediaController(mediaSvc)
	userCtl := controllers.NewUserController(userSvc)
	notificationCtl := controllers.NewNotificationController(notificationSvc)
	newsletterCtl := controllers.NewNewsletterController(newsletterSvc)
	roleCtl := controllers.NewRoleController(repos.Role)
	statsCtl := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	// Auth surface. Rate limited; registration and password reset are the
	// usual abuse targets.
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware())
	auth.POST("/register", authCtl.Register)
	auth.POST("/login", authCtl.Login)
	auth.POST("/refresh", authCtl.Refresh)
	auth.POST("/forgot-password", authCtl.ForgotPassword)
	auth.POST("/reset-password", authCtl.ResetPassword)
	auth.GET("/oauth/:provider/login", authCtl.OAuthRedirect)
	auth.GET("/oauth/:provider/callback", authCtl.OAuthCallback)
	auth.POST("/logout", middleware.AuthRequired(repos.User), authCtl.Logout)
	auth.GET("/me", middleware.AuthRequired(repos.User), authCtl.Me)
	auth.PATCH("/profile", middleware.AuthRequired(repos.User), authCtl.UpdateProfile)

	// Public content surface.
	api.GET("/articles", articleCtl.List)
	api.GET("/articles/:id", articleCtl.Get)
	api.GET("/articles/:id/comments", commentCtl.ListByArticle)
	api.GET("/categories", taxonomyCtl.ListCategories)
	api.GET("/tags", taxonomyCtl.ListTags)
	api.GET("/users/by-username/:username", userCtl.GetPublicProfile)
	api.GET("/users/:id", userCtl.Get)
	api.GET("/users/:id/followers", userCtl.Followers)
	api.GET("/users/:id/following", userCtl.Following)

	// Reports and reactions accept anonymous callers; OptionalAuth switches
	// the reaction dedupe key from IP to user when a token is present.
	anon := api.Group("")
	anon.Use(middleware.OptionalAuth(repos.User), middleware.RateLimitMiddleware())
	anon.POST("/articles/:id/report", articleCtl.Report)
	anon.POST("/articles/:id/reactions", articleCtl.React)
	anon.DELETE("/articles/:id/reactions", articleCtl.RemoveReaction)
	anon.POST("/comments/:id/report", commentCtl.Report)

	// Newsletter double-opt-in surface.
	newsletter := api.Group("/newsletter")
	newsletter.Use(middleware.RateLimitMiddleware())
	newsletter.POST("/subscribe", newsletterCtl.Subscribe)
	newsletter.GET("/verify", newsletterCtl.Verify)
	newsletter.POST("/unsubscribe", newsletterCtl.Unsubscribe)

	// Authenticated surface.
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(repos.User), middleware.RateLimitMiddleware())

	protected.POST("/articles", middleware.RequirePermission(models.PermCreateArticles), articleCtl.Create)
	protected.PATCH("/articles/:id", articleCtl.Update)
	protected.POST("/articles/:id/submit", articleCtl.SubmitForReview)
	protected.POST("/articles/:id/archive", articleCtl.Archive)
	protected.DELETE("/articles/:id", articleCtl.Trash)
	protected.POST("/articles/:id/restore", articleCtl.Restore)

	protected.POST("/comments", middleware.RequirePermission(models.PermCreateComments), commentCtl.Create)
	protected.PATCH("/comments/:id", commentCtl.Update)
	protected.DELETE("/comments/:id", commentCtl.Delete)

	protected.POST("/media", middleware.RequirePermission(models.PermUploadMedia), mediaCtl.Upload)
	protected.GET("/media", mediaCtl.List)
	protected.GET("/media/:id", mediaCtl.Get)
	protected.DELETE("/media/:id", mediaCtl.Delete)

	protected.POST("/users/:id/follow", userCtl.Follow)
	protected.DELETE("/users/:id/follow", userCtl.Unfollow)
	protected.GET("/users/:id/follow", userCtl.FollowState)

	protected.GET("/notifications", notificationCtl.List)
	protected.GET("/notifications/unread-count", notificationCtl.UnreadCount)
	protected.POST("/notifications/:id/read", notificationCtl.MarkRead)
	protected.POST("/notifications/read-all", notificationCtl.MarkAllRead)
	protected.DELETE("/notifications/:id", notificationCtl.Delete)

	// Admin and editorial surface, gated per permission.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(repos.User), middleware.RateLimitMiddleware())

	admin.GET("/articles", middleware.RequireAnyPermission(models.PermEditOthersArticles, models.PermPublishArticles), adminArticleCtl.List)
	admin.GET("/articles/:id", middleware.RequireAnyPermission(models.PermEditOthersArticles, models.PermPublishArticles), adminArticleCtl.Get)
	admin.POST("/articles/:id/approve", middleware.RequirePermission(models.PermPublishArticles), adminArticleCtl.Approve)
	admin.POST("/articles/:id/feature", middleware.RequirePermission(models.PermFeatureArticles), adminArticleCtl.Feature)
	admin.DELETE("/articles/:id/feature", middleware.RequirePermission(models.PermFeatureArticles), adminArticleCtl.Unfeature)
	admin.POST("/articles/:id/pin", middleware.RequirePermission(models.PermFeatureArticles), adminArticleCtl.Pin)
	admin.DELETE("/articles/:id/pin", middleware.RequirePermission(models.PermFeatureArticles), adminArticleCtl.Unpin)

	admin.GET("/comments", middleware.RequirePermission(models.PermModerateComments), adminCommentCtl.List)
	admin.POST("/comments/:id/moderate", middleware.RequirePermission(models.PermModerateComments), adminCommentCtl.Moderate)

	admin.POST("/categories", middleware.RequirePermission(models.PermManageCategories), taxonomyCtl.CreateCategory)
	admin.PATCH("/categories/:id", middleware.RequirePermission(models.PermManageCategories), taxonomyCtl.UpdateCategory)
	admin.DELETE("/categories/:id", middleware.RequirePermission(models.PermManageCategories), taxonomyCtl.DeleteCategory)
	admin.POST("/tags", middleware.RequirePermission(models.PermManageTags), taxonomyCtl.CreateTag)
	admin.PATCH("/tags/:id", middleware.RequirePermission(models.PermManageTags), taxonomyCtl.UpdateTag)
	admin.DELETE("/tags/:id", middleware.RequirePermission(models.PermManageTags), taxonomyCtl.DeleteTag)

	admin.GET("/users", middleware.RequirePermission(models.PermManageUsers), userCtl.List)
	admin.POST("/users/:id/suspension", middleware.RequirePermission(models.PermManageUsers), userCtl.SetSuspension)
	admin.POST("/users/:id/roles", middleware.RequirePermission(models.PermAssignRoles), userCtl.AssignRole)
	admin.DELETE("/users/:id/roles", middleware.RequirePermission(models.PermAssignRoles), userCtl.RevokeRole)
	admin.GET("/roles", middleware.RequirePermission(models.PermAssignRoles), roleCtl.List)
	admin.GET("/permissions", middleware.RequirePermission(models.PermAssignRoles), roleCtl.ListPermissions)

	admin.POST("/notifications", middleware.RequirePermission(models.PermSendNotifications), notificationCtl.Create)

	admin.GET("/newsletter/subscribers", middleware.RequirePermission(models.PermManageNewsletter), newsletterCtl.List)
	admin.DELETE("/newsletter/subscribers/:id", middleware.RequirePermission(models.PermManageNewsletter), newsletterCtl.Delete)

	admin.GET("/stats", middleware.RequirePermission(models.PermViewStats), statsCtl.GetStats)
	admin.GET("/articles/:id/stats", middleware.RequireAnyPermission(models.PermViewStats, models.PermEditOthersArticles), statsCtl.GetArticleStats)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
