package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/utils"
)

// StatsController provides aggregate counts for admin dashboards.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate counts across the content graph. Individual
// count failures fall back to 0 instead of failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount, articleCount, publishedCount, commentCount, pendingComments, subscriberCount int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}
	if err := s.db.Model(&models.Article{}).Count(&articleCount).Error; err != nil {
		articleCount = 0
	}
	if err := s.db.Model(&models.Article{}).
		Where("status IN ? AND published_at <= ?",
			[]string{models.ArticleStatusPublished, models.ArticleStatusScheduled}, time.Now()).
		Count(&publishedCount).Error; err != nil {
		publishedCount = 0
	}
	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}
	if err := s.db.Model(&models.Comment{}).
		Where("status = ?", models.CommentStatusPending).
		Count(&pendingComments).Error; err != nil {
		pendingComments = 0
	}
	if err := s.db.Model(&models.NewsletterSubscriber{}).
		Where("is_verified = ? AND unsubscribed_at IS NULL", true).
		Count(&subscriberCount).Error; err != nil {
		subscriberCount = 0
	}

	utils.Success(ctx, "ok", gin.H{
		"user_count":             userCount,
		"article_count":          articleCount,
		"published_count":        publishedCount,
		"comment_count":          commentCount,
		"pending_comment_count":  pendingComments,
		"newsletter_subscribers": subscriberCount,
	})
}

// GetArticleStats returns view and comment counts for one article.
func (s *StatsController) GetArticleStats(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var article models.Article
	if err := s.db.Select("id", "view_count", "report_count").First(&article, id).Error; err != nil {
		respondServiceError(ctx, mapGormNotFound(err))
		return
	}

	var commentCount int64
	if err := s.db.Model(&models.Comment{}).
		Where("article_id = ? AND status = ?", id, models.CommentStatusApproved).
		Count(&commentCount).Error; err != nil {
		commentCount = 0
	}

	utils.Success(ctx, "ok", gin.H{
		"views":         article.ViewCount,
		"comment_count": commentCount,
		"report_count":  article.ReportCount,
	})
}
