package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/policies"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

// articleCachePrefix namespaces the public article caches so mutations can
// blow them away wholesale instead of tracking individual keys.
const articleCachePrefix = "articles:"

// ArticleService implements the article lifecycle, reactions, and reports.
type ArticleService struct {
	articles repositories.ArticleRepository
}

// NewArticleService creates an ArticleService.
func NewArticleService(articles repositories.ArticleRepository) *ArticleService {
	return &ArticleService{articles: articles}
}

// Create stores a new article owned by actor. The caller must already hold
// create_articles; publishing directly requires publish_articles, otherwise
// the article lands in draft or review.
func (s *ArticleService) Create(ctx context.Context, actor *models.User, req *dto.CreateArticleRequest) (*models.Article, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
	} else {
		slug = utils.Slugify(slug)
	}
	if exists, err := s.articles.SlugExists(ctx, slug); err != nil {
		return nil, err
	} else if exists {
		slug = utils.UniqueSlug(slug)
	}

	article := &models.Article{
		Slug:            slug,
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Excerpt:         req.Excerpt,
		ContentMarkdown: req.ContentMarkdown,
		ContentHTML:     utils.RenderMarkdown(req.ContentMarkdown),
		Status:          models.ArticleStatusDraft,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CreatedBy:       actor.ID,
	}
	if req.Status == models.ArticleStatusReview {
		article.Status = models.ArticleStatusReview
	}
	if id, ok := req.FeaturedImageID.Get(); ok {
		article.FeaturedImageID = &id
	}

	// A publish time on create is honored only for users who can publish;
	// everyone else goes through review.
	if at, ok := req.PublishedAt.Get(); ok && actor.HasPermission(models.PermPublishArticles) {
		article.PublishedAt = &at
		article.Status = models.DeriveStatus(&at, time.Now())
		article.ApprovedBy = &actor.ID
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	if err := s.syncAssociations(ctx, article, req.CategoryIDs, req.TagIDs, req.MediaIDs); err != nil {
		return nil, err
	}
	utils.InvalidateByPrefix(articleCachePrefix)
	return s.articles.FindByID(ctx, article.ID)
}

// Update applies a partial update. Only present fields change; explicit null
// clears nullable ones.
func (s *ArticleService) Update(ctx context.Context, actor *models.User, id uint, req *dto.UpdateArticleRequest) (*models.Article, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	if !policies.CanEditArticle(actor, article) {
		return nil, ErrForbidden
	}

	if title, ok := req.Title.Get(); ok {
		article.Title = title
	}
	if v, ok := req.Subtitle.Get(); ok {
		article.Subtitle = v
	} else if req.Subtitle.ShouldClear() {
		article.Subtitle = ""
	}
	if v, ok := req.Excerpt.Get(); ok {
		article.Excerpt = v
	} else if req.Excerpt.ShouldClear() {
		article.Excerpt = ""
	}
	if v, ok := req.MetaTitle.Get(); ok {
		article.MetaTitle = v
	} else if req.MetaTitle.ShouldClear() {
		article.MetaTitle = ""
	}
	if v, ok := req.MetaDescription.Get(); ok {
		article.MetaDescription = v
	} else if req.MetaDescription.ShouldClear() {
		article.MetaDescription = ""
	}
	if content, ok := req.ContentMarkdown.Get(); ok {
		article.ContentMarkdown = content
		article.ContentHTML = utils.RenderMarkdown(content)
	}
	if slug, ok := req.Slug.Get(); ok {
		slug = utils.Slugify(slug)
		if slug != article.Slug {
			if exists, err := s.articles.SlugExists(ctx, slug); err != nil {
				return nil, err
			} else if exists {
				return nil, NewValidationError("slug", "slug is already in use")
			}
			article.Slug = slug
		}
	}
	if id, ok := req.FeaturedImageID.Get(); ok {
		article.FeaturedImageID = &id
	} else if req.FeaturedImageID.ShouldClear() {
		article.FeaturedImageID = nil
	}

	// Moving the publish time re-derives scheduled/published, but only for
	// articles already past review.
	if at, ok := req.PublishedAt.Get(); ok {
		if !actor.HasPermission(models.PermPublishArticles) {
			return nil, ErrForbidden
		}
		article.PublishedAt = &at
		if article.Status == models.ArticleStatusScheduled || article.Status == models.ArticleStatusPublished {
			article.Status = models.DeriveStatus(&at, time.Now())
		}
	} else if req.PublishedAt.ShouldClear() {
		if !actor.HasPermission(models.PermPublishArticles) {
			return nil, ErrForbidden
		}
		article.PublishedAt = nil
		if article.Status == models.ArticleStatusScheduled || article.Status == models.ArticleStatusPublished {
			article.Status = models.ArticleStatusDraft
		}
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	if ids, ok := req.CategoryIDs.Get(); ok {
		if err := s.articles.ReplaceCategories(ctx, article, utils.UniqueUint(ids)); err != nil {
			return nil, err
		}
	}
	if ids, ok := req.TagIDs.Get(); ok {
		if err := s.articles.ReplaceTags(ctx, article, utils.UniqueUint(ids)); err != nil {
			return nil, err
		}
	}
	if ids, ok := req.MediaIDs.Get(); ok {
		if err := s.articles.ReplaceMedia(ctx, article, utils.UniqueUint(ids)); err != nil {
			return nil, err
		}
	}
	utils.InvalidateByPrefix(articleCachePrefix)
	return s.articles.FindByID(ctx, article.ID)
}

// SubmitForReview moves a draft into the review queue.
func (s *ArticleService) SubmitForReview(ctx context.Context, actor *models.User, id uint) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	if !policies.CanEditArticle(actor, article) {
		return nil, ErrForbidden
	}
	if article.Status != models.ArticleStatusDraft {
		return nil, NewValidationError("status", "only draft articles can be submitted for review")
	}
	article.Status = models.ArticleStatusReview
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Approve publishes an article out of review. A future publishedAt schedules
// it instead; nil publishes immediately.
func (s *ArticleService) Approve(ctx context.Context, actor *models.User, id uint, publishedAt *time.Time) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	if article.Status != models.ArticleStatusReview && article.Status != models.ArticleStatusDraft {
		return nil, NewValidationError("status", "only draft or review articles can be approved")
	}

	now := time.Now()
	if publishedAt == nil {
		publishedAt = &now
	}
	article.PublishedAt = publishedAt
	article.Status = models.DeriveStatus(publishedAt, now)
	article.ApprovedBy = &actor.ID
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	utils.InvalidateByPrefix(articleCachePrefix)
	return article, nil
}

// Archive retires a published article from public listings.
func (s *ArticleService) Archive(ctx context.Context, actor *models.User, id uint) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	if !policies.CanEditArticle(actor, article) {
		return nil, ErrForbidden
	}
	if article.Status != models.ArticleStatusPublished {
		return nil, NewValidationError("status", "only published articles can be archived")
	}
	article.Status = models.ArticleStatusArchived
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	utils.InvalidateByPrefix(articleCachePrefix)
	return article, nil
}

// Trash moves an article to the trash from any state.
func (s *ArticleService) Trash(ctx context.Context, actor *models.User, id uint) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	if !policies.CanDeleteArticle(actor, article) {
		return nil, ErrForbidden
	}
	article.Status = models.ArticleStatusTrashed
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	utils.InvalidateByPrefix(articleCachePrefix)
	return article, nil
}

// Restore pulls a trashed article back to draft.
func (s *ArticleService) Restore(ctx context.Context, actor *models.User, id uint) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	if !policies.CanDeleteArticle(actor, article) {
		return nil, ErrForbidden
	}
	if article.Status != models.ArticleStatusTrashed {
		return nil, NewValidationError("status", "only trashed articles can be restored")
	}
	article.Status = models.ArticleStatusDraft
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// SetFeatured toggles the featured flag and stamps when it flipped on.
func (s *ArticleService) SetFeatured(ctx context.Context, id uint, featured bool) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	article.IsFeatured = featured
	if featured {
		now := time.Now()
		article.FeaturedAt = &now
	} else {
		article.FeaturedAt = nil
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	utils.InvalidateByPrefix(articleCachePrefix)
	return article, nil
}

// SetPinned toggles the pinned flag and stamps when it flipped on.
func (s *ArticleService) SetPinned(ctx context.Context, id uint, pinned bool) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	article.IsPinned = pinned
	if pinned {
		now := time.Now()
		article.PinnedAt = &now
	} else {
		article.PinnedAt = nil
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	utils.InvalidateByPrefix(articleCachePrefix)
	return article, nil
}

// Report increments the report counter atomically in the database, so two
// concurrent reports both land.
func (s *ArticleService) Report(ctx context.Context, id uint, req *dto.ReportArticleRequest) error {
	if errs := req.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	err := s.articles.IncrementReportCount(ctx, id, req.Reason, time.Now())
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// React records a like or dislike. Authenticated users are keyed by user id,
// anonymous visitors by ip; a repeat reaction replaces the previous one.
func (s *ArticleService) React(ctx context.Context, articleID uint, userID *uint, ip string, reaction string) (likes, dislikes int64, err error) {
	if reaction != models.ReactionLike && reaction != models.ReactionDislike {
		return 0, 0, NewValidationError("type", "type must be like or dislike")
	}
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return 0, 0, err
	}
	if article == nil || !article.IsPubliclyVisible(time.Now()) {
		return 0, 0, ErrNotFound
	}

	like := &models.ArticleLike{ArticleID: articleID, Type: reaction}
	var ipPtr *string
	if userID != nil {
		like.UserID = userID
	} else {
		ipPtr = &ip
		like.IPAddress = ipPtr
	}

	err = s.articles.CreateLike(ctx, like)
	if errors.Is(err, repositories.ErrDuplicate) {
		// Same key already reacted: replace the old reaction.
		if err := s.articles.RemoveLike(ctx, articleID, userID, ipPtr); err != nil {
			return 0, 0, err
		}
		err = s.articles.CreateLike(ctx, like)
	}
	if err != nil {
		return 0, 0, err
	}
	return s.articles.LikeCounts(ctx, articleID)
}

// RemoveReaction deletes the caller's reaction if one exists.
func (s *ArticleService) RemoveReaction(ctx context.Context, articleID uint, userID *uint, ip string) (likes, dislikes int64, err error) {
	var ipPtr *string
	if userID == nil {
		ipPtr = &ip
	}
	if err := s.articles.RemoveLike(ctx, articleID, userID, ipPtr); err != nil {
		return 0, 0, err
	}
	return s.articles.LikeCounts(ctx, articleID)
}

// GetPublic returns a publicly visible article by numeric id or slug and
// bumps its view counter.
func (s *ArticleService) GetPublic(ctx context.Context, idOrSlug string) (*models.Article, error) {
	var article *models.Article
	var err error
	if id, convErr := strconv.ParseUint(idOrSlug, 10, 32); convErr == nil {
		article, err = s.articles.FindByID(ctx, uint(id))
	} else {
		article, err = s.articles.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if article == nil || !article.IsPubliclyVisible(time.Now()) {
		return nil, ErrNotFound
	}
	if err := s.articles.IncrementViewCount(ctx, article.ID); err != nil {
		return nil, err
	}
	article.ViewCount++
	return article, nil
}

// Get returns an article by id for authorized staff, regardless of status.
func (s *ArticleService) Get(ctx context.Context, id uint) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// ListPublic returns published, already-due articles.
func (s *ArticleService) ListPublic(ctx context.Context, filter dto.ArticleListFilter, page dto.Pagination) ([]models.Article, int64, error) {
	return s.articles.ListPublished(ctx, filter, page)
}

// ListAdmin returns articles across all statuses with the given filters.
func (s *ArticleService) ListAdmin(ctx context.Context, filter dto.ArticleListFilter, page dto.Pagination) ([]models.Article, int64, error) {
	return s.articles.List(ctx, filter, page)
}

func (s *ArticleService) syncAssociations(ctx context.Context, article *models.Article, categoryIDs, tagIDs, mediaIDs []uint) error {
	if len(categoryIDs) > 0 {
		if err := s.articles.ReplaceCategories(ctx, article, utils.UniqueUint(categoryIDs)); err != nil {
			return err
		}
	}
	if len(tagIDs) > 0 {
		if err := s.articles.ReplaceTags(ctx, article, utils.UniqueUint(tagIDs)); err != nil {
			return err
		}
	}
	if len(mediaIDs) > 0 {
		if err := s.articles.ReplaceMedia(ctx, article, utils.UniqueUint(mediaIDs)); err != nil {
			return err
		}
	}
	return nil
}
