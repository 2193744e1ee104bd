package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
)

type articleRepo struct {
	db *gorm.DB
}

// NewArticleRepo creates a GORM-backed article repository.
func NewArticleRepo(db *gorm.DB) ArticleRepository {
	return &articleRepo{db: db}
}

func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	err := r.db.WithContext(ctx).Create(article).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	err := r.db.WithContext(ctx).Omit("Categories", "Tags", "Media", "Creator", "Approver", "FeaturedImage", "Comments").Save(article).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *articleRepo) FindByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Creator").Preload("Categories").Preload("Tags").Preload("FeaturedImage").
		First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepo) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Creator").Preload("Categories").Preload("Tags").Preload("Media").Preload("FeaturedImage").
		Where("slug = ?", slug).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *articleRepo) applyFilter(q *gorm.DB, filter dto.ArticleListFilter) *gorm.DB {
	if filter.Status != "" {
		q = q.Where("articles.status = ?", filter.Status)
	}
	if filter.AuthorID != 0 {
		q = q.Where("articles.created_by = ?", filter.AuthorID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("articles.title LIKE ? OR articles.content_markdown LIKE ?", like, like)
	}
	if filter.HasReports {
		q = q.Where("articles.report_count > 0")
	}
	if filter.Featured {
		q = q.Where("articles.is_featured = ?", true)
	}
	if filter.Pinned {
		q = q.Where("articles.is_pinned = ?", true)
	}
	if filter.CategoryID != 0 {
		q = q.Joins("JOIN article_categories ac ON ac.article_id = articles.id AND ac.category_id = ?", filter.CategoryID)
	}
	if filter.TagID != 0 {
		q = q.Joins("JOIN article_tags at ON at.article_id = articles.id AND at.tag_id = ?", filter.TagID)
	}
	return q
}

func (r *articleRepo) list(ctx context.Context, base *gorm.DB, page dto.Pagination) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64
	if err := base.Model(&models.Article{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base.
		Preload("Creator").Preload("Categories").Preload("Tags").Preload("FeaturedImage").
		Order("articles.is_pinned DESC, articles.created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *articleRepo) List(ctx context.Context, filter dto.ArticleListFilter, page dto.Pagination) ([]models.Article, int64, error) {
	q := r.applyFilter(r.db.WithContext(ctx), filter)
	return r.list(ctx, q, page)
}

// ListPublished restricts to publicly visible rows. Scheduled rows are included
// once their published_at passes; the predicate is what makes scheduled
// publication appear without any timer.
func (r *articleRepo) ListPublished(ctx context.Context, filter dto.ArticleListFilter, page dto.Pagination) ([]models.Article, int64, error) {
	filter.Status = ""
	q := r.applyFilter(r.db.WithContext(ctx), filter).
		Where("articles.status IN ?", []string{models.ArticleStatusPublished, models.ArticleStatusScheduled}).
		Where("articles.published_at IS NOT NULL AND articles.published_at <= ?", time.Now())
	return r.list(ctx, q, page)
}

// IncrementReportCount is a single atomic UPDATE so concurrent reports never
// under-count the way a read-modify-write would.
func (r *articleRepo) IncrementReportCount(ctx context.Context, id uint, reason string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"report_count":     gorm.Expr("report_count + 1"),
			"last_reported_at": at,
			"report_reason":    reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *articleRepo) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *articleRepo) ReplaceCategories(ctx context.Context, article *models.Article, ids []uint) error {
	stubs := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		stubs = append(stubs, models.Category{ID: id})
	}
	return r.db.WithContext(ctx).Model(article).Association("Categories").Replace(&stubs)
}

func (r *articleRepo) ReplaceTags(ctx context.Context, article *models.Article, ids []uint) error {
	stubs := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		stubs = append(stubs, models.Tag{ID: id})
	}
	return r.db.WithContext(ctx).Model(article).Association("Tags").Replace(&stubs)
}

func (r *articleRepo) ReplaceMedia(ctx context.Context, article *models.Article, ids []uint) error {
	stubs := make([]models.Media, 0, len(ids))
	for _, id := range ids {
		stubs = append(stubs, models.Media{ID: id})
	}
	return r.db.WithContext(ctx).Model(article).Association("Media").Replace(&stubs)
}

func (r *articleRepo) CreateLike(ctx context.Context, like *models.ArticleLike) error {
	err := r.db.WithContext(ctx).Create(like).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *articleRepo) RemoveLike(ctx context.Context, articleID uint, userID *uint, ip *string) error {
	q := r.db.WithContext(ctx).Where("article_id = ?", articleID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else if ip != nil {
		q = q.Where("ip_address = ?", *ip)
	}
	return q.Delete(&models.ArticleLike{}).Error
}

func (r *articleRepo) LikeCounts(ctx context.Context, articleID uint) (int64, int64, error) {
	var likes, dislikes int64
	if err := r.db.WithContext(ctx).Model(&models.ArticleLike{}).
		Where("article_id = ? AND type = ?", articleID, models.ReactionLike).Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.ArticleLike{}).
		Where("article_id = ? AND type = ?", articleID, models.ReactionDislike).Count(&dislikes).Error; err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}
