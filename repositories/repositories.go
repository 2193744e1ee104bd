package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
)

// ErrDuplicate is returned when a write violates a unique constraint. Callers
// treat it as "already exists" rather than a failure; concurrent writers
// racing on the same key rely on this instead of application-level locks.
var ErrDuplicate = errors.New("duplicate record")

// ErrNoRows aliases gorm's not-found error so service code can detect
// zero-row updates without importing gorm.
var ErrNoRows = gorm.ErrRecordNotFound

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// ArticleRepository wraps persistence for articles and their reactions.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	FindByID(ctx context.Context, id uint) (*models.Article, error)
	FindBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter dto.ArticleListFilter, page dto.Pagination) ([]models.Article, int64, error)
	ListPublished(ctx context.Context, filter dto.ArticleListFilter, page dto.Pagination) ([]models.Article, int64, error)
	IncrementReportCount(ctx context.Context, id uint, reason string, at time.Time) error
	IncrementViewCount(ctx context.Context, id uint) error
	ReplaceCategories(ctx context.Context, article *models.Article, ids []uint) error
	ReplaceTags(ctx context.Context, article *models.Article, ids []uint) error
	ReplaceMedia(ctx context.Context, article *models.Article, ids []uint) error
	CreateLike(ctx context.Context, like *models.ArticleLike) error
	RemoveLike(ctx context.Context, articleID uint, userID *uint, ip *string) error
	LikeCounts(ctx context.Context, articleID uint) (likes int64, dislikes int64, err error)
}

// CommentRepository wraps persistence for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID uint, page dto.Pagination) ([]models.Comment, int64, error)
	ListForModeration(ctx context.Context, status string, hasReports bool, page dto.Pagination) ([]models.Comment, int64, error)
	IncrementReportCount(ctx context.Context, id uint, at time.Time) error
	SoftDelete(ctx context.Context, id uint, reason string, deletedBy uint) error
}

// UserRepository wraps persistence for users and the follow graph.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByIDWithPermissions(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, page dto.Pagination) ([]models.User, int64, error)
	AssignRole(ctx context.Context, user *models.User, role *models.Role) error
	RevokeRole(ctx context.Context, user *models.User, role *models.Role) error
	Follow(ctx context.Context, followerID, followingID uint) error
	Unfollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	Followers(ctx context.Context, userID uint, page dto.Pagination) ([]models.User, int64, error)
	Following(ctx context.Context, userID uint, page dto.Pagination) ([]models.User, int64, error)
}

// CategoryRepository wraps persistence for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// TagRepository wraps persistence for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
}

// MediaRepository wraps persistence for uploaded media records.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	FindByID(ctx context.Context, id uint) (*models.Media, error)
	List(ctx context.Context, uploadedBy uint, page dto.Pagination) ([]models.Media, int64, error)
	Delete(ctx context.Context, id uint) error
}

// NotificationRepository wraps the notification source rows, the per-user
// fan-out rows, and the audience resolution queries.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateUserNotifications(ctx context.Context, rows []models.UserNotification) (int, error)
	ListForUser(ctx context.Context, userID uint, onlyUnread bool, page dto.Pagination) ([]models.UserNotification, int64, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) error
	DeleteForUser(ctx context.Context, userID, id uint) error
	AllUserIDs(ctx context.Context) ([]uint, error)
	UserIDsWithRole(ctx context.Context, roleID uint) ([]uint, error)
	CategoryAuthorIDs(ctx context.Context, categoryID uint) ([]uint, error)
	UserExists(ctx context.Context, userID uint) (bool, error)
}

// NewsletterRepository wraps persistence for newsletter subscribers.
type NewsletterRepository interface {
	Create(ctx context.Context, s *models.NewsletterSubscriber) error
	Update(ctx context.Context, s *models.NewsletterSubscriber) error
	FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	FindByTokenHash(ctx context.Context, hash string) (*models.NewsletterSubscriber, error)
	List(ctx context.Context, verifiedOnly bool, page dto.Pagination) ([]models.NewsletterSubscriber, int64, error)
	Delete(ctx context.Context, id uint) error
}

// RoleRepository wraps persistence for roles and permissions.
type RoleRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	ListPermissions(ctx context.Context) ([]models.Permission, error)
}

// Repositories holds all repository interfaces.
type Repositories struct {
	Article      ArticleRepository
	Comment      CommentRepository
	User         UserRepository
	Category     CategoryRepository
	Tag          TagRepository
	Media        MediaRepository
	Notification NotificationRepository
	Newsletter   NewsletterRepository
	Role         RoleRepository
}

// New creates all repositories with the given database connection.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Article:      NewArticleRepo(db),
		Comment:      NewCommentRepo(db),
		User:         NewUserRepo(db),
		Category:     NewCategoryRepo(db),
		Tag:          NewTagRepo(db),
		Media:        NewMediaRepo(db),
		Notification: NewNotificationRepo(db),
		Newsletter:   NewNewsletterRepo(db),
		Role:         NewRoleRepo(db),
	}
}
