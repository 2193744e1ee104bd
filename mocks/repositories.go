// Package mocks provides in-memory repository implementations for service
// tests.
package mocks

import (
	"context"
	"time"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
)

// MockArticleRepository is an in-memory ArticleRepository.
type MockArticleRepository struct {
	Articles   map[uint]*models.Article
	Likes      []models.ArticleLike
	NextID     uint
	SaveError  error
	Categories map[uint][]uint
	Tags       map[uint][]uint
	Media      map[uint][]uint
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles:   make(map[uint]*models.Article),
		NextID:     1,
		Categories: make(map[uint][]uint),
		Tags:       make(map[uint][]uint),
		Media:      make(map[uint][]uint),
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	article.ID = m.NextID
	m.NextID++
	article.CreatedAt = time.Now()
	cp := *article
	m.Articles[article.ID] = &cp
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	cp := *article
	m.Articles[article.ID] = &cp
	return nil
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uint) (*models.Article, error) {
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MockArticleRepository) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	for _, a := range m.Articles {
		if a.Slug == slug {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, a := range m.Articles {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter dto.ArticleListFilter, page dto.Pagination) ([]models.Article, int64, error) {
	var out []models.Article
	for _, a := range m.Articles {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (m *MockArticleRepository) ListPublished(ctx context.Context, filter dto.ArticleListFilter, page dto.Pagination) ([]models.Article, int64, error) {
	now := time.Now()
	var out []models.Article
	for _, a := range m.Articles {
		if a.IsPubliclyVisible(now) {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (m *MockArticleRepository) IncrementReportCount(ctx context.Context, id uint, reason string, at time.Time) error {
	a, ok := m.Articles[id]
	if !ok {
		return repositories.ErrNoRows
	}
	a.ReportCount++
	a.ReportReason = reason
	a.LastReportedAt = &at
	return nil
}

func (m *MockArticleRepository) IncrementViewCount(ctx context.Context, id uint) error {
	a, ok := m.Articles[id]
	if !ok {
		return repositories.ErrNoRows
	}
	a.ViewCount++
	return nil
}

func (m *MockArticleRepository) ReplaceCategories(ctx context.Context, article *models.Article, ids []uint) error {
	m.Categories[article.ID] = ids
	return nil
}

func (m *MockArticleRepository) ReplaceTags(ctx context.Context, article *models.Article, ids []uint) error {
	m.Tags[article.ID] = ids
	return nil
}

func (m *MockArticleRepository) ReplaceMedia(ctx context.Context, article *models.Article, ids []uint) error {
	m.Media[article.ID] = ids
	return nil
}

func (m *MockArticleRepository) CreateLike(ctx context.Context, like *models.ArticleLike) error {
	for _, l := range m.Likes {
		if l.ArticleID != like.ArticleID {
			continue
		}
		if like.UserID != nil && l.UserID != nil && *l.UserID == *like.UserID {
			return repositories.ErrDuplicate
		}
		if like.IPAddress != nil && l.IPAddress != nil && *l.IPAddress == *like.IPAddress {
			return repositories.ErrDuplicate
		}
	}
	m.Likes = append(m.Likes, *like)
	return nil
}

func (m *MockArticleRepository) RemoveLike(ctx context.Context, articleID uint, userID *uint, ip *string) error {
	kept := m.Likes[:0]
	for _, l := range m.Likes {
		match := l.ArticleID == articleID &&
			((userID != nil && l.UserID != nil && *l.UserID == *userID) ||
				(ip != nil && l.IPAddress != nil && *l.IPAddress == *ip))
		if !match {
			kept = append(kept, l)
		}
	}
	m.Likes = kept
	return nil
}

func (m *MockArticleRepository) LikeCounts(ctx context.Context, articleID uint) (int64, int64, error) {
	var likes, dislikes int64
	for _, l := range m.Likes {
		if l.ArticleID != articleID {
			continue
		}
		if l.Type == models.ReactionLike {
			likes++
		} else {
			dislikes++
		}
	}
	return likes, dislikes, nil
}

// MockCommentRepository is an in-memory CommentRepository.
type MockCommentRepository struct {
	Comments  map[uint]*models.Comment
	NextID    uint
	SaveError error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[uint]*models.Comment), NextID: 1}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	comment.ID = m.NextID
	m.NextID++
	comment.CreatedAt = time.Now()
	cp := *comment
	m.Comments[comment.ID] = &cp
	return nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	cp := *comment
	m.Comments[comment.ID] = &cp
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID uint, page dto.Pagination) ([]models.Comment, int64, error) {
	var out []models.Comment
	for _, c := range m.Comments {
		if c.ArticleID != articleID || c.Status != models.CommentStatusApproved || c.ParentCommentID != nil {
			continue
		}
		cp := *c
		// Replies keep the soft-delete scope; deleted replies drop out.
		for _, r := range m.Comments {
			if r.ParentCommentID != nil && *r.ParentCommentID == c.ID &&
				r.Status == models.CommentStatusApproved && !r.DeletedAt.Valid {
				cp.Replies = append(cp.Replies, *r)
			}
		}
		out = append(out, cp)
	}
	return out, int64(len(out)), nil
}

func (m *MockCommentRepository) ListForModeration(ctx context.Context, status string, hasReports bool, page dto.Pagination) ([]models.Comment, int64, error) {
	var out []models.Comment
	for _, c := range m.Comments {
		if status != "" && c.Status != status {
			continue
		}
		if hasReports && c.ReportCount == 0 {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *MockCommentRepository) IncrementReportCount(ctx context.Context, id uint, at time.Time) error {
	c, ok := m.Comments[id]
	if !ok {
		return repositories.ErrNoRows
	}
	c.ReportCount++
	c.LastReportedAt = &at
	return nil
}

func (m *MockCommentRepository) SoftDelete(ctx context.Context, id uint, reason string, deletedBy uint) error {
	c, ok := m.Comments[id]
	if !ok {
		return repositories.ErrNoRows
	}
	c.DeletedReason = reason
	c.DeletedBy = &deletedBy
	c.DeletedAt.Time = time.Now()
	c.DeletedAt.Valid = true
	return nil
}

// MockUserRepository is an in-memory UserRepository.
type MockUserRepository struct {
	Users     map[uint]*models.User
	Follows   map[[2]uint]bool
	NextID    uint
	SaveError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:   make(map[uint]*models.User),
		Follows: make(map[[2]uint]bool),
		NextID:  1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	for _, u := range m.Users {
		if u.Email == user.Email || u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.NextID
	m.NextID++
	cp := *user
	m.Users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	cp := *user
	m.Users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) FindByIDWithPermissions(ctx context.Context, id uint) (*models.User, error) {
	return m.FindByID(ctx, id)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Provider == provider && u.ProviderID == providerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := m.FindByEmail(ctx, email)
	return u != nil, nil
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	u, _ := m.FindByUsername(ctx, username)
	return u != nil, nil
}

func (m *MockUserRepository) List(ctx context.Context, page dto.Pagination) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range m.Users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *MockUserRepository) AssignRole(ctx context.Context, user *models.User, role *models.Role) error {
	u, ok := m.Users[user.ID]
	if !ok {
		return repositories.ErrNoRows
	}
	for _, r := range u.Roles {
		if r.Slug == role.Slug {
			return nil
		}
	}
	u.Roles = append(u.Roles, *role)
	return nil
}

func (m *MockUserRepository) RevokeRole(ctx context.Context, user *models.User, role *models.Role) error {
	u, ok := m.Users[user.ID]
	if !ok {
		return repositories.ErrNoRows
	}
	kept := u.Roles[:0]
	for _, r := range u.Roles {
		if r.Slug != role.Slug {
			kept = append(kept, r)
		}
	}
	u.Roles = kept
	return nil
}

func (m *MockUserRepository) Follow(ctx context.Context, followerID, followingID uint) error {
	key := [2]uint{followerID, followingID}
	if m.Follows[key] {
		return repositories.ErrDuplicate
	}
	m.Follows[key] = true
	return nil
}

func (m *MockUserRepository) Unfollow(ctx context.Context, followerID, followingID uint) error {
	delete(m.Follows, [2]uint{followerID, followingID})
	return nil
}

func (m *MockUserRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return m.Follows[[2]uint{followerID, followingID}], nil
}

func (m *MockUserRepository) Followers(ctx context.Context, userID uint, page dto.Pagination) ([]models.User, int64, error) {
	var out []models.User
	for key := range m.Follows {
		if key[1] == userID {
			if u, ok := m.Users[key[0]]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, int64(len(out)), nil
}

func (m *MockUserRepository) Following(ctx context.Context, userID uint, page dto.Pagination) ([]models.User, int64, error) {
	var out []models.User
	for key := range m.Follows {
		if key[0] == userID {
			if u, ok := m.Users[key[1]]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, int64(len(out)), nil
}

// MockNotificationRepository is an in-memory NotificationRepository.
type MockNotificationRepository struct {
	Notifications map[uint]*models.Notification
	UserRows      []models.UserNotification
	NextID        uint
	NextRowID     uint

	AllUsers        []uint
	RoleUsers       map[uint][]uint
	CategoryAuthors map[uint][]uint
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		Notifications:   make(map[uint]*models.Notification),
		NextID:          1,
		NextRowID:       1,
		RoleUsers:       make(map[uint][]uint),
		CategoryAuthors: make(map[uint][]uint),
	}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.ID = m.NextID
	m.NextID++
	n.CreatedAt = time.Now()
	cp := *n
	m.Notifications[n.ID] = &cp
	return nil
}

func (m *MockNotificationRepository) CreateUserNotifications(ctx context.Context, rows []models.UserNotification) (int, error) {
	inserted := 0
	for _, row := range rows {
		dup := false
		for _, existing := range m.UserRows {
			if existing.NotificationID == row.NotificationID && existing.UserID == row.UserID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		row.ID = m.NextRowID
		m.NextRowID++
		m.UserRows = append(m.UserRows, row)
		inserted++
	}
	return inserted, nil
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, userID uint, onlyUnread bool, page dto.Pagination) ([]models.UserNotification, int64, error) {
	var out []models.UserNotification
	for _, row := range m.UserRows {
		if row.UserID != userID {
			continue
		}
		if onlyUnread && row.IsRead {
			continue
		}
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	for _, row := range m.UserRows {
		if row.UserID == userID && !row.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id uint) error {
	for i := range m.UserRows {
		if m.UserRows[i].ID == id && m.UserRows[i].UserID == userID {
			now := time.Now()
			m.UserRows[i].IsRead = true
			m.UserRows[i].ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNoRows
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	now := time.Now()
	for i := range m.UserRows {
		if m.UserRows[i].UserID == userID && !m.UserRows[i].IsRead {
			m.UserRows[i].IsRead = true
			m.UserRows[i].ReadAt = &now
		}
	}
	return nil
}

func (m *MockNotificationRepository) DeleteForUser(ctx context.Context, userID, id uint) error {
	for i := range m.UserRows {
		if m.UserRows[i].ID == id && m.UserRows[i].UserID == userID {
			m.UserRows = append(m.UserRows[:i], m.UserRows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNoRows
}

func (m *MockNotificationRepository) AllUserIDs(ctx context.Context) ([]uint, error) {
	return m.AllUsers, nil
}

func (m *MockNotificationRepository) UserIDsWithRole(ctx context.Context, roleID uint) ([]uint, error) {
	return m.RoleUsers[roleID], nil
}

func (m *MockNotificationRepository) CategoryAuthorIDs(ctx context.Context, categoryID uint) ([]uint, error) {
	return m.CategoryAuthors[categoryID], nil
}

func (m *MockNotificationRepository) UserExists(ctx context.Context, userID uint) (bool, error) {
	for _, id := range m.AllUsers {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// MockNewsletterRepository is an in-memory NewsletterRepository.
type MockNewsletterRepository struct {
	Subscribers map[uint]*models.NewsletterSubscriber
	NextID      uint
}

func NewMockNewsletterRepository() *MockNewsletterRepository {
	return &MockNewsletterRepository{Subscribers: make(map[uint]*models.NewsletterSubscriber), NextID: 1}
}

func (m *MockNewsletterRepository) Create(ctx context.Context, s *models.NewsletterSubscriber) error {
	for _, existing := range m.Subscribers {
		if existing.Email == s.Email {
			return repositories.ErrDuplicate
		}
	}
	s.ID = m.NextID
	m.NextID++
	cp := *s
	m.Subscribers[s.ID] = &cp
	return nil
}

func (m *MockNewsletterRepository) Update(ctx context.Context, s *models.NewsletterSubscriber) error {
	cp := *s
	m.Subscribers[s.ID] = &cp
	return nil
}

func (m *MockNewsletterRepository) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	for _, s := range m.Subscribers {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockNewsletterRepository) FindByTokenHash(ctx context.Context, hash string) (*models.NewsletterSubscriber, error) {
	for _, s := range m.Subscribers {
		if s.VerificationToken == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockNewsletterRepository) List(ctx context.Context, verifiedOnly bool, page dto.Pagination) ([]models.NewsletterSubscriber, int64, error) {
	var out []models.NewsletterSubscriber
	for _, s := range m.Subscribers {
		if verifiedOnly && !s.IsActive() {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *MockNewsletterRepository) Delete(ctx context.Context, id uint) error {
	if _, ok := m.Subscribers[id]; !ok {
		return repositories.ErrNoRows
	}
	delete(m.Subscribers, id)
	return nil
}

// MockRoleRepository is an in-memory RoleRepository.
type MockRoleRepository struct {
	Roles map[string]*models.Role
}

func NewMockRoleRepository() *MockRoleRepository {
	return &MockRoleRepository{Roles: make(map[string]*models.Role)}
}

func (m *MockRoleRepository) FindBySlug(ctx context.Context, slug string) (*models.Role, error) {
	r, ok := m.Roles[slug]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *MockRoleRepository) List(ctx context.Context) ([]models.Role, error) {
	var out []models.Role
	for _, r := range m.Roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *MockRoleRepository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	seen := map[string]bool{}
	var out []models.Permission
	for _, r := range m.Roles {
		for _, p := range r.Permissions {
			if !seen[p.Slug] {
				seen[p.Slug] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}
