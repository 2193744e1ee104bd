package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/mocks"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/services"
)

func userWithPerms(id uint, perms ...string) *models.User {
	role := models.Role{Slug: "test-role"}
	for _, p := range perms {
		role.Permissions = append(role.Permissions, models.Permission{Slug: p})
	}
	return &models.User{
		ID:       id,
		Name:     "Test User",
		Username: "testuser",
		Email:    "test@example.com",
		Roles:    []models.Role{role},
	}
}

func publishedArticle(repo *mocks.MockArticleRepository, authorID uint, slug string) *models.Article {
	past := time.Now().Add(-time.Hour)
	article := &models.Article{
		Slug:            slug,
		Title:           "Published",
		ContentMarkdown: "body",
		Status:          models.ArticleStatusPublished,
		PublishedAt:     &past,
		CreatedBy:       authorID,
	}
	repo.Create(context.Background(), article)
	return article
}

func TestArticleCreateDefaultsToDraft(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermCreateArticles)

	article, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Hello World",
		ContentMarkdown: "# Hello",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusDraft, article.Status)
	assert.Equal(t, "hello-world", article.Slug)
	assert.Equal(t, uint(1), article.CreatedBy)
	assert.Nil(t, article.PublishedAt)
	assert.Contains(t, article.ContentHTML, "<h1")
}

func TestArticleCreateIgnoresPublishWithoutPermission(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermCreateArticles)

	past := time.Now().Add(-time.Minute)
	article, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Sneaky Publish",
		ContentMarkdown: "body",
		PublishedAt:     dto.Some(past),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusDraft, article.Status)
	assert.Nil(t, article.ApprovedBy)
}

func TestArticleCreatePublishesForPublisher(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	editor := userWithPerms(2, models.PermCreateArticles, models.PermPublishArticles)

	past := time.Now().Add(-time.Minute)
	article, err := svc.Create(context.Background(), editor, &dto.CreateArticleRequest{
		Title:           "Straight To Published",
		ContentMarkdown: "body",
		PublishedAt:     dto.Some(past),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusPublished, article.Status)
	require.NotNil(t, article.ApprovedBy)
	assert.Equal(t, uint(2), *article.ApprovedBy)
}

func TestArticleCreateSchedulesFuturePublish(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	editor := userWithPerms(2, models.PermCreateArticles, models.PermPublishArticles)

	future := time.Now().Add(24 * time.Hour)
	article, err := svc.Create(context.Background(), editor, &dto.CreateArticleRequest{
		Title:           "Tomorrow",
		ContentMarkdown: "body",
		PublishedAt:     dto.Some(future),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusScheduled, article.Status)
}

func TestArticleCreateValidation(t *testing.T) {
	svc := services.NewArticleService(mocks.NewMockArticleRepository())
	author := userWithPerms(1, models.PermCreateArticles)

	_, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{})
	verr, ok := services.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "content_markdown")
}

func TestArticleCreateDeduplicatesSlug(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermCreateArticles)

	first, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Same Title",
		ContentMarkdown: "body",
	})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Same Title",
		ContentMarkdown: "body",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "same-title")
}

func TestArticleUpdateForbiddenForOtherAuthor(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "not-yours")
	stranger := userWithPerms(9, models.PermEditArticles)

	_, err := svc.Update(context.Background(), stranger, article.ID, &dto.UpdateArticleRequest{
		Title: dto.Some("Hijacked"),
	})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestArticleUpdateAllowedForEditorOfOthers(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "editable")
	editor := userWithPerms(9, models.PermEditOthersArticles)

	updated, err := svc.Update(context.Background(), editor, article.ID, &dto.UpdateArticleRequest{
		Title: dto.Some("Edited By Staff"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited By Staff", updated.Title)
}

func TestArticleUpdateSlugConflict(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	publishedArticle(repo, 1, "taken")
	article := publishedArticle(repo, 1, "mine")
	author := userWithPerms(1, models.PermEditArticles)

	_, err := svc.Update(context.Background(), author, article.ID, &dto.UpdateArticleRequest{
		Slug: dto.Some("taken"),
	})
	verr, ok := services.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "slug")
}

func TestArticleUpdateClearingPublishedAtRevertsToDraft(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "unpublish-me")
	editor := userWithPerms(1, models.PermEditArticles, models.PermPublishArticles)

	updated, err := svc.Update(context.Background(), editor, article.ID, &dto.UpdateArticleRequest{
		PublishedAt: dto.Null[time.Time](),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusDraft, updated.Status)
	assert.Nil(t, updated.PublishedAt)
}

func TestArticleSubmitForReviewOnlyFromDraft(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermCreateArticles, models.PermEditArticles)

	draft, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Needs Review",
		ContentMarkdown: "body",
	})
	require.NoError(t, err)

	inReview, err := svc.SubmitForReview(context.Background(), author, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusReview, inReview.Status)

	_, err = svc.SubmitForReview(context.Background(), author, draft.ID)
	_, ok := services.AsValidationError(err)
	assert.True(t, ok, "second submit should fail validation")
}

func TestArticleApprovePublishesImmediately(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermCreateArticles)
	editor := userWithPerms(5, models.PermPublishArticles)

	draft, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Approve Me",
		ContentMarkdown: "body",
	})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), editor, draft.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusPublished, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, uint(5), *approved.ApprovedBy)
	require.NotNil(t, approved.PublishedAt)
}

func TestArticleApproveWithFutureDateSchedules(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermCreateArticles)
	editor := userWithPerms(5, models.PermPublishArticles)

	draft, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Schedule Me",
		ContentMarkdown: "body",
	})
	require.NoError(t, err)

	future := time.Now().Add(48 * time.Hour)
	approved, err := svc.Approve(context.Background(), editor, draft.ID, &future)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusScheduled, approved.Status)
}

func TestArticleApproveRejectsPublished(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "already-out")
	editor := userWithPerms(5, models.PermPublishArticles)

	_, err := svc.Approve(context.Background(), editor, article.ID, nil)
	_, ok := services.AsValidationError(err)
	assert.True(t, ok)
}

func TestArticleArchiveRequiresPublished(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermCreateArticles, models.PermEditArticles)

	draft, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Still Draft",
		ContentMarkdown: "body",
	})
	require.NoError(t, err)

	_, err = svc.Archive(context.Background(), author, draft.ID)
	_, ok := services.AsValidationError(err)
	assert.True(t, ok)

	article := publishedArticle(repo, 1, "retire-me")
	archived, err := svc.Archive(context.Background(), author, article.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusArchived, archived.Status)
}

func TestArticleTrashAndRestore(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermDeleteArticles)
	article := publishedArticle(repo, 1, "bin-me")

	trashed, err := svc.Trash(context.Background(), author, article.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusTrashed, trashed.Status)

	restored, err := svc.Restore(context.Background(), author, article.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusDraft, restored.Status)

	// Restore is only valid from the trash.
	_, err = svc.Restore(context.Background(), author, article.ID)
	_, ok := services.AsValidationError(err)
	assert.True(t, ok)
}

func TestArticleReportIncrementsCounter(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "spammy")

	require.NoError(t, svc.Report(context.Background(), article.ID, &dto.ReportArticleRequest{Reason: "spam"}))
	require.NoError(t, svc.Report(context.Background(), article.ID, &dto.ReportArticleRequest{Reason: "abuse"}))

	stored := repo.Articles[article.ID]
	assert.Equal(t, int64(2), stored.ReportCount)
	assert.Equal(t, "abuse", stored.ReportReason)
	assert.NotNil(t, stored.LastReportedAt)
}

func TestArticleReportUnknownArticle(t *testing.T) {
	svc := services.NewArticleService(mocks.NewMockArticleRepository())
	err := svc.Report(context.Background(), 42, &dto.ReportArticleRequest{Reason: "spam"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestArticleReactReplacesPreviousReaction(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "likeable")
	userID := uint(7)

	likes, dislikes, err := svc.React(context.Background(), article.ID, &userID, "", models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
	assert.Equal(t, int64(0), dislikes)

	likes, dislikes, err = svc.React(context.Background(), article.ID, &userID, "", models.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(1), dislikes)
	assert.Len(t, repo.Likes, 1)
}

func TestArticleReactAnonymousByIP(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "anon-like")

	likes, _, err := svc.React(context.Background(), article.ID, nil, "203.0.113.9", models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	// Different IP counts separately.
	likes, _, err = svc.React(context.Background(), article.ID, nil, "203.0.113.10", models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes)
}

func TestArticleReactRejectsUnknownType(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "strict")
	userID := uint(7)

	_, _, err := svc.React(context.Background(), article.ID, &userID, "", "love")
	_, ok := services.AsValidationError(err)
	assert.True(t, ok)
}

func TestArticleReactHiddenArticle(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	draft := &models.Article{Slug: "hidden", Title: "...", ContentMarkdown: "x", Status: models.ArticleStatusDraft, CreatedBy: 1}
	repo.Create(context.Background(), draft)
	userID := uint(7)

	_, _, err := svc.React(context.Background(), draft.ID, &userID, "", models.ReactionLike)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestArticleRemoveReaction(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "unlikeable")
	userID := uint(7)

	_, _, err := svc.React(context.Background(), article.ID, &userID, "", models.ReactionLike)
	require.NoError(t, err)
	likes, _, err := svc.RemoveReaction(context.Background(), article.ID, &userID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
}

func TestArticleGetPublicByIDAndSlug(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "readable")

	byID, err := svc.GetPublic(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, article.ID, byID.ID)

	bySlug, err := svc.GetPublic(context.Background(), "readable")
	require.NoError(t, err)
	assert.Equal(t, article.ID, bySlug.ID)

	// Two reads bumped the view counter twice.
	assert.Equal(t, int64(2), repo.Articles[article.ID].ViewCount)
}

func TestArticleGetPublicHidesNonPublished(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	future := time.Now().Add(time.Hour)
	scheduled := &models.Article{
		Slug: "later", Title: "...", ContentMarkdown: "x",
		Status: models.ArticleStatusScheduled, PublishedAt: &future, CreatedBy: 1,
	}
	repo.Create(context.Background(), scheduled)

	_, err := svc.GetPublic(context.Background(), "later")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestArticleScheduledBecomesVisibleWhenDue(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	// The row still says scheduled; only the clock has moved past published_at.
	past := time.Now().Add(-time.Minute)
	due := &models.Article{
		Slug: "on-time", Title: "...", ContentMarkdown: "x",
		Status: models.ArticleStatusScheduled, PublishedAt: &past, CreatedBy: 1,
	}
	repo.Create(context.Background(), due)

	got, err := svc.GetPublic(context.Background(), "on-time")
	require.NoError(t, err)
	assert.Equal(t, due.ID, got.ID)

	listed, total, err := svc.ListPublic(context.Background(), dto.ArticleListFilter{}, dto.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, "on-time", listed[0].Slug)
}

func TestArticleSetFeaturedStampsTimestamp(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := services.NewArticleService(repo)
	article := publishedArticle(repo, 1, "front-page")

	featured, err := svc.SetFeatured(context.Background(), article.ID, true)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)
	require.NotNil(t, featured.FeaturedAt)

	unfeatured, err := svc.SetFeatured(context.Background(), article.ID, false)
	require.NoError(t, err)
	assert.False(t, unfeatured.IsFeatured)
	assert.Nil(t, unfeatured.FeaturedAt)
}

func TestArticleCreatePropagatesRepoError(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	repo.SaveError = errors.New("disk full")
	svc := services.NewArticleService(repo)
	author := userWithPerms(1, models.PermCreateArticles)

	_, err := svc.Create(context.Background(), author, &dto.CreateArticleRequest{
		Title:           "Doomed",
		ContentMarkdown: "body",
	})
	assert.EqualError(t, err, "disk full")
}
