package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/mocks"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/services"
)

// recordingNotifier captures NotifyUser calls without a real notification
// store behind it.
type recordingNotifier struct {
	calls []uint
}

func (r *recordingNotifier) NotifyUser(ctx context.Context, userID uint, title, message, link string, createdBy uint) error {
	r.calls = append(r.calls, userID)
	return nil
}

func newCommentFixture(t *testing.T) (*services.CommentService, *mocks.MockCommentRepository, *mocks.MockArticleRepository, *recordingNotifier, *models.Article) {
	t.Helper()
	comments := mocks.NewMockCommentRepository()
	articles := mocks.NewMockArticleRepository()
	notifier := &recordingNotifier{}
	svc := services.NewCommentService(comments, articles, notifier)
	article := publishedArticle(articles, 1, "commented-on")
	return svc, comments, articles, notifier, article
}

func TestCommentCreateStartsPending(t *testing.T) {
	svc, _, _, _, article := newCommentFixture(t)
	commenter := userWithPerms(2, models.PermCreateComments)

	comment, err := svc.Create(context.Background(), commenter, &dto.CreateCommentRequest{
		ArticleID: article.ID,
		Content:   "Nice post!",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusPending, comment.Status)
	require.NotNil(t, comment.UserID)
	assert.Equal(t, uint(2), *comment.UserID)
}

func TestCommentCreateNotifiesAuthor(t *testing.T) {
	svc, _, _, notifier, article := newCommentFixture(t)
	commenter := userWithPerms(2, models.PermCreateComments)

	_, err := svc.Create(context.Background(), commenter, &dto.CreateCommentRequest{
		ArticleID: article.ID,
		Content:   "Hello",
	})
	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, article.CreatedBy, notifier.calls[0])
}

func TestCommentCreateSkipsSelfNotification(t *testing.T) {
	svc, _, _, notifier, article := newCommentFixture(t)
	author := userWithPerms(article.CreatedBy, models.PermCreateComments)

	_, err := svc.Create(context.Background(), author, &dto.CreateCommentRequest{
		ArticleID: article.ID,
		Content:   "Replying on my own article",
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)
}

func TestCommentCreateSanitizesContent(t *testing.T) {
	svc, _, _, _, article := newCommentFixture(t)
	commenter := userWithPerms(2, models.PermCreateComments)

	comment, err := svc.Create(context.Background(), commenter, &dto.CreateCommentRequest{
		ArticleID: article.ID,
		Content:   `hello <script>alert(1)</script>world`,
	})
	require.NoError(t, err)
	assert.NotContains(t, comment.Content, "<script>")
	assert.Contains(t, comment.Content, "hello")
}

func TestCommentCreateOnHiddenArticle(t *testing.T) {
	svc, _, articles, _, _ := newCommentFixture(t)
	draft := &models.Article{Slug: "draft-no-comments", Title: "...", ContentMarkdown: "x", Status: models.ArticleStatusDraft, CreatedBy: 1}
	articles.Create(context.Background(), draft)
	commenter := userWithPerms(2, models.PermCreateComments)

	_, err := svc.Create(context.Background(), commenter, &dto.CreateCommentRequest{
		ArticleID: draft.ID,
		Content:   "anyone home?",
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCommentReplyMustShareArticle(t *testing.T) {
	svc, comments, articles, _, article := newCommentFixture(t)
	other := publishedArticle(articles, 1, "other-article")
	userID := uint(3)
	foreign := &models.Comment{ArticleID: other.ID, UserID: &userID, Content: "elsewhere", Status: models.CommentStatusApproved}
	comments.Create(context.Background(), foreign)

	commenter := userWithPerms(2, models.PermCreateComments)
	_, err := svc.Create(context.Background(), commenter, &dto.CreateCommentRequest{
		ArticleID:       article.ID,
		ParentCommentID: &foreign.ID,
		Content:         "cross-thread reply",
	})
	verr, ok := services.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "parent_comment_id")
}

func TestCommentReplyToReplyAttachesToParent(t *testing.T) {
	svc, comments, _, _, article := newCommentFixture(t)
	userID := uint(3)
	top := &models.Comment{ArticleID: article.ID, UserID: &userID, Content: "top", Status: models.CommentStatusApproved}
	comments.Create(context.Background(), top)
	reply := &models.Comment{ArticleID: article.ID, UserID: &userID, ParentCommentID: &top.ID, Content: "reply", Status: models.CommentStatusApproved}
	comments.Create(context.Background(), reply)

	commenter := userWithPerms(2, models.PermCreateComments)
	nested, err := svc.Create(context.Background(), commenter, &dto.CreateCommentRequest{
		ArticleID:       article.ID,
		ParentCommentID: &reply.ID,
		Content:         "reply to the reply",
	})
	require.NoError(t, err)
	require.NotNil(t, nested.ParentCommentID)
	assert.Equal(t, top.ID, *nested.ParentCommentID)
}

func TestCommentUpdateKeepsModerationStatus(t *testing.T) {
	svc, comments, _, _, article := newCommentFixture(t)
	userID := uint(2)
	approver := uint(9)
	existing := &models.Comment{ArticleID: article.ID, UserID: &userID, Content: "original", Status: models.CommentStatusApproved, ApprovedBy: &approver}
	comments.Create(context.Background(), existing)

	owner := userWithPerms(2, models.PermEditComments)
	updated, err := svc.Update(context.Background(), owner, existing.ID, &dto.UpdateCommentRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, models.CommentStatusApproved, updated.Status)
}

func TestCommentUpdateForbiddenForStranger(t *testing.T) {
	svc, comments, _, _, article := newCommentFixture(t)
	userID := uint(2)
	existing := &models.Comment{ArticleID: article.ID, UserID: &userID, Content: "mine", Status: models.CommentStatusPending}
	comments.Create(context.Background(), existing)

	stranger := userWithPerms(8, models.PermEditComments)
	_, err := svc.Update(context.Background(), stranger, existing.ID, &dto.UpdateCommentRequest{Content: "stolen"})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestCommentModerateApprovedRecordsModerator(t *testing.T) {
	svc, comments, _, _, article := newCommentFixture(t)
	userID := uint(2)
	existing := &models.Comment{ArticleID: article.ID, UserID: &userID, Content: "pending", Status: models.CommentStatusPending}
	comments.Create(context.Background(), existing)

	moderator := userWithPerms(9, models.PermModerateComments)
	approved, err := svc.Moderate(context.Background(), moderator, existing.ID, &dto.ModerateCommentRequest{Status: models.CommentStatusApproved})
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, uint(9), *approved.ApprovedBy)

	// Demoting clears the approver again.
	rejected, err := svc.Moderate(context.Background(), moderator, existing.ID, &dto.ModerateCommentRequest{Status: models.CommentStatusSpam})
	require.NoError(t, err)
	assert.Nil(t, rejected.ApprovedBy)
}

func TestCommentDeleteRecordsReasonAndActor(t *testing.T) {
	svc, comments, _, _, article := newCommentFixture(t)
	userID := uint(2)
	existing := &models.Comment{ArticleID: article.ID, UserID: &userID, Content: "off topic", Status: models.CommentStatusApproved}
	comments.Create(context.Background(), existing)

	moderator := userWithPerms(9, models.PermDeleteOthersComments)
	require.NoError(t, svc.Delete(context.Background(), moderator, existing.ID, "off topic"))

	stored := comments.Comments[existing.ID]
	assert.True(t, stored.IsDeleted())
	assert.Equal(t, "off topic", stored.DeletedReason)
	require.NotNil(t, stored.DeletedBy)
	assert.Equal(t, uint(9), *stored.DeletedBy)
}

func TestCommentDeleteForbiddenWithoutPermission(t *testing.T) {
	svc, comments, _, _, article := newCommentFixture(t)
	userID := uint(2)
	existing := &models.Comment{ArticleID: article.ID, UserID: &userID, Content: "keep me", Status: models.CommentStatusApproved}
	comments.Create(context.Background(), existing)

	stranger := userWithPerms(8, models.PermDeleteComments)
	err := svc.Delete(context.Background(), stranger, existing.ID, "")
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestCommentDeletedParentTombstonesInListing(t *testing.T) {
	svc, comments, _, _, article := newCommentFixture(t)
	authorID := uint(2)
	parent := &models.Comment{ArticleID: article.ID, UserID: &authorID, Content: "hot take", Status: models.CommentStatusApproved}
	comments.Create(context.Background(), parent)
	replierID := uint(3)
	reply := &models.Comment{ArticleID: article.ID, UserID: &replierID, ParentCommentID: &parent.ID, Content: "agreed", Status: models.CommentStatusApproved}
	comments.Create(context.Background(), reply)

	moderator := userWithPerms(9, models.PermDeleteOthersComments)
	require.NoError(t, svc.Delete(context.Background(), moderator, parent.ID, "flame bait"))

	listed, total, err := svc.ListByArticle(context.Background(), article.ID, dto.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)

	// The parent keeps its slot as a tombstone with nothing to attribute.
	assert.Equal(t, "[removed]", listed[0].Content)
	assert.Nil(t, listed[0].UserID)
	assert.Empty(t, listed[0].DeletedReason)

	// Its surviving reply is still attached and intact.
	require.Len(t, listed[0].Replies, 1)
	assert.Equal(t, "agreed", listed[0].Replies[0].Content)
}

func TestCommentReportUnknown(t *testing.T) {
	svc, _, _, _, _ := newCommentFixture(t)
	err := svc.Report(context.Background(), 404, &dto.ReportCommentRequest{Reason: "spam"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCommentListForModerationValidatesStatus(t *testing.T) {
	svc, _, _, _, _ := newCommentFixture(t)
	_, _, err := svc.ListForModeration(context.Background(), "bogus", false, dto.Pagination{Page: 1, PageSize: 20})
	_, ok := services.AsValidationError(err)
	assert.True(t, ok)
}

func TestCommentListByArticleHiddenArticle(t *testing.T) {
	svc, _, _, _, _ := newCommentFixture(t)
	_, _, err := svc.ListByArticle(context.Background(), 999, dto.Pagination{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
