package services_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubbi/blogapi/config"
	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/mocks"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// fakeMailer records outgoing mail and extracts the verification token from
// the mail body.
type fakeMailer struct {
	sent []string
	body string
	err  error
}

func (f *fakeMailer) send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	f.body = body
	return nil
}

func (f *fakeMailer) lastToken(t *testing.T) string {
	t.Helper()
	idx := strings.Index(f.body, "token=")
	require.GreaterOrEqual(t, idx, 0, "mail body should contain a token link")
	raw := f.body[idx+len("token="):]
	if end := strings.IndexAny(raw, "\r\n "); end >= 0 {
		raw = raw[:end]
	}
	token, err := url.QueryUnescape(raw)
	require.NoError(t, err)
	return token
}

func newNewsletterFixture(t *testing.T) (*services.NewsletterService, *mocks.MockNewsletterRepository, *fakeMailer) {
	t.Helper()
	config.SetForTesting(config.AppConfig{BaseURL: "http://localhost:8080", JWTSecret: "test-secret"})
	repo := mocks.NewMockNewsletterRepository()
	mailer := &fakeMailer{}
	return services.NewNewsletterService(repo, mailer.send), repo, mailer
}

func TestNewsletterSubscribeSendsVerificationMail(t *testing.T) {
	svc, repo, mailer := newNewsletterFixture(t)

	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "reader@example.com", mailer.sent[0])

	sub, err := repo.FindByEmail(context.Background(), "reader@example.com")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.False(t, sub.IsVerified)

	// Only the hash lands in storage, never the plaintext token.
	token := mailer.lastToken(t)
	assert.NotEqual(t, token, sub.VerificationToken)
	assert.Equal(t, utils.HashToken(token), sub.VerificationToken)
}

func TestNewsletterDoubleOptIn(t *testing.T) {
	svc, repo, mailer := newNewsletterFixture(t)

	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	token := mailer.lastToken(t)

	require.NoError(t, svc.Verify(context.Background(), token))

	sub, _ := repo.FindByEmail(context.Background(), "reader@example.com")
	assert.True(t, sub.IsVerified)
	assert.True(t, sub.IsActive())

	// Verifying again is a no-op, not an error.
	assert.NoError(t, svc.Verify(context.Background(), token))
}

func TestNewsletterVerifyBadToken(t *testing.T) {
	svc, _, _ := newNewsletterFixture(t)
	err := svc.Verify(context.Background(), "nonsense")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestNewsletterSubscribeActiveIsSilent(t *testing.T) {
	svc, _, mailer := newNewsletterFixture(t)

	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	token := mailer.lastToken(t)
	require.NoError(t, svc.Verify(context.Background(), token))

	// A verified address re-subscribing gets the same 200 and no new mail.
	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	assert.Len(t, mailer.sent, 1)
}

func TestNewsletterSubscribeRotatesPendingToken(t *testing.T) {
	svc, repo, mailer := newNewsletterFixture(t)

	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	first, _ := repo.FindByEmail(context.Background(), "reader@example.com")
	firstToken := mailer.lastToken(t)

	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	second, _ := repo.FindByEmail(context.Background(), "reader@example.com")

	assert.NotEqual(t, first.VerificationToken, second.VerificationToken)

	// The first token is dead after rotation.
	err := svc.Verify(context.Background(), firstToken)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestNewsletterUnsubscribe(t *testing.T) {
	svc, repo, mailer := newNewsletterFixture(t)

	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	token := mailer.lastToken(t)
	require.NoError(t, svc.Verify(context.Background(), token))

	require.NoError(t, svc.Unsubscribe(context.Background(), token))
	sub, _ := repo.FindByEmail(context.Background(), "reader@example.com")
	assert.NotNil(t, sub.UnsubscribedAt)
	assert.False(t, sub.IsActive())

	// Idempotent.
	assert.NoError(t, svc.Unsubscribe(context.Background(), token))
}

func TestNewsletterResubscribeAfterUnsubscribe(t *testing.T) {
	svc, repo, mailer := newNewsletterFixture(t)

	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	token := mailer.lastToken(t)
	require.NoError(t, svc.Verify(context.Background(), token))
	require.NoError(t, svc.Unsubscribe(context.Background(), token))

	// Fresh opt-in cycle: new token, verification reset.
	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	sub, _ := repo.FindByEmail(context.Background(), "reader@example.com")
	assert.False(t, sub.IsVerified)
	assert.Nil(t, sub.UnsubscribedAt)
	assert.Len(t, mailer.sent, 2)
}

func TestNewsletterSubscribeSurvivesMailFailure(t *testing.T) {
	config.SetForTesting(config.AppConfig{BaseURL: "http://localhost:8080", JWTSecret: "test-secret"})
	repo := mocks.NewMockNewsletterRepository()
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := services.NewNewsletterService(repo, mailer.send)

	// Mail failure is logged, not surfaced; the row still exists for retry.
	require.NoError(t, svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "reader@example.com"}))
	sub, _ := repo.FindByEmail(context.Background(), "reader@example.com")
	assert.NotNil(t, sub)
}

func TestNewsletterSubscribeValidatesEmail(t *testing.T) {
	svc, _, _ := newNewsletterFixture(t)
	err := svc.Subscribe(context.Background(), &dto.SubscribeRequest{Email: "not-an-email"})
	verr, ok := services.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "email")
}

func TestNewsletterRemoveUnknown(t *testing.T) {
	svc, _, _ := newNewsletterFixture(t)
	err := svc.Remove(context.Background(), 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
