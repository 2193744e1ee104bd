package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mubbi/blogapi/config"
	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

// NewsletterService implements the double-opt-in subscription flow. Only the
// SHA-256 hash of the verification token is persisted; the plaintext token
// travels in the verification mail and is never shown again.
type NewsletterService struct {
	subscribers repositories.NewsletterRepository
	sendMail    func(to, subject, body string) error
}

// NewNewsletterService creates a NewsletterService. sendMail may be nil, in
// which case the SMTP mailer from utils is used.
func NewNewsletterService(subscribers repositories.NewsletterRepository, sendMail func(to, subject, body string) error) *NewsletterService {
	if sendMail == nil {
		sendMail = utils.SendMail
	}
	return &NewsletterService{subscribers: subscribers, sendMail: sendMail}
}

// Subscribe starts or restarts the opt-in flow for an email address. The
// response is identical whether the address was new, pending, or already
// verified, so the endpoint does not leak subscription state.
func (s *NewsletterService) Subscribe(ctx context.Context, req *dto.SubscribeRequest) error {
	if errs := req.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	existing, err := s.subscribers.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if existing != nil && existing.IsActive() {
		return nil
	}

	token, hash := utils.NewVerificationToken()
	if existing != nil {
		// Pending or unsubscribed: rotate the token and start over.
		existing.VerificationToken = hash
		existing.IsVerified = false
		existing.UnsubscribedAt = nil
		existing.SubscribedAt = time.Now()
		if err := s.subscribers.Update(ctx, existing); err != nil {
			return err
		}
	} else {
		sub := &models.NewsletterSubscriber{
			Email:             req.Email,
			VerificationToken: hash,
			SubscribedAt:      time.Now(),
		}
		if err := s.subscribers.Create(ctx, sub); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil
			}
			return err
		}
	}

	link := fmt.Sprintf("%s/api/v1/newsletter/verify?token=%s", config.Get().BaseURL, token)
	body := fmt.Sprintf("Confirm your subscription by opening:\r\n\r\n%s\r\n\r\nIf you did not request this, ignore this mail.", link)
	if err := s.sendMail(req.Email, "Confirm your newsletter subscription", body); err != nil {
		utils.Logger.Warn("newsletter verification mail failed", zap.String("email", req.Email), zap.Error(err))
	}
	return nil
}

// Verify completes the opt-in with the mailed token.
func (s *NewsletterService) Verify(ctx context.Context, token string) error {
	sub, err := s.findByToken(ctx, token)
	if err != nil {
		return err
	}
	if sub.IsVerified {
		return nil
	}
	sub.IsVerified = true
	sub.UnsubscribedAt = nil
	return s.subscribers.Update(ctx, sub)
}

// Unsubscribe marks the subscriber inactive using the same token that
// verified them. The row stays so the address's opt-out survives resubscribe
// races.
func (s *NewsletterService) Unsubscribe(ctx context.Context, token string) error {
	sub, err := s.findByToken(ctx, token)
	if err != nil {
		return err
	}
	if sub.UnsubscribedAt != nil {
		return nil
	}
	now := time.Now()
	sub.UnsubscribedAt = &now
	return s.subscribers.Update(ctx, sub)
}

// findByToken resolves a mailed token to its subscriber row. Lookup goes
// through the stored hash; the match is then re-checked with a constant-time
// compare so the token path never leans on string equality.
func (s *NewsletterService) findByToken(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	if token == "" {
		return nil, NewValidationError("token", "token is required")
	}
	sub, err := s.subscribers.FindByTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		return nil, err
	}
	if sub == nil || !utils.TokenMatches(token, sub.VerificationToken) {
		return nil, ErrNotFound
	}
	return sub, nil
}

// List returns subscribers for admin screens.
func (s *NewsletterService) List(ctx context.Context, verifiedOnly bool, page dto.Pagination) ([]models.NewsletterSubscriber, int64, error) {
	return s.subscribers.List(ctx, verifiedOnly, page)
}

// Remove deletes a subscriber row entirely.
func (s *NewsletterService) Remove(ctx context.Context, id uint) error {
	err := s.subscribers.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
