package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

// NotificationService creates notifications and materializes the per-user
// fan-out rows at creation time.
type NotificationService struct {
	notifications repositories.NotificationRepository
	roles         repositories.RoleRepository
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(notifications repositories.NotificationRepository, roles repositories.RoleRepository) *NotificationService {
	return &NotificationService{notifications: notifications, roles: roles}
}

// Create stores the notification and fans it out to the resolved audience.
// Returns the notification and the number of recipients reached. An audience
// that resolves to nobody is not an error; the source row still exists.
func (s *NotificationService) Create(ctx context.Context, actor *models.User, req *dto.CreateNotificationRequest) (*models.Notification, int, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, 0, &ValidationError{Fields: errs}
	}

	recipients, err := s.resolveAudience(ctx, req.AudienceType, req.AudienceID)
	if err != nil {
		return nil, 0, err
	}

	n := &models.Notification{
		Title:        req.Title,
		Message:      req.Message,
		Link:         req.Link,
		AudienceType: req.AudienceType,
		AudienceID:   req.AudienceID,
		CreatedBy:    actor.ID,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, 0, err
	}

	rows := make([]models.UserNotification, 0, len(recipients))
	for _, uid := range recipients {
		rows = append(rows, models.UserNotification{NotificationID: n.ID, UserID: uid})
	}
	delivered, err := s.notifications.CreateUserNotifications(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	utils.Logger.Info("notification fan-out",
		zap.Uint("notification_id", n.ID),
		zap.String("audience", n.AudienceType),
		zap.Int("recipients", delivered))
	return n, delivered, nil
}

// NotifyUser delivers a single-recipient notification. Used by other
// services for event-driven notices such as comment replies.
func (s *NotificationService) NotifyUser(ctx context.Context, userID uint, title, message, link string, createdBy uint) error {
	n := &models.Notification{
		Title:        title,
		Message:      message,
		Link:         link,
		AudienceType: models.AudienceUser,
		AudienceID:   &userID,
		CreatedBy:    createdBy,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return err
	}
	_, err := s.notifications.CreateUserNotifications(ctx, []models.UserNotification{
		{NotificationID: n.ID, UserID: userID},
	})
	return err
}

// ListForUser returns the caller's notifications, optionally unread only.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, onlyUnread bool, page dto.Pagination) ([]models.UserNotification, int64, error) {
	return s.notifications.ListForUser(ctx, userID, onlyUnread, page)
}

// UnreadCount returns the caller's unread notification count.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	err := s.notifications.MarkRead(ctx, userID, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// MarkAllRead marks all of the caller's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// Delete removes one of the caller's notification rows. Other recipients of
// the same notification are unaffected.
func (s *NotificationService) Delete(ctx context.Context, userID, id uint) error {
	err := s.notifications.DeleteForUser(ctx, userID, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *NotificationService) resolveAudience(ctx context.Context, audienceType string, audienceID *uint) ([]uint, error) {
	switch audienceType {
	case models.AudienceAll:
		return s.notifications.AllUserIDs(ctx)
	case models.AudienceUser:
		exists, err := s.notifications.UserExists(ctx, *audienceID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
		return []uint{*audienceID}, nil
	case models.AudienceRole:
		return s.notifications.UserIDsWithRole(ctx, *audienceID)
	case models.AudienceCategory:
		return s.notifications.CategoryAuthorIDs(ctx, *audienceID)
	}
	return nil, NewValidationError("audience_type", "unknown audience type")
}
