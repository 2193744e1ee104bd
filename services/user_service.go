package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/utils"
)

// UserService implements profile management, role assignment, and the follow
// graph.
type UserService struct {
	users repositories.UserRepository
	roles repositories.RoleRepository
}

// NewUserService creates a UserService.
func NewUserService(users repositories.UserRepository, roles repositories.RoleRepository) *UserService {
	return &UserService{users: users, roles: roles}
}

// UpdateProfile applies a presence-aware partial update to the actor's own
// profile.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, req *dto.UpdateProfileRequest) (*models.User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if name, ok := req.Name.Get(); ok {
		actor.Name = strings.TrimSpace(name)
	}
	if username, ok := req.Username.Get(); ok {
		username = strings.TrimSpace(strings.ToLower(username))
		if username != actor.Username {
			taken, err := s.users.UsernameExists(ctx, username)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, NewValidationError("username", "username is already taken")
			}
			actor.Username = username
		}
	}
	if v, ok := req.AvatarURL.Get(); ok {
		actor.AvatarURL = v
	} else if req.AvatarURL.ShouldClear() {
		actor.AvatarURL = ""
	}
	if v, ok := req.Bio.Get(); ok {
		actor.Bio = v
	} else if req.Bio.ShouldClear() {
		actor.Bio = ""
	}
	if v, ok := req.Website.Get(); ok {
		actor.Website = v
	} else if req.Website.ShouldClear() {
		actor.Website = ""
	}
	if password, ok := req.Password.Get(); ok {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		actor.PasswordHash = hash
	}

	if err := s.users.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// GetPublicProfile returns a user's public view by username.
func (s *UserService) GetPublicProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsSuspended() {
		return nil, ErrNotFound
	}
	return user, nil
}

// GetPublicProfileByID returns a user's public view by numeric ID.
func (s *UserService) GetPublicProfileByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsSuspended() {
		return nil, ErrNotFound
	}
	return user, nil
}

// List returns users for admin screens.
func (s *UserService) List(ctx context.Context, page dto.Pagination) ([]models.User, int64, error) {
	return s.users.List(ctx, page)
}

// SetSuspension bans or unbans (kind "ban"), blocks or unblocks (kind
// "block") a user. Suspending yourself is rejected.
func (s *UserService) SetSuspension(ctx context.Context, actor *models.User, userID uint, kind string, suspended bool) (*models.User, error) {
	if actor.ID == userID {
		return nil, ErrForbidden
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	switch kind {
	case "ban":
		if suspended {
			user.BannedAt = &now
		} else {
			user.BannedAt = nil
		}
	case "block":
		if suspended {
			user.BlockedAt = &now
		} else {
			user.BlockedAt = nil
		}
	default:
		return nil, NewValidationError("kind", "kind must be ban or block")
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AssignRole attaches a role to a user by slug.
func (s *UserService) AssignRole(ctx context.Context, userID uint, roleSlug string) (*models.User, error) {
	user, role, err := s.userAndRole(ctx, userID, roleSlug)
	if err != nil {
		return nil, err
	}
	if err := s.users.AssignRole(ctx, user, role); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// RevokeRole detaches a role from a user by slug.
func (s *UserService) RevokeRole(ctx context.Context, userID uint, roleSlug string) (*models.User, error) {
	user, role, err := s.userAndRole(ctx, userID, roleSlug)
	if err != nil {
		return nil, err
	}
	if err := s.users.RevokeRole(ctx, user, role); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) userAndRole(ctx context.Context, userID uint, roleSlug string) (*models.User, *models.Role, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrNotFound
	}
	role, err := s.roles.FindBySlug(ctx, roleSlug)
	if err != nil {
		return nil, nil, err
	}
	if role == nil {
		return nil, nil, NewValidationError("role_slug", "unknown role")
	}
	return user, role, nil
}

// Follow records actor following userID. Following yourself is forbidden;
// following twice is a no-op.
func (s *UserService) Follow(ctx context.Context, actor *models.User, userID uint) error {
	if actor.ID == userID {
		return ErrForbidden
	}
	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	err = s.users.Follow(ctx, actor.ID, userID)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil
	}
	return err
}

// Unfollow removes the follow edge if present. Unfollowing someone you do
// not follow is a no-op; unfollowing yourself is forbidden like Follow.
func (s *UserService) Unfollow(ctx context.Context, actor *models.User, userID uint) error {
	if actor.ID == userID {
		return ErrForbidden
	}
	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	return s.users.Unfollow(ctx, actor.ID, userID)
}

// Followers lists who follows userID.
func (s *UserService) Followers(ctx context.Context, userID uint, page dto.Pagination) ([]models.User, int64, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.users.Followers(ctx, userID, page)
}

// Following lists who userID follows.
func (s *UserService) Following(ctx context.Context, userID uint, page dto.Pagination) ([]models.User, int64, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.users.Following(ctx, userID, page)
}

// IsFollowing reports whether followerID follows followingID.
func (s *UserService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.users.IsFollowing(ctx, followerID, followingID)
}

func (s *UserService) requireUser(ctx context.Context, userID uint) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return nil
}
