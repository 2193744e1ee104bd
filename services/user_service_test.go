package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/mocks"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

func newUserFixture(t *testing.T) (*services.UserService, *mocks.MockUserRepository, *mocks.MockRoleRepository) {
	t.Helper()
	users := mocks.NewMockUserRepository()
	roles := mocks.NewMockRoleRepository()
	roles.Roles[models.RoleAuthor] = &models.Role{ID: 3, Name: "Author", Slug: models.RoleAuthor}
	return services.NewUserService(users, roles), users, roles
}

func seedUser(users *mocks.MockUserRepository, name, username, email string) *models.User {
	u := &models.User{Name: name, Username: username, Email: email}
	users.Create(context.Background(), u)
	return u
}

func TestUpdateProfileChangesUsername(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	actor := seedUser(users, "Alice", "alice", "alice@example.com")

	updated, err := svc.UpdateProfile(context.Background(), actor, &dto.UpdateProfileRequest{
		Username: dto.Some("Alice2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
}

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	seedUser(users, "Bob", "bob", "bob@example.com")
	actor := seedUser(users, "Alice", "alice", "alice@example.com")

	_, err := svc.UpdateProfile(context.Background(), actor, &dto.UpdateProfileRequest{
		Username: dto.Some("bob"),
	})
	verr, ok := services.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "username")
}

func TestUpdateProfileHashesPassword(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	actor := seedUser(users, "Alice", "alice", "alice@example.com")

	updated, err := svc.UpdateProfile(context.Background(), actor, &dto.UpdateProfileRequest{
		Password: dto.Some("new-secret-123"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, "new-secret-123", updated.PasswordHash)
	assert.True(t, utils.CheckPassword(updated.PasswordHash, "new-secret-123"))
}

func TestGetPublicProfileHidesSuspended(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	banned := seedUser(users, "Mallory", "mallory", "mallory@example.com")
	now := time.Now()
	banned.BannedAt = &now
	users.Update(context.Background(), banned)

	_, err := svc.GetPublicProfile(context.Background(), "mallory")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.GetPublicProfileByID(context.Background(), banned.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGetPublicProfileByID(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	alice := seedUser(users, "Alice", "alice", "alice@example.com")

	got, err := svc.GetPublicProfileByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.GetPublicProfileByID(context.Background(), 999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestSetSuspensionBanAndUnban(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	admin := seedUser(users, "Admin", "admin", "admin@example.com")
	target := seedUser(users, "Target", "target", "target@example.com")

	banned, err := svc.SetSuspension(context.Background(), admin, target.ID, "ban", true)
	require.NoError(t, err)
	assert.True(t, banned.IsSuspended())

	unbanned, err := svc.SetSuspension(context.Background(), admin, target.ID, "ban", false)
	require.NoError(t, err)
	assert.False(t, unbanned.IsSuspended())
}

func TestSetSuspensionSelfForbidden(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	admin := seedUser(users, "Admin", "admin", "admin@example.com")

	_, err := svc.SetSuspension(context.Background(), admin, admin.ID, "ban", true)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestSetSuspensionUnknownKind(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	admin := seedUser(users, "Admin", "admin", "admin@example.com")
	target := seedUser(users, "Target", "target", "target@example.com")

	_, err := svc.SetSuspension(context.Background(), admin, target.ID, "mute", true)
	_, ok := services.AsValidationError(err)
	assert.True(t, ok)
}

func TestAssignAndRevokeRole(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	target := seedUser(users, "Target", "target", "target@example.com")

	withRole, err := svc.AssignRole(context.Background(), target.ID, models.RoleAuthor)
	require.NoError(t, err)
	assert.True(t, withRole.HasRole(models.RoleAuthor))

	withoutRole, err := svc.RevokeRole(context.Background(), target.ID, models.RoleAuthor)
	require.NoError(t, err)
	assert.False(t, withoutRole.HasRole(models.RoleAuthor))
}

func TestAssignUnknownRole(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	target := seedUser(users, "Target", "target", "target@example.com")

	_, err := svc.AssignRole(context.Background(), target.ID, "emperor")
	verr, ok := services.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "role_slug")
}

func TestFollowSelfForbidden(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	alice := seedUser(users, "Alice", "alice", "alice@example.com")

	err := svc.Follow(context.Background(), alice, alice.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestUnfollowSelfForbidden(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	alice := seedUser(users, "Alice", "alice", "alice@example.com")

	err := svc.Unfollow(context.Background(), alice, alice.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestFollowIsIdempotent(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	alice := seedUser(users, "Alice", "alice", "alice@example.com")
	bob := seedUser(users, "Bob", "bob", "bob@example.com")

	require.NoError(t, svc.Follow(context.Background(), alice, bob.ID))
	require.NoError(t, svc.Follow(context.Background(), alice, bob.ID))

	follows, err := svc.IsFollowing(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, follows)

	following, total, err := svc.Following(context.Background(), alice.ID, dto.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)
}

func TestFollowUnknownTarget(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	alice := seedUser(users, "Alice", "alice", "alice@example.com")

	err := svc.Follow(context.Background(), alice, 777)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUnfollowAbsentEdgeIsNoOp(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	alice := seedUser(users, "Alice", "alice", "alice@example.com")
	bob := seedUser(users, "Bob", "bob", "bob@example.com")

	assert.NoError(t, svc.Unfollow(context.Background(), alice, bob.ID))
}

func TestFollowersListsTheRightDirection(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	alice := seedUser(users, "Alice", "alice", "alice@example.com")
	bob := seedUser(users, "Bob", "bob", "bob@example.com")
	carol := seedUser(users, "Carol", "carol", "carol@example.com")

	require.NoError(t, svc.Follow(context.Background(), alice, bob.ID))
	require.NoError(t, svc.Follow(context.Background(), carol, bob.ID))

	followers, total, err := svc.Followers(context.Background(), bob.ID, dto.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, followers, 2)

	following, _, err := svc.Following(context.Background(), bob.ID, dto.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestFollowersOfUnknownUser(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	_, _, err := svc.Followers(context.Background(), 42, dto.Pagination{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
