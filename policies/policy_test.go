package policies_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/policies"
)

func actor(id uint, perms ...string) *models.User {
	role := models.Role{Slug: "r"}
	for _, p := range perms {
		role.Permissions = append(role.Permissions, models.Permission{Slug: p})
	}
	return &models.User{ID: id, Roles: []models.Role{role}}
}

func TestCanOwnerWithOwnPermission(t *testing.T) {
	owner := uint(1)
	assert.True(t, policies.Can(actor(1, models.PermEditArticles), "edit", "articles", &owner))
}

func TestCanOwnerWithoutPermission(t *testing.T) {
	owner := uint(1)
	assert.False(t, policies.Can(actor(1), "edit", "articles", &owner))
}

func TestCanStrangerWithOwnPermissionOnly(t *testing.T) {
	owner := uint(1)
	assert.False(t, policies.Can(actor(2, models.PermEditArticles), "edit", "articles", &owner))
}

func TestCanOthersPermissionBypassesOwnership(t *testing.T) {
	owner := uint(1)
	assert.True(t, policies.Can(actor(2, models.PermEditOthersArticles), "edit", "articles", &owner))
}

func TestCanNilActor(t *testing.T) {
	owner := uint(1)
	assert.False(t, policies.Can(nil, "edit", "articles", &owner))
}

func TestCanNilOwnerRequiresOthersPermission(t *testing.T) {
	// A comment whose author account was deleted has no owner; only the
	// elevated permission reaches it.
	assert.False(t, policies.Can(actor(2, models.PermDeleteComments), "delete", "comments", nil))
	assert.True(t, policies.Can(actor(2, models.PermDeleteOthersComments), "delete", "comments", nil))
}

func TestPermissionsUnionAcrossRoles(t *testing.T) {
	u := &models.User{ID: 1, Roles: []models.Role{
		{Slug: "a", Permissions: []models.Permission{{Slug: models.PermEditArticles}}},
		{Slug: "b", Permissions: []models.Permission{{Slug: models.PermDeleteArticles}}},
	}}
	article := &models.Article{CreatedBy: 1}
	assert.True(t, policies.CanEditArticle(u, article))
	assert.True(t, policies.CanDeleteArticle(u, article))
}

func TestCanDeleteMediaOwnership(t *testing.T) {
	media := &models.Media{UploadedBy: 3}
	assert.True(t, policies.CanDeleteMedia(actor(3, models.PermDeleteMedia), media))
	assert.False(t, policies.CanDeleteMedia(actor(4, models.PermDeleteMedia), media))
	assert.True(t, policies.CanDeleteMedia(actor(4, models.PermDeleteOthersMedia), media))
}
