package models

import "testing"

func TestDefaultRoleCatalog(t *testing.T) {
	for _, slug := range []string{RoleAdministrator, RoleEditor, RoleAuthor, RoleContributor, RoleSubscriber} {
		perms, ok := defaultRolePermissions[slug]
		if !ok {
			t.Errorf("role %q missing from seed catalog", slug)
			continue
		}
		if len(perms) == 0 {
			t.Errorf("role %q has no permissions", slug)
		}
	}
	if len(defaultRolePermissions[RoleAdministrator]) != len(allPermissionSlugs) {
		t.Error("administrator must hold every permission")
	}
	for _, p := range defaultRolePermissions[RoleContributor] {
		if p == PermPublishArticles || p == PermDeleteArticles || p == PermEditOthersArticles {
			t.Errorf("contributor must not hold %q", p)
		}
	}
}
