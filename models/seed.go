package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Permission slugs known to the policy layer. "<action>_<resource>" covers own
// resources, "<action>_others_<resource>" the elevated variant.
const (
	PermCreateArticles      = "create_articles"
	PermEditArticles        = "edit_articles"
	PermEditOthersArticles  = "edit_others_articles"
	PermDeleteArticles      = "delete_articles"
	PermDeleteOthersArticles = "delete_others_articles"
	PermPublishArticles     = "publish_articles"
	PermFeatureArticles     = "feature_articles"

	PermCreateComments      = "create_comments"
	PermEditComments        = "edit_comments"
	PermEditOthersComments  = "edit_others_comments"
	PermDeleteComments      = "delete_comments"
	PermDeleteOthersComments = "delete_others_comments"
	PermModerateComments    = "moderate_comments"

	PermManageCategories   = "manage_categories"
	PermManageTags         = "manage_tags"
	PermUploadMedia        = "upload_media"
	PermDeleteMedia        = "delete_media"
	PermDeleteOthersMedia  = "delete_others_media"
	PermManageUsers        = "manage_users"
	PermAssignRoles        = "assign_roles"
	PermSendNotifications  = "send_notifications"
	PermManageNewsletter   = "manage_newsletter"
	PermViewStats          = "view_stats"
)

// Role slugs created by the seeder.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleAuthor        = "author"
	RoleContributor   = "contributor"
	RoleSubscriber    = "subscriber"
)

var allPermissionSlugs = []string{
	PermCreateArticles, PermEditArticles, PermEditOthersArticles,
	PermDeleteArticles, PermDeleteOthersArticles, PermPublishArticles, PermFeatureArticles,
	PermCreateComments, PermEditComments, PermEditOthersComments,
	PermDeleteComments, PermDeleteOthersComments, PermModerateComments,
	PermManageCategories, PermManageTags,
	PermUploadMedia, PermDeleteMedia, PermDeleteOthersMedia,
	PermManageUsers, PermAssignRoles, PermSendNotifications,
	PermManageNewsletter, PermViewStats,
}

var defaultRolePermissions = map[string][]string{
	RoleAdministrator: allPermissionSlugs,
	RoleEditor: {
		PermCreateArticles, PermEditArticles, PermEditOthersArticles,
		PermDeleteArticles, PermPublishArticles, PermFeatureArticles,
		PermCreateComments, PermEditComments, PermDeleteComments,
		PermModerateComments, PermDeleteOthersComments,
		PermManageCategories, PermManageTags, PermUploadMedia, PermDeleteMedia,
	},
	RoleAuthor: {
		PermCreateArticles, PermEditArticles, PermDeleteArticles,
		PermCreateComments, PermEditComments, PermDeleteComments,
		PermUploadMedia, PermDeleteMedia,
	},
	// Contributors draft and submit but cannot delete or publish.
	RoleContributor: {
		PermCreateArticles, PermEditArticles,
		PermCreateComments, PermEditComments, PermDeleteComments,
		PermUploadMedia,
	},
	RoleSubscriber: {
		PermCreateComments, PermEditComments, PermDeleteComments,
	},
}

// SeedRolesAndPermissions upserts the default permission catalog and role
// bindings. Safe to run on every boot: existing rows are left untouched.
func SeedRolesAndPermissions(db *gorm.DB) error {
	perms := make(map[string]*Permission, len(allPermissionSlugs))
	for _, slug := range allPermissionSlugs {
		p := &Permission{Name: humanize(slug), Slug: slug}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(p).Error; err != nil {
			return err
		}
		if p.ID == 0 {
			if err := db.Where("slug = ?", slug).First(p).Error; err != nil {
				return err
			}
		}
		perms[slug] = p
	}

	for roleSlug, permSlugs := range defaultRolePermissions {
		role := &Role{Name: humanize(roleSlug), Slug: roleSlug}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(role).Error; err != nil {
			return err
		}
		if role.ID == 0 {
			if err := db.Where("slug = ?", roleSlug).First(role).Error; err != nil {
				return err
			}
		}
		attach := make([]Permission, 0, len(permSlugs))
		for _, s := range permSlugs {
			attach = append(attach, *perms[s])
		}
		if err := db.Model(role).Association("Permissions").Replace(attach); err != nil {
			return err
		}
	}
	return nil
}

func humanize(slug string) string {
	out := make([]byte, len(slug))
	for i := 0; i < len(slug); i++ {
		c := slug[i]
		if c == '_' {
			c = ' '
		}
		if i == 0 && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
