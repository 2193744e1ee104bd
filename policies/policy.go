// Package policies decides whether a user may act on a resource. Ownership
// and permission checks live here so controllers stay free of authorization
// branching.
package policies

import (
	"fmt"

	"github.com/mubbi/blogapi/models"
)

// Can reports whether actor may perform action ("edit", "delete", ...) on a
// resource type ("articles", "comments", "media") owned by ownerID. The
// "<action>_others_<resource>" permission grants the action on anyone's
// resource; "<action>_<resource>" grants it only on the actor's own.
func Can(actor *models.User, action, resource string, ownerID *uint) bool {
	if actor == nil {
		return false
	}
	if actor.HasPermission(fmt.Sprintf("%s_others_%s", action, resource)) {
		return true
	}
	if ownerID == nil || *ownerID != actor.ID {
		return false
	}
	return actor.HasPermission(fmt.Sprintf("%s_%s", action, resource))
}

// CanEditArticle reports whether actor may modify the article.
func CanEditArticle(actor *models.User, article *models.Article) bool {
	return Can(actor, "edit", "articles", &article.CreatedBy)
}

// CanDeleteArticle reports whether actor may trash or delete the article.
func CanDeleteArticle(actor *models.User, article *models.Article) bool {
	return Can(actor, "delete", "articles", &article.CreatedBy)
}

// CanEditComment reports whether actor may change the comment body.
func CanEditComment(actor *models.User, comment *models.Comment) bool {
	return Can(actor, "edit", "comments", comment.UserID)
}

// CanDeleteComment reports whether actor may soft-delete the comment.
func CanDeleteComment(actor *models.User, comment *models.Comment) bool {
	return Can(actor, "delete", "comments", comment.UserID)
}

// CanDeleteMedia reports whether actor may remove the media record.
func CanDeleteMedia(actor *models.User, media *models.Media) bool {
	return Can(actor, "delete", "media", &media.UploadedBy)
}
