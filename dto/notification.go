package dto

import "strings"

// CreateNotificationRequest describes a notification and its audience.
// audience_id is required for user/role/category audiences.
type CreateNotificationRequest struct {
	Title        string `json:"title"`
	Message      string `json:"message"`
	Link         string `json:"link"`
	AudienceType string `json:"audience_type"`
	AudienceID   *uint  `json:"audience_id"`
}

// Validate returns a field->message map; empty means valid.
func (r *CreateNotificationRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		errs["title"] = "title is required"
	}
	if strings.TrimSpace(r.Message) == "" {
		errs["message"] = "message is required"
	}
	switch r.AudienceType {
	case "all":
		if r.AudienceID != nil {
			errs["audience_id"] = "audience_id must be omitted for audience all"
		}
	case "user", "role", "category":
		if r.AudienceID == nil || *r.AudienceID == 0 {
			errs["audience_id"] = "audience_id is required for audience " + r.AudienceType
		}
	default:
		errs["audience_type"] = "audience_type must be one of all, user, role, category"
	}
	return errs
}
