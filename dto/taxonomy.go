package dto

import "strings"

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Validate returns a field->message map; empty means valid.
func (r *CategoryRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs["name"] = "name is required"
	} else if len(r.Name) > 128 {
		errs["name"] = "name must be at most 128 characters"
	}
	if len(r.Description) > 500 {
		errs["description"] = "description must be at most 500 characters"
	}
	return errs
}

// TagRequest creates or updates a tag.
type TagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Validate returns a field->message map; empty means valid.
func (r *TagRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs["name"] = "name is required"
	} else if len(r.Name) > 128 {
		errs["name"] = "name must be at most 128 characters"
	}
	return errs
}
