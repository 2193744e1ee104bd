package dto

import (
	"net/mail"
	"strings"
)

// SubscribeRequest starts the double-opt-in flow for an email address.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Validate returns a field->message map; empty means valid.
func (r *SubscribeRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs["email"] = "email is invalid"
	}
	return errs
}
