package dto

import (
	"net/mail"
	"strings"
)

// RegisterRequest is the local account registration payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns a field->message map; empty means valid.
func (r *RegisterRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Name = strings.TrimSpace(r.Name)
	r.Username = strings.TrimSpace(strings.ToLower(r.Username))
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Name == "" {
		errs["name"] = "name is required"
	}
	if r.Username == "" {
		errs["username"] = "username is required"
	} else if len(r.Username) < 3 || len(r.Username) > 64 {
		errs["username"] = "username must be between 3 and 64 characters"
	}
	if r.Email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs["email"] = "email is invalid"
	}
	if len(r.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	return errs
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns a field->message map; empty means valid.
func (r *LoginRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" {
		errs["email"] = "email is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

// UpdateProfileRequest is the presence-aware partial profile update.
type UpdateProfileRequest struct {
	Name      Optional[string] `json:"name"`
	Username  Optional[string] `json:"username"`
	AvatarURL Optional[string] `json:"avatar_url"`
	Bio       Optional[string] `json:"bio"`
	Website   Optional[string] `json:"website"`
	Password  Optional[string] `json:"password"`
}

// Validate returns a field->message map; empty means valid.
func (r *UpdateProfileRequest) Validate() map[string]string {
	errs := map[string]string{}
	if name, ok := r.Name.Get(); ok && strings.TrimSpace(name) == "" {
		errs["name"] = "name cannot be empty"
	}
	if r.Name.ShouldClear() {
		errs["name"] = "name cannot be null"
	}
	if username, ok := r.Username.Get(); ok {
		u := strings.TrimSpace(strings.ToLower(username))
		if len(u) < 3 || len(u) > 64 {
			errs["username"] = "username must be between 3 and 64 characters"
		}
	}
	if r.Username.ShouldClear() {
		errs["username"] = "username cannot be null"
	}
	if password, ok := r.Password.Get(); ok && len(password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if bio, ok := r.Bio.Get(); ok && len(bio) > 500 {
		errs["bio"] = "bio must be at most 500 characters"
	}
	return errs
}

// ForgotPasswordRequest asks for a reset code by mail.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest exchanges a mailed code for a new password.
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// Validate returns a field->message map; empty means valid.
func (r *ResetPasswordRequest) Validate() map[string]string {
	errs := map[string]string{}
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" {
		errs["email"] = "email is required"
	}
	if strings.TrimSpace(r.Code) == "" {
		errs["code"] = "code is required"
	}
	if len(r.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	return errs
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AssignRoleRequest attaches or detaches a role on a user.
type AssignRoleRequest struct {
	RoleSlug string `json:"role_slug"`
}
