package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/mubbi/blogapi/config"
	"github.com/mubbi/blogapi/dto"
	"github.com/mubbi/blogapi/middleware"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/repositories"
	"github.com/mubbi/blogapi/services"
	"github.com/mubbi/blogapi/utils"
)

// AuthController handles registration, login, token refresh, password reset,
// and third-party OAuth providers.
type AuthController struct {
	users    repositories.UserRepository
	roles    repositories.RoleRepository
	userSvc  *services.UserService
	sendMail func(to, subject, body string) error
}

// NewAuthController creates an AuthController. sendMail may be nil to use
// the SMTP mailer.
func NewAuthController(users repositories.UserRepository, roles repositories.RoleRepository, userSvc *services.UserService, sendMail func(to, subject, body string) error) *AuthController {
	if sendMail == nil {
		sendMail = utils.SendMail
	}
	return &AuthController{users: users, roles: roles, userSvc: userSvc, sendMail: sendMail}
}

// Register creates a local account and issues a token pair. New accounts get
// the subscriber role.
func (a *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		utils.ValidationFailed(ctx, errs)
		return
	}

	rctx := ctx.Request.Context()
	if taken, err := a.users.EmailExists(rctx, req.Email); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	} else if taken {
		utils.ValidationFailed(ctx, map[string]string{"email": "email is already registered"})
		return
	}
	if taken, err := a.users.UsernameExists(rctx, req.Username); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	} else if taken {
		utils.ValidationFailed(ctx, map[string]string{"username": "username is already taken"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		RegisterIP:   ctx.ClientIP(),
	}
	if err := a.users.Create(rctx, user); err != nil {
		if err == repositories.ErrDuplicate {
			utils.ValidationFailed(ctx, map[string]string{"email": "email or username is already registered"})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to create user")
		return
	}
	a.attachDefaultRole(rctx, user)

	a.respondWithTokens(ctx, user, http.StatusCreated, "registered")
}

// Login verifies credentials and issues a token pair. Suspended accounts are
// rejected even with a valid password.
func (a *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		utils.ValidationFailed(ctx, errs)
		return
	}

	user, err := a.users.FindByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if user.IsSuspended() {
		utils.Error(ctx, http.StatusForbidden, "account suspended")
		return
	}

	a.respondWithTokens(ctx, user, http.StatusOK, "logged in")
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// refresh token is blacklisted so each one is single-use.
func (a *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		utils.Error(ctx, http.StatusBadRequest, "refresh_token is required")
		return
	}

	token := strings.TrimSpace(req.RefreshToken)
	if utils.IsTokenBlacklisted(token) {
		utils.Error(ctx, http.StatusUnauthorized, "token revoked")
		return
	}
	claims, err := utils.ParseToken(token)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		utils.Error(ctx, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	user, err := a.users.FindByID(ctx.Request.Context(), claims.UserID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, "account no longer exists")
		return
	}
	if user.IsSuspended() {
		utils.Error(ctx, http.StatusForbidden, "account suspended")
		return
	}

	if claims.ExpiresAt != nil {
		utils.BlacklistToken(token, claims.ExpiresAt.Time)
	}
	a.respondWithTokens(ctx, user, http.StatusOK, "token refreshed")
}

// Logout blacklists the presented access token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	tokenVal, ok := ctx.Get(middleware.ContextTokenKey)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "authentication required")
		return
	}
	token := tokenVal.(string)
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "invalid token")
		return
	}
	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, "logged out", nil)
}

// Me returns the authenticated user with roles.
func (a *AuthController) Me(ctx *gin.Context) {
	user := currentUser(ctx)
	utils.Success(ctx, "ok", user)
}

// UpdateProfile applies a partial update to the caller's own profile.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	user, err := a.userSvc.UpdateProfile(ctx.Request.Context(), currentUser(ctx), &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "profile updated", user)
}

// ForgotPassword mails a one-time reset code. The response is identical
// whether or not the address exists.
func (a *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		utils.Error(ctx, http.StatusBadRequest, "email is required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !utils.EmailCooldownTrySet(email, 60*time.Second) {
		utils.Error(ctx, http.StatusTooManyRequests, "please wait before requesting another code")
		return
	}

	user, err := a.users.FindByEmail(ctx.Request.Context(), email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	if user != nil {
		code := utils.GenerateVerificationCode(6)
		body := fmt.Sprintf("Your password reset code is: %s\r\nIt expires in 10 minutes.", code)
		if err := a.sendMail(email, "Password reset code", body); err == nil {
			utils.SaveResetCode(email, code, 10*time.Minute)
		}
	}
	utils.Success(ctx, "if the address exists, a reset code was sent", nil)
}

// ResetPassword exchanges a mailed code for a new password. Codes are
// consumed on first use.
func (a *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		utils.ValidationFailed(ctx, errs)
		return
	}

	if !utils.VerifyAndConsumeResetCode(req.Email, strings.TrimSpace(req.Code)) {
		utils.ValidationFailed(ctx, map[string]string{"code": "code is invalid or expired"})
		return
	}

	user, err := a.users.FindByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		utils.Error(ctx, http.StatusNotFound, "account not found")
		return
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user.PasswordHash = hash
	if err := a.users.Update(ctx.Request.Context(), user); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update password")
		return
	}
	utils.Success(ctx, "password updated", nil)
}

// OAuthRedirect returns a provider-specific authorization URL.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	cfg, err := oauthConfig(ctx.Param("provider"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}
	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)
	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	utils.Success(ctx, "ok", gin.H{"authorization_url": url, "state": state})
}

// OAuthCallback exchanges the authorization code for a provider identity and
// issues a token pair, creating the account on first login.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := strings.ToLower(ctx.Param("provider"))
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, "missing code or state")
		return
	}
	if !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, "invalid or expired state")
		return
	}

	cfg, err := oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}
	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "failed to exchange code")
		return
	}

	info, err := fetchOAuthUser(provider, token)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	user, err := a.findOrCreateOAuthUser(ctx.Request.Context(), provider, info)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to persist user")
		return
	}
	if user.IsSuspended() {
		utils.Error(ctx, http.StatusForbidden, "account suspended")
		return
	}

	a.respondWithTokens(ctx, user, http.StatusOK, "logged in")
}

func (a *AuthController) respondWithTokens(ctx *gin.Context, user *models.User, httpStatus int, message string) {
	access, refresh, err := utils.GenerateTokenPair(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	utils.Respond(ctx, httpStatus, "success", message, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"user":          user,
	}, nil)
}

func (a *AuthController) attachDefaultRole(ctx context.Context, user *models.User) {
	role, err := a.roles.FindBySlug(ctx, models.RoleSubscriber)
	if err != nil || role == nil {
		return
	}
	_ = a.users.AssignRole(ctx, user, role)
}

type oauthUser struct {
	ID          string
	Username    string
	DisplayName string
	Email       string
	AvatarURL   string
}

func oauthConfig(provider string) (*oauth2.Config, error) {
	cfg := config.Get()
	switch strings.ToLower(provider) {
	case "github":
		if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
			return nil, fmt.Errorf("github oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  fmt.Sprintf("%s/api/v1/auth/oauth/github/callback", cfg.OAuthRedirectBase),
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}, nil
	case "google":
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, fmt.Errorf("google oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  fmt.Sprintf("%s/api/v1/auth/oauth/google/callback", cfg.OAuthRedirectBase),
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func fetchOAuthUser(provider string, token *oauth2.Token) (*oauthUser, error) {
	switch provider {
	case "github":
		return fetchGitHubUser(token)
	case "google":
		return fetchGoogleUser(token)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func (a *AuthController) findOrCreateOAuthUser(ctx context.Context, provider string, data *oauthUser) (*models.User, error) {
	user, err := a.users.FindByProvider(ctx, provider, data.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.Email = fallback(strings.TrimSpace(data.Email), user.Email)
		user.AvatarURL = fallback(data.AvatarURL, user.AvatarURL)
		if err := a.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	username, err := a.ensureUniqueUsername(ctx, data.Username, provider, data.ID)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Name:       fallback(data.DisplayName, username),
		Username:   username,
		Email:      strings.TrimSpace(data.Email),
		Provider:   provider,
		ProviderID: data.ID,
		AvatarURL:  data.AvatarURL,
		RegisterIP: "oauth",
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}
	a.attachDefaultRole(ctx, user)
	return user, nil
}

func (a *AuthController) ensureUniqueUsername(ctx context.Context, base, provider, id string) (string, error) {
	base = sanitizeUsername(base)
	if base == "" {
		base = sanitizeUsername(fmt.Sprintf("%s_%s", provider, id))
		if base == "" {
			base = fmt.Sprintf("user_%s", id)
		}
	}

	candidate := base
	suffix := 1
	for {
		taken, err := a.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, suffix)
		suffix++
	}
}

func fetchGitHubUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest("GET", "https://api.github.com/user", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token.AccessToken))
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	email, _ := fetchGitHubEmail(token.AccessToken)

	return &oauthUser{
		ID:          fmt.Sprintf("%d", payload.ID),
		Username:    payload.Login,
		DisplayName: fallback(payload.Name, payload.Login),
		Email:       email,
		AvatarURL:   payload.AvatarURL,
	}, nil
}

func fetchGitHubEmail(accessToken string) (string, error) {
	req, _ := http.NewRequest("GET", "https://api.github.com/user/emails", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github emails request failed: %s", resp.Status)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", err
	}

	for _, email := range emails {
		if email.Primary && email.Verified {
			return email.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}

func fetchGoogleUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest("GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &oauthUser{
		ID:          payload.ID,
		Username:    payload.Email,
		DisplayName: payload.Name,
		Email:       payload.Email,
		AvatarURL:   payload.Picture,
	}, nil
}

func sanitizeUsername(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}
	var builder strings.Builder
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == '_' || r == '-' || r == '.':
			builder.WriteRune('_')
		}
	}
	return strings.Trim(builder.String(), "_")
}

func fallback(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
