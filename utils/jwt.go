package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mubbi/blogapi/config"
)

// Token kinds carried in the claims. Refresh tokens cannot authenticate API
// calls; they are only exchangeable for a new pair.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	// AbilityAccessAPI must be present on access tokens for any API call.
	AbilityAccessAPI = "access-api"
)

// Claims defines JWT claims used in the application.
type Claims struct {
	UserID    uint     `json:"user_id"`
	TokenType string   `json:"token_type"`
	Abilities []string `json:"abilities,omitempty"`
	jwt.RegisteredClaims
}

// HasAbility reports whether the token grants the named ability.
func (c *Claims) HasAbility(ability string) bool {
	for _, a := range c.Abilities {
		if a == ability {
			return true
		}
	}
	return false
}

// GenerateTokenPair issues an access and a refresh token for the user.
func GenerateTokenPair(userID uint) (access string, refresh string, err error) {
	cfg := config.Get()
	access, err = signToken(userID, TokenTypeAccess, []string{AbilityAccessAPI},
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute)
	if err != nil {
		return "", "", err
	}
	refresh, err = signToken(userID, TokenTypeRefresh, nil,
		time.Duration(cfg.RefreshTokenTTLMinutes)*time.Minute)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func signToken(userID uint, tokenType string, abilities []string, duration time.Duration) (string, error) {
	cfg := config.Get()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		Abilities: abilities,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
