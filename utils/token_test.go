package utils

import (
	"testing"

	"github.com/mubbi/blogapi/config"
)

func TestVerificationTokenHashing(t *testing.T) {
	token, hash := NewVerificationToken()
	if token == hash {
		t.Fatal("plaintext token must differ from its hash")
	}
	if HashToken(token) != hash {
		t.Fatal("hash must be reproducible from the plaintext token")
	}
	if !TokenMatches(token, hash) {
		t.Fatal("TokenMatches rejected its own token")
	}
	if TokenMatches("wrong", hash) {
		t.Fatal("TokenMatches accepted a wrong token")
	}
}

func TestVerificationTokensAreUnique(t *testing.T) {
	a, _ := NewVerificationToken()
	b, _ := NewVerificationToken()
	if a == b {
		t.Fatal("two tokens collided")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret:              "test-secret",
		AccessTokenTTLMinutes:  5,
		RefreshTokenTTLMinutes: 60,
	})

	access, refresh, err := GenerateTokenPair(42)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	claims, err := ParseToken(access)
	if err != nil {
		t.Fatalf("ParseToken(access): %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("access user id = %d, want 42", claims.UserID)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("access token type = %q", claims.TokenType)
	}
	if !claims.HasAbility(AbilityAccessAPI) {
		t.Error("access token missing the api ability")
	}

	rClaims, err := ParseToken(refresh)
	if err != nil {
		t.Fatalf("ParseToken(refresh): %v", err)
	}
	if rClaims.TokenType != TokenTypeRefresh {
		t.Errorf("refresh token type = %q", rClaims.TokenType)
	}
	if rClaims.HasAbility(AbilityAccessAPI) {
		t.Error("refresh token must not authenticate api calls")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret:              "first-secret",
		AccessTokenTTLMinutes:  5,
		RefreshTokenTTLMinutes: 60,
	})
	access, _, err := GenerateTokenPair(1)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	config.SetForTesting(config.AppConfig{
		JWTSecret:              "second-secret",
		AccessTokenTTLMinutes:  5,
		RefreshTokenTTLMinutes: 60,
	})
	if _, err := ParseToken(access); err == nil {
		t.Fatal("token signed with the old secret parsed successfully")
	}
}
