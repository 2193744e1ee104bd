package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewVerificationToken returns a random opaque token and its SHA-256 hex hash.
// Only the hash is persisted; the plaintext goes out in email links.
func NewVerificationToken() (token, hash string) {
	token = uuid.NewString() + uuid.NewString()
	return token, HashToken(token)
}

// HashToken returns the SHA-256 hex digest of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenMatches compares a plaintext token against a stored hash in constant time.
func TokenMatches(token, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(storedHash)) == 1
}
