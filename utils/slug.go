package utils

import (
	"strings"

	"github.com/google/uuid"
)

// Slugify lowercases s and replaces runs of non-alphanumeric characters with
// single dashes. Non-ASCII runes are dropped; when nothing survives, a random
// suffix keeps the slug non-empty.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return uuid.NewString()[:8]
	}
	if len(out) > 200 {
		out = strings.Trim(out[:200], "-")
	}
	return out
}

// UniqueSlug appends a short random suffix, used when the base slug collides.
func UniqueSlug(base string) string {
	return base + "-" + uuid.NewString()[:8]
}
