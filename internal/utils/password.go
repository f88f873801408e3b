package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the configured cost is zero.
const DefaultBcryptCost = 10

// HashPassword bcrypt-hashes a login password. Passwords over 72 bytes are
// rejected by bcrypt rather than silently truncated.
func HashPassword(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash. A malformed
// hash counts as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
