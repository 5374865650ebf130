// Package auth implements password hashing and the HMAC-signed session
// tokens handed out by the login endpoint.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the SHA-256 hex digest of password. The format is fixed
// by existing user records, which store 64-char hex digests.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword compares password against a stored value. Stored values that
// are not 64-char digests are legacy plain-text passwords and are compared
// directly; they get re-hashed the next time the account is updated.
func VerifyPassword(password, stored string) bool {
	if len(stored) == sha256.Size*2 {
		digest := HashPassword(password)
		return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}
