// Package auth implements the account subsystem: registration, login,
// password changes and the mail-based password reset flow. It is entirely
// independent of the subtitling pipeline.
package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// prehash reduces the password to a fixed-size hex digest before bcrypt.
// bcrypt silently truncates input beyond 72 bytes; hashing first makes
// every password, regardless of length, contribute fully.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

// HashPassword derives a storable hash from a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

// HashToken returns the hex SHA-256 digest of a reset token. Only digests
// are persisted, so a leaked table does not expose usable tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
