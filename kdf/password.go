package kdf

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"
)

// HashPassword runs PBKDF2-HMAC-SHA256 over password with the given salt,
// iteration count, and output length. It is used both to provision a user
// record's stored verifier and, at login time, to recompute the verifier
// from the password the client submitted.
func HashPassword(password string, salt []byte, iterations, dkLen int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, dkLen, sha256.New)
}

// VerifyPassword recomputes the PBKDF2 verifier for password under the
// given parameters and compares it to want in constant time.
func VerifyPassword(password string, salt []byte, iterations int, want []byte) bool {
	got := HashPassword(password, salt, iterations, len(want))
	return subtle.ConstantTimeCompare(got, want) == 1
}
