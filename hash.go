package main

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a salted bcrypt digest of plain.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// VerifyPassword reports whether plain matches digest. bcrypt compares in
// constant time; a malformed digest counts as a failed verification, never a
// fatal error.
func VerifyPassword(plain string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plain)) == nil
}
