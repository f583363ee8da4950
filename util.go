package main

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var regNumSeparators = regexp.MustCompile(`[\s\-/,]`)

// normalizeRegistrationNumber strips spaces, hyphens, slashes and commas and
// lowercases, so "KA-01 AB/1234" and "ka01ab1234" compare equal.
func normalizeRegistrationNumber(s string) string {
	return regNumSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// newSessionMarker returns a short random marker. Rotating the stored marker
// silently revokes every token issued with the previous value.
func newSessionMarker() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
