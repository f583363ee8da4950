package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotContains(t, string(digest), "secret1")

	assert.True(t, VerifyPassword("secret1", digest))
	assert.False(t, VerifyPassword("secret2", digest))
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	// a broken digest is a failed verification, not a panic or error
	assert.False(t, VerifyPassword("secret1", []byte("not-a-bcrypt-digest")))
	assert.False(t, VerifyPassword("secret1", nil))
}
