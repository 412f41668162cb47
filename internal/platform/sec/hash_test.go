// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalov/contactio/internal/platform/sec"
)

/*
TestHashPassword tests that hashing produces a verifiable bcrypt digest
distinct from the plain text.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("s3cret-password")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-password", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, sec.CheckPasswordHash("s3cret-password", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}

/*
TestCheckPasswordHash_InvalidHash tests that a malformed stored hash never
verifies.
*/
func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("anything", ""))
}

/*
TestGenerateSecureToken tests entropy-token generation: URL-safe output and
no repeats across invocations.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
	assert.NotContains(t, first, "=")
}

/*
TestHashToken tests that token hashing is deterministic and hex-encoded
SHA-256 (64 characters).
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("raw-refresh-token")

	assert.Len(t, digest, 64)
	assert.Equal(t, digest, sec.HashToken("raw-refresh-token"))
	assert.NotEqual(t, digest, sec.HashToken("different-token"))
}
