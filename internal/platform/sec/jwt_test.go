// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalov/contactio/internal/platform/sec"
)

/*
TestNewTokenService_EmptySecret rejects construction without a signing secret.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	service, err := sec.NewTokenService("", "contactio.app")

	require.Error(t, err)
	assert.Nil(t, service)
}

/*
TestTokenService_AccessToken_RoundTrip tests generation and verification of
an access token, including the embedded custom claims.
*/
func TestTokenService_AccessToken_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "contactio.app")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", "dmytro", "admin", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "dmytro", claims.Subject)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "contactio.app", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

/*
TestTokenService_AccessToken_Expired tests that an already-expired token is
rejected on verification.
*/
func TestTokenService_AccessToken_Expired(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "contactio.app")
	require.NoError(t, err)

	// Negative lifetime: expired at issuance
	token, err := service.GenerateAccessToken("user-123", "dmytro", "user", -time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyAccessToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

/*
TestTokenService_AccessToken_WrongSecret tests that a token signed by one
service is rejected by a service with a different secret.
*/
func TestTokenService_AccessToken_WrongSecret(t *testing.T) {
	issuing, err := sec.NewTokenService("secret-one", "contactio.app")
	require.NoError(t, err)

	verifying, err := sec.NewTokenService("secret-two", "contactio.app")
	require.NoError(t, err)

	token, err := issuing.GenerateAccessToken("user-123", "dmytro", "user", time.Minute)
	require.NoError(t, err)

	_, err = verifying.VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_AccessToken_Garbage tests rejection of non-JWT input.
*/
func TestTokenService_AccessToken_Garbage(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "contactio.app")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"plain_string", "not-a-jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyAccessToken(tt.token)
			assert.Error(t, err)
		})
	}
}

/*
TestTokenService_EmailToken_RoundTrip tests the confirmation/reset token flow:
the email address goes in and comes back out of the signed token.
*/
func TestTokenService_EmailToken_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "contactio.app")
	require.NoError(t, err)

	token, err := service.GenerateEmailToken("dmytro@example.com", time.Hour)
	require.NoError(t, err)

	email, err := service.ParseEmailToken(token)
	require.NoError(t, err)
	assert.Equal(t, "dmytro@example.com", email)
}

/*
TestTokenService_EmailToken_Expired tests that an expired email token no
longer resolves to its address.
*/
func TestTokenService_EmailToken_Expired(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "contactio.app")
	require.NoError(t, err)

	token, err := service.GenerateEmailToken("dmytro@example.com", -time.Hour)
	require.NoError(t, err)

	email, err := service.ParseEmailToken(token)
	assert.Error(t, err)
	assert.Empty(t, email)
}
