// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, RefreshToken) and the logic for
registration, credential verification, token issuance and revocation.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/dkovalov/contactio/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Contactio platform.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	AvatarURL    string       `json:"avatar,omitempty"`
	Confirmed    bool         `json:"confirmed"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Identity returns the compact session payload for this user. It is what
// the middleware stores in the request context and what the session cache
// serializes to Redis.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Confirmed: user.Confirmed,
		Role:      user.Role,
	}
}

// RefreshToken represents one long-lived credential issued at login.
//
// Only the SHA-256 hash of the raw secret is ever persisted. Revocation is
// a timestamp, not a delete: revoked rows stay behind for auditability and
// so a lookup can distinguish "revoked" from "never existed".
type RefreshToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	TokenHash string     `json:"-"` // Hashed value of the raw secret. Omitted for security.
	IPAddress string     `json:"ip_address"`
	UserAgent string     `json:"user_agent"`
	ExpiredAt time.Time  `json:"expired_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Active reports whether the token may still be exchanged: not revoked and
// not past its expiry.
func (token *RefreshToken) Active() bool {
	return token.RevokedAt == nil && time.Now().Before(token.ExpiredAt)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldNewPassword  = "new_password"
	FieldToken        = "token"
	FieldRefreshToken = "refresh_token"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
	FieldMessage      = "message"
	FieldDetail       = "detail"
)
