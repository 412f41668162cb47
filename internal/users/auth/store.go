// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/dkovalov/contactio/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		ConfirmEmail flips the account's confirmed flag to true.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ConfirmEmail(context context.Context, userID string) error

	/*
		UpdateAvatar replaces only the user's avatar URL.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - avatarURL: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateAvatar(context context.Context, userID, avatarURL string) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Refresh Token Data Access

// RefreshTokenRepository defines the data access contract for refresh tokens.
type RefreshTokenRepository interface {

	/*
		Create persists a freshly issued refresh token.

		Parameters:
		  - context: context.Context
		  - token: *RefreshToken

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, token *RefreshToken) error

	/*
		FindByTokenHash returns the token matching the hash regardless of
		its revocation or expiry state.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *RefreshToken: Hydrated entity, revoked rows included
		  - error: Database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*RefreshToken, error)

	/*
		FindActiveByTokenHash returns the token matching the hash only if it
		is neither revoked nor expired.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *RefreshToken: Hydrated active entity
		  - error: Database retrieval failures
	*/
	FindActiveByTokenHash(context context.Context, tokenHash string) (*RefreshToken, error)

	/*
		Revoke stamps revoked_at on the token. Revoking an already revoked
		token is a no-op.

		Parameters:
		  - context: context.Context
		  - tokenID: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, tokenID string) error
}

// # Session Cache

// SessionCache is the volatile side of token validation: a blacklist of
// revoked access tokens and a short-lived cache of resolved identities.
//
// The cache is advisory. Implementations surface their errors; the service
// decides whether to degrade or fail.
type SessionCache interface {

	/*
		Blacklist marks an access token as revoked until it would have
		expired naturally.

		Parameters:
		  - context: context.Context
		  - accessToken: string
		  - ttl: time.Duration

		Returns:
		  - error: Cache write failures
	*/
	Blacklist(context context.Context, accessToken string, ttl time.Duration) error

	/*
		IsBlacklisted reports whether an access token has been revoked.

		Parameters:
		  - context: context.Context
		  - accessToken: string

		Returns:
		  - bool: true if the token is on the blacklist
		  - error: Cache read failures
	*/
	IsBlacklisted(context context.Context, accessToken string) (bool, error)

	/*
		CacheIdentity stores the resolved identity for an access token.

		Parameters:
		  - context: context.Context
		  - accessToken: string
		  - identity: *sec.Identity
		  - ttl: time.Duration

		Returns:
		  - error: Cache write failures
	*/
	CacheIdentity(context context.Context, accessToken string, identity *sec.Identity, ttl time.Duration) error

	/*
		GetCachedIdentity returns the cached identity for an access token,
		or nil without error on a cache miss.

		Parameters:
		  - context: context.Context
		  - accessToken: string

		Returns:
		  - *sec.Identity: Cached payload, nil on miss
		  - error: Cache read failures
	*/
	GetCachedIdentity(context context.Context, accessToken string) (*sec.Identity, error)
}
