// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

/*
Auth service: the core identity and access management logic.

It handles registration with hashed credentials, login with rotated refresh
tokens, access-token revocation through the Redis blacklist, and the two
emailed-token flows (address confirmation, password reset).

Architecture:

  - Service: Orchestrates business logic (Register, Authenticate, Refresh).
  - Repositories: Abstracted interfaces for Postgres (users, refresh tokens)
    and Redis (session cache).
  - Security: bcrypt password hashes and HS256-signed JWTs.
*/

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/internal/platform/mail"
	"github.com/dkovalov/contactio/internal/platform/sec"
	"github.com/dkovalov/contactio/internal/platform/upload"
	"github.com/dkovalov/contactio/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
	// VerifyAccessToken checks the signature and expiry of a JWT string.
	VerifyAccessToken(tokenString string) (*sec.AuthClaims, error)
	// GenerateEmailToken creates a signed token embedding an email address.
	GenerateEmailToken(email string, timeToLive time.Duration) (string, error)
	// ParseEmailToken verifies an email token and returns the embedded address.
	ParseEmailToken(tokenString string) (string, error)
}

// backgroundTimeout bounds best-effort work (email delivery) detached from
// the originating request.
const backgroundTimeout = 30 * time.Second

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance, or revocation logic must be reviewed by the security team.
type Service struct {
	userRepository         UserRepository
	refreshTokenRepository RefreshTokenRepository
	sessionCache           SessionCache
	tokenProvider          TokenProvider
	mailer                 mail.Mailer
	accessTokenTTL         time.Duration
	refreshTokenTTL        time.Duration
	logger                 *slog.Logger
}

// NewService constructs a new auth [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	refreshRepo RefreshTokenRepository,
	sessionCache SessionCache,
	tokenProv TokenProvider,
	mailer mail.Mailer,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:         userRepo,
		refreshTokenRepository: refreshRepo,
		sessionCache:           sessionCache,
		tokenProvider:          tokenProv,
		mailer:                 mailer,
		accessTokenTTL:         accessTokenTTL,
		refreshTokenTTL:        refreshTokenTTL,
		logger:                 logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member unconfirmed, assigns a Gravatar-derived
default avatar, and triggers the confirmation email in the background.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Account already exists")
	}

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err = service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Account already exists")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index
	// fragmentation. Accounts start unconfirmed with a Gravatar fallback.
	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		AvatarURL:    upload.GravatarURL(input.Email),
		Role:         sec.RoleUser,
		Confirmed:    false,
	}

	// Persist the user to the database. The unique constraints are the final
	// authority; a concurrent duplicate surfaces as Conflict here too.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	// Fire the confirmation email without holding the request open.
	service.SendConfirmationEmail(user)

	return user, nil
}

// SendConfirmationEmail delivers the address-confirmation link in the
// background. Delivery failures are logged, never surfaced: the user can
// always request another email.
func (service *Service) SendConfirmationEmail(user *User) {
	token, err := service.tokenProvider.GenerateEmailToken(user.Email, ConfirmationTokenTTL)
	if err != nil {
		service.logger.Error("auth_confirmation_token_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return
	}

	go func(email, username, token string) {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if err := service.mailer.SendVerification(ctx, email, username, token); err != nil {
			service.logger.Error("auth_confirmation_email_failed",
				slog.String("email", email),
				slog.Any("error", err),
			)
		}
	}(user.Email, user.Username, token)
}

// # Authentication Flow

/*
Authenticate verifies login credentials.

Description: Performs constant-time password comparison and requires a
confirmed email address before granting access.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *User: The authenticated account
  - error: Unauthorized with credential- or confirmation-specific message
*/
func (service *Service) Authenticate(context context.Context, username, password string) (*User, error) {
	user, err := service.userRepository.FindByUsername(context, username)

	// Generic message on missing user to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Incorrect username or password")
	}

	// bcrypt comparison is constant-time, preventing timing attacks.
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect username or password")
	}

	// Unconfirmed accounts get a distinguishable message so clients can
	// offer a "resend confirmation" action.
	if !user.Confirmed {
		return nil, apperr.Unauthorized("Email address not confirmed")
	}

	return user, nil
}

// TokenPair is a freshly issued set of session credentials.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

/*
IssueTokens creates a fresh access/refresh token pair for a user.

Parameters:
  - context: context.Context
  - user: *User
  - ipAddress: string
  - userAgent: string

Returns:
  - *TokenPair: Transport-ready session credentials
  - error: Signing or storage failures
*/
func (service *Service) IssueTokens(context context.Context, user *User, ipAddress, userAgent string) (*TokenPair, error) {
	accessToken, err := service.CreateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := service.CreateRefreshToken(context, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// CreateAccessToken produces a stateless signed JWT for the user.
func (service *Service) CreateAccessToken(user *User) (string, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), service.accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_access_token_failed: %w", err)
	}
	return accessToken, nil
}

/*
CreateRefreshToken generates and persists a new refresh token.

Description: Only the SHA-256 hash of the secret reaches the database;
the raw value is returned to the caller exactly once.

Parameters:
  - context: context.Context
  - userID: string
  - ipAddress: string
  - userAgent: string

Returns:
  - string: The raw refresh-token secret
  - error: Generation or storage failures
*/
func (service *Service) CreateRefreshToken(context context.Context, userID, ipAddress, userAgent string) (string, error) {
	rawToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	token := &RefreshToken{
		ID:        uuidv7.New(),
		UserID:    userID,
		TokenHash: sec.HashToken(rawToken),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiredAt: time.Now().Add(service.refreshTokenTTL),
	}

	if err := service.refreshTokenRepository.Create(context, token); err != nil {
		return "", fmt.Errorf("auth_service_refresh_token_store_failed: %w", err)
	}

	return rawToken, nil
}

// # Token Validation

/*
GetCurrentUser resolves a bearer access token into an identity.

Description: Consults the blacklist first, then the identity cache, then
falls back to decoding the token and loading the account. A cache outage
degrades to DB-only resolution instead of failing the request.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *sec.Identity: The session payload for the request context
  - error: Unauthorized ("Token revoked" / "Token wrong") or lookup failures
*/
func (service *Service) GetCurrentUser(context context.Context, accessToken string) (*sec.Identity, error) {

	// 1. Revoked tokens are rejected before any signature work. A cache
	//    read failure fails open: the JWT expiry still bounds the damage.
	blacklisted, err := service.sessionCache.IsBlacklisted(context, accessToken)
	if err != nil {
		service.logger.Warn("auth_blacklist_check_degraded", slog.Any("error", err))
	} else if blacklisted {
		return nil, apperr.Unauthorized("Token revoked")
	}

	// 2. Cache hit skips both the JWT parse and the database.
	identity, err := service.sessionCache.GetCachedIdentity(context, accessToken)
	if err != nil {
		service.logger.Warn("auth_identity_cache_degraded", slog.Any("error", err))
	} else if identity != nil {
		return identity, nil
	}

	// 3. Authoritative path: verify signature, load the account by subject.
	claims, err := service.tokenProvider.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("Token wrong")
	}

	user, err := service.userRepository.FindByUsername(context, claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized("Token wrong")
	}

	// 4. Populate the cache for the token's remaining life. Failure here is
	//    logged and swallowed: the request already has its answer.
	resolved := user.Identity()
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			if err := service.sessionCache.CacheIdentity(context, accessToken, resolved, remaining); err != nil {
				service.logger.Warn("auth_identity_cache_populate_failed", slog.Any("error", err))
			}
		}
	}

	return resolved, nil
}

// # Session Rotation

/*
Refresh implements the refresh-token rotation mechanism.

Description: Validates the presented refresh token, revokes it to prevent
reuse, and issues a fresh pair. A token that exists but was already revoked
yields a distinguishable "Token revoked" error.

Parameters:
  - context: context.Context
  - rawRefreshToken: string
  - ipAddress: string
  - userAgent: string

Returns:
  - *TokenPair: Rotated session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, rawRefreshToken, ipAddress, userAgent string) (*TokenPair, error) {
	tokenHash := sec.HashToken(rawRefreshToken)

	current, err := service.refreshTokenRepository.FindActiveByTokenHash(context, tokenHash)
	if err != nil {
		// Distinguish a replayed (revoked) token from garbage.
		if stale, staleErr := service.refreshTokenRepository.FindByTokenHash(context, tokenHash); staleErr == nil && stale.RevokedAt != nil {
			return nil, apperr.Unauthorized("Token revoked")
		}
		return nil, apperr.Unauthorized("Token wrong")
	}

	// Rotation: retire the old token before minting its successor.
	if err := service.refreshTokenRepository.Revoke(context, current.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, current.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Token wrong")
	}

	return service.IssueTokens(context, user, ipAddress, userAgent)
}

// # Revocation

/*
RevokeRefreshToken stamps revoked_at on the presented refresh token.

Description: Idempotent; an unknown or already revoked token is a no-op so
logout never fails for token-state reasons.

Parameters:
  - context: context.Context
  - rawRefreshToken: string

Returns:
  - error: Storage failures only
*/
func (service *Service) RevokeRefreshToken(context context.Context, rawRefreshToken string) error {
	token, err := service.refreshTokenRepository.FindByTokenHash(context, sec.HashToken(rawRefreshToken))
	if err != nil {
		return nil
	}

	if token.RevokedAt != nil {
		return nil
	}

	if err := service.refreshTokenRepository.Revoke(context, token.ID); err != nil {
		return fmt.Errorf("auth_service_revoke_refresh_failed: %w", err)
	}

	return nil
}

/*
RevokeAccessToken blacklists an access token for its remaining lifetime.

Description: The blacklist entry's TTL equals the token's remaining
time-to-expiry, after which the JWT expiry itself takes over.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - error: Unauthorized for undecodable tokens, cache write failures
*/
func (service *Service) RevokeAccessToken(context context.Context, accessToken string) error {
	claims, err := service.tokenProvider.VerifyAccessToken(accessToken)
	if err != nil {
		return apperr.Unauthorized("Token wrong")
	}

	if claims.ExpiresAt == nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		// Already expired; nothing to blacklist.
		return nil
	}

	if err := service.sessionCache.Blacklist(context, accessToken, remaining); err != nil {
		return fmt.Errorf("auth_service_blacklist_failed: %w", err)
	}

	return nil
}

/*
Logout terminates a session from both ends.

Description: Blacklists the access token and revokes the refresh token.
Both halves are idempotent; partial failure is reported but the successful
half stays in effect.

Parameters:
  - context: context.Context
  - accessToken: string
  - rawRefreshToken: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, accessToken, rawRefreshToken string) error {
	if err := service.RevokeAccessToken(context, accessToken); err != nil {
		return err
	}

	if rawRefreshToken != "" {
		if err := service.RevokeRefreshToken(context, rawRefreshToken); err != nil {
			return err
		}
	}

	return nil
}

// # Password Recovery

/*
SendPasswordResetEmail initiates the forgot-password flow.

Description: Looks up the account and emails a signed reset token in the
background. Unknown addresses surface NotFound, matching the public
contract of the reset endpoint.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: NotFound or token generation failures
*/
func (service *Service) SendPasswordResetEmail(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return err
	}

	token, err := service.tokenProvider.GenerateEmailToken(user.Email, ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	go func(address, username, token string) {
		ctx, cancel := stdContextWithTimeout()
		defer cancel()

		if err := service.mailer.SendPasswordReset(ctx, address, username, token); err != nil {
			service.logger.Error("auth_reset_email_failed",
				slog.String("email", address),
				slog.Any("error", err),
			)
		}
	}(user.Email, user.Username, token)

	return nil
}

/*
ValidateResetToken checks a password-reset token and returns its email.

Description: Backs the pre-flight GET endpoint a reset form calls before
letting the user type a new password.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: The email the token was issued for
  - error: BadRequest for invalid tokens, NotFound for vanished accounts
*/
func (service *Service) ValidateResetToken(context context.Context, token string) (string, error) {
	email, err := service.tokenProvider.ParseEmailToken(token)
	if err != nil {
		return "", apperr.BadRequest("Invalid or expired token")
	}

	if _, err := service.userRepository.FindByEmail(context, email); err != nil {
		return "", err
	}

	return email, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the emailed token, hashes the new password, and
overwrites the stored hash.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: Unprocessable for malformed tokens, NotFound, or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	email, err := service.tokenProvider.ParseEmailToken(token)
	if err != nil {
		return apperr.Unprocessable("Invalid or expired token")
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_update_failed: %w", err)
	}

	return nil
}

// stdContextWithTimeout builds a detached context for background work.
func stdContextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), backgroundTimeout)
}
