// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

// PostgreSQL implementations of the auth repositories.
//
// # Architecture
//
// Repositories are strictly separated from domain logic. They implement the
// domain-defined interfaces ([UserRepository], [RefreshTokenRepository]) on
// top of the [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, unique violations) are mapped to
// domain-friendly [apperr.AppError] values via dberr to avoid leaking storage
// implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, avatar_url, confirmed, role, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var avatarURL *string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&avatarURL,
		&user.Confirmed,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if avatarURL != nil {
		user.AvatarURL = *avatarURL
	}

	return user, nil
}

/*
Create persists a new user record into the users table.

Description: Deep-persists account metadata, initializing timestamps when
absent. Unique violations on username or email surface as Conflict.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict, constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, username, email, password_hash, avatar_url, confirmed, role, created_at, updated_at
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.AvatarURL,
		user.Confirmed,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup for authentication and token-subject resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
ConfirmEmail updates the user's status to confirmed = true.

Description: Post-verification activation of the account. Confirming an
already confirmed account is a no-op.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) ConfirmEmail(context context.Context, userID string) error {
	const query = `UPDATE users SET confirmed = TRUE, updated_at = $2 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_confirm_email_failed: %w", err)
	}

	return nil
}

/*
UpdateAvatar replaces only the avatar URL for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - avatarURL: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateAvatar(context context.Context, userID, avatarURL string) error {
	const query = `UPDATE users SET avatar_url = NULLIF($2, ''), updated_at = $3 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, avatarURL, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_avatar_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

// # Refresh Token Repository

// PostgresRefreshTokenRepository implements the RefreshTokenRepository interface.
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository creates a new PostgreSQL implementation of RefreshTokenRepository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

const refreshTokenColumns = `id, user_id, token_hash, ip_address, user_agent, expired_at, revoked_at, created_at`

func scanRefreshToken(row pgx.Row) (*RefreshToken, error) {
	token := &RefreshToken{}

	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.IPAddress,
		&token.UserAgent,
		&token.ExpiredAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return token, nil
}

/*
Create persists a freshly issued refresh token.

Description: Records a successful authentication in persistent storage.
Only the SHA-256 hash of the secret is written.

Parameters:
  - context: context.Context
  - token: *RefreshToken

Returns:
  - error: Storage failures
*/
func (repository *PostgresRefreshTokenRepository) Create(context context.Context, token *RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, ip_address, user_agent, expired_at, revoked_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.IPAddress,
		token.UserAgent,
		token.ExpiredAt,
		token.RevokedAt,
		token.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_refresh_token_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves a refresh token by hash, revoked rows included.

Description: Lets callers distinguish a revoked token from one that never
existed.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *RefreshToken: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRefreshTokenRepository) FindByTokenHash(context context.Context, tokenHash string) (*RefreshToken, error) {
	const query = `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token_hash = $1`

	token, err := scanRefreshToken(repository.pool.QueryRow(context, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Refresh token")
		}
		return nil, fmt.Errorf("postgres_refresh_token_repo_find_failed: %w", err)
	}

	return token, nil
}

/*
FindActiveByTokenHash retrieves a refresh token by hash only if it is
neither revoked nor expired.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *RefreshToken: Hydrated active entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRefreshTokenRepository) FindActiveByTokenHash(context context.Context, tokenHash string) (*RefreshToken, error) {
	const query = `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL AND expired_at > NOW()`

	token, err := scanRefreshToken(repository.pool.QueryRow(context, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Refresh token")
		}
		return nil, fmt.Errorf("postgres_refresh_token_repo_find_active_failed: %w", err)
	}

	return token, nil
}

/*
Revoke stamps revoked_at on a refresh token.

Description: Revocation is a timestamp, not a delete; revoked rows remain
for audit. Re-revoking keeps the original timestamp.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - error: Revocation failures
*/
func (repository *PostgresRefreshTokenRepository) Revoke(context context.Context, tokenID string) error {
	const query = `UPDATE refresh_tokens SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`

	_, err := repository.pool.Exec(context, query, tokenID)
	if err != nil {
		return fmt.Errorf("postgres_refresh_token_repo_revoke_failed: %w", err)
	}

	return nil
}
