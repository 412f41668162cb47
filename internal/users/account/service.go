// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

/*
Package account implements the authenticated user surface: profile
retrieval, email confirmation, and avatar management.

It builds on the auth package's entities and repositories rather than
defining its own storage; the account surface is a different view over the
same users table.
*/
package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/internal/platform/sec"
	"github.com/dkovalov/contactio/internal/platform/upload"
	"github.com/dkovalov/contactio/internal/users/auth"
)

// # Contracts

// EmailTokenParser verifies emailed confirmation tokens.
type EmailTokenParser interface {
	ParseEmailToken(tokenString string) (string, error)
}

// ConfirmationSender re-dispatches the address-confirmation email.
type ConfirmationSender interface {
	SendConfirmationEmail(user *auth.User)
}

// # Service Layer

// Service orchestrates business logic for the authenticated user surface.
type Service struct {
	userRepository  auth.UserRepository
	tokenParser     EmailTokenParser
	sender          ConfirmationSender
	uploader        upload.AvatarUploader
	avatarAdminOnly bool
	logger          *slog.Logger
}

// NewService constructs a new account [Service] with its dependencies.
func NewService(
	userRepo auth.UserRepository,
	tokenParser EmailTokenParser,
	sender ConfirmationSender,
	uploader upload.AvatarUploader,
	avatarAdminOnly bool,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:  userRepo,
		tokenParser:     tokenParser,
		sender:          sender,
		uploader:        uploader,
		avatarAdminOnly: avatarAdminOnly,
		logger:          logger,
	}
}

// # Email Confirmation

/*
ConfirmEmail activates an account using an emailed token.

Description: Parses the signed token, resolves the embedded email, and
flips the confirmed flag. Re-confirming an already confirmed account is
reported, not rejected, so stale links stay harmless.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - bool: true when this call performed the confirmation, false when the
    account was already confirmed
  - error: Unprocessable for bad tokens, BadRequest for vanished accounts
*/
func (service *Service) ConfirmEmail(context context.Context, token string) (bool, error) {
	email, err := service.tokenParser.ParseEmailToken(token)
	if err != nil {
		return false, apperr.Unprocessable("Invalid token for email verification")
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return false, apperr.BadRequest("Verification error")
	}

	if user.Confirmed {
		return false, nil
	}

	if err := service.userRepository.ConfirmEmail(context, user.ID); err != nil {
		return false, fmt.Errorf("account_service_confirm_failed: %w", err)
	}

	service.logger.Info("email_confirmed", slog.String("user_id", user.ID))

	return true, nil
}

/*
RequestConfirmationEmail re-sends the confirmation email.

Description: Best-effort by design: an unknown address is treated the same
as a known one to avoid account enumeration, and delivery itself happens
in the background.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: true when the account exists and is already confirmed
  - error: never for unknown addresses; reserved for storage failures
*/
func (service *Service) RequestConfirmationEmail(context context.Context, email string) (bool, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		// Unknown address: pretend we sent something.
		return false, nil
	}

	if user.Confirmed {
		return true, nil
	}

	service.sender.SendConfirmationEmail(user)

	return false, nil
}

// # Avatar Management

/*
UpdateAvatar stores a new profile image and persists its URL.

Description: Uploads the image to the media library under the username's
deterministic public ID, then records the returned URL. When the
admin-only policy is enabled, non-admin callers are rejected.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (the authenticated caller)
  - file: io.Reader (image payload)

Returns:
  - *auth.User: The updated account
  - error: Forbidden under the admin-only policy, upload or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, identity *sec.Identity, file io.Reader) (*auth.User, error) {
	if service.avatarAdminOnly && !identity.IsAdmin() {
		return nil, apperr.Forbidden("Avatar changes are restricted to administrators")
	}

	avatarURL, err := service.uploader.UploadAvatar(context, identity.Username, file)
	if err != nil {
		return nil, fmt.Errorf("account_service_avatar_upload_failed: %w", err)
	}

	if err := service.userRepository.UpdateAvatar(context, identity.ID, avatarURL); err != nil {
		return nil, fmt.Errorf("account_service_avatar_update_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("account_service_avatar_reload_failed: %w", err)
	}

	service.logger.Info("avatar_updated", slog.String("user_id", user.ID))

	return user, nil
}

// # Profile

/*
GetProfile retrieves the full account behind an identity.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
