// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// RefreshTokenLength is the byte length of the random refresh-token secret.
	RefreshTokenLength = 32

	// ConfirmationTokenTTL is how long an emailed address-confirmation token
	// remains valid. Long-lived (7 days) as users might not check email
	// immediately.
	ConfirmationTokenTTL = 7 * 24 * time.Hour

	// ResetTokenTTL is how long an emailed password-reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MaxUsernameLength bounds usernames; they double as Cloudinary public IDs.
	MaxUsernameLength = 50
)
