// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

/*
Package upload handles profile image hosting.

Avatars are stored on Cloudinary under a deterministic public ID derived
from the username, so re-uploading replaces the previous image instead of
accumulating orphans. Accounts that never upload an avatar fall back to a
Gravatar URL derived from their email address.
*/
package upload

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// avatarSize is the square edge length avatars are normalized to.
const avatarSize = 250

// AvatarUploader stores a profile image and returns its public URL.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, username string, file io.Reader) (string, error)
}

// # Cloudinary Implementation

// CloudinaryUploader stores avatars in a Cloudinary media library.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	logger *slog.Logger
}

// NewCloudinaryUploader initializes the Cloudinary client from credentials.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string, logger *slog.Logger) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("upload: failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryUploader{client: client, logger: logger}, nil
}

// UploadAvatar stores the image under contactio/avatars/{username},
// overwriting any previous upload, and returns a URL cropped to a
// 250x250 square.
func (u *CloudinaryUploader) UploadAvatar(ctx context.Context, username string, file io.Reader) (string, error) {
	publicID := fmt.Sprintf("contactio/avatars/%s", username)

	result, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Overwrite:      api.Bool(true),
		Transformation: fmt.Sprintf("c_fill,w_%d,h_%d", avatarSize, avatarSize),
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload: cloudinary upload failed: %w", err)
	}

	u.logger.Info("avatar_uploaded",
		slog.String("username", username),
		slog.String("public_id", publicID),
	)

	return result.SecureURL, nil
}

// # Disabled Implementation

// DisabledUploader rejects uploads when no media library is configured.
// Registration still works because new accounts fall back to Gravatar.
type DisabledUploader struct {
	logger *slog.Logger
}

// NewDisabledUploader constructs an uploader that rejects every upload.
func NewDisabledUploader(logger *slog.Logger) *DisabledUploader {
	return &DisabledUploader{logger: logger}
}

// UploadAvatar always fails because no storage backend is configured.
func (u *DisabledUploader) UploadAvatar(_ context.Context, username string, _ io.Reader) (string, error) {
	u.logger.Warn("avatar_upload_rejected_no_storage_configured",
		slog.String("username", username),
	)
	return "", errors.New("upload: avatar storage is not configured")
}

// # Default Avatars

// GravatarURL derives a best-effort default avatar from an email address.
// Gravatar serves a generated identicon when the address is unknown, so
// the URL is always usable.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	digest := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", hex.EncodeToString(digest[:]), avatarSize)
}
