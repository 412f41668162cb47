// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/internal/platform/sec"
	"github.com/dkovalov/contactio/internal/users/account"
	"github.com/dkovalov/contactio/internal/users/auth"
)

// # Test Fakes

type fakeUserRepository struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	found := *user
	return &found, nil
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) ConfirmEmail(_ context.Context, userID string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Confirmed = true
	return nil
}

func (r *fakeUserRepository) UpdateAvatar(_ context.Context, userID, avatarURL string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.AvatarURL = avatarURL
	return nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

// fakeTokenParser resolves tokens via a fixed mapping.
type fakeTokenParser struct {
	emails map[string]string // token -> email
}

func (p *fakeTokenParser) ParseEmailToken(token string) (string, error) {
	email, ok := p.emails[token]
	if !ok {
		return "", errors.New("sec: invalid email token")
	}
	return email, nil
}

// fakeSender counts confirmation-email dispatches.
type fakeSender struct {
	sentTo []string
}

func (s *fakeSender) SendConfirmationEmail(user *auth.User) {
	s.sentTo = append(s.sentTo, user.Email)
}

// fakeUploader returns a deterministic URL per username.
type fakeUploader struct {
	failWith error
}

func (u *fakeUploader) UploadAvatar(_ context.Context, username string, _ io.Reader) (string, error) {
	if u.failWith != nil {
		return "", u.failWith
	}
	return "https://cdn.example.com/avatars/" + username, nil
}

// # Harness

type accountFixture struct {
	service  *account.Service
	users    *fakeUserRepository
	parser   *fakeTokenParser
	sender   *fakeSender
	uploader *fakeUploader
}

func newAccountFixture(t *testing.T, avatarAdminOnly bool) *accountFixture {
	t.Helper()

	users := newFakeUserRepository()
	parser := &fakeTokenParser{emails: make(map[string]string)}
	sender := &fakeSender{}
	uploader := &fakeUploader{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := account.NewService(users, parser, sender, uploader, avatarAdminOnly, logger)

	return &accountFixture{
		service:  service,
		users:    users,
		parser:   parser,
		sender:   sender,
		uploader: uploader,
	}
}

func seedUser(t *testing.T, fixture *accountFixture, confirmed bool) *auth.User {
	t.Helper()

	user := &auth.User{
		ID:        "user-1",
		Username:  "dmytro",
		Email:     "dmytro@example.com",
		Confirmed: confirmed,
		Role:      sec.RoleUser,
	}
	require.NoError(t, fixture.users.Create(context.Background(), user))
	return user
}

// # Email Confirmation

/*
TestService_ConfirmEmail tests the token-driven confirmation flow.
*/
func TestService_ConfirmEmail(t *testing.T) {
	fixture := newAccountFixture(t, false)
	seedUser(t, fixture, false)
	fixture.parser.emails["valid-token"] = "dmytro@example.com"

	confirmed, err := fixture.service.ConfirmEmail(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.True(t, confirmed)

	stored, err := fixture.users.FindByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)
}

/*
TestService_ConfirmEmail_AlreadyConfirmed tests that a stale link is harmless.
*/
func TestService_ConfirmEmail_AlreadyConfirmed(t *testing.T) {
	fixture := newAccountFixture(t, false)
	seedUser(t, fixture, true)
	fixture.parser.emails["valid-token"] = "dmytro@example.com"

	confirmed, err := fixture.service.ConfirmEmail(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.False(t, confirmed)
}

/*
TestService_ConfirmEmail_Errors tests the error taxonomy for bad tokens and
vanished accounts.
*/
func TestService_ConfirmEmail_Errors(t *testing.T) {
	fixture := newAccountFixture(t, false)
	fixture.parser.emails["orphan-token"] = "nobody@example.com"

	t.Run("malformed_token", func(t *testing.T) {
		_, err := fixture.service.ConfirmEmail(context.Background(), "garbage")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNPROCESSABLE", ae.Code)
		assert.Equal(t, "Invalid token for email verification", ae.Message)
	})

	t.Run("vanished_account", func(t *testing.T) {
		_, err := fixture.service.ConfirmEmail(context.Background(), "orphan-token")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "BAD_REQUEST", ae.Code)
		assert.Equal(t, "Verification error", ae.Message)
	})
}

/*
TestService_RequestConfirmationEmail tests the resend flow, including its
anti-enumeration behavior.
*/
func TestService_RequestConfirmationEmail(t *testing.T) {
	fixture := newAccountFixture(t, false)
	seedUser(t, fixture, false)

	t.Run("unconfirmed_account_gets_email", func(t *testing.T) {
		alreadyConfirmed, err := fixture.service.RequestConfirmationEmail(context.Background(), "dmytro@example.com")
		require.NoError(t, err)
		assert.False(t, alreadyConfirmed)
		assert.Equal(t, []string{"dmytro@example.com"}, fixture.sender.sentTo)
	})

	t.Run("unknown_address_is_silent", func(t *testing.T) {
		before := len(fixture.sender.sentTo)

		alreadyConfirmed, err := fixture.service.RequestConfirmationEmail(context.Background(), "ghost@example.com")
		require.NoError(t, err)
		assert.False(t, alreadyConfirmed)
		assert.Len(t, fixture.sender.sentTo, before)
	})

	t.Run("confirmed_account_skips_email", func(t *testing.T) {
		require.NoError(t, fixture.users.ConfirmEmail(context.Background(), "user-1"))
		before := len(fixture.sender.sentTo)

		alreadyConfirmed, err := fixture.service.RequestConfirmationEmail(context.Background(), "dmytro@example.com")
		require.NoError(t, err)
		assert.True(t, alreadyConfirmed)
		assert.Len(t, fixture.sender.sentTo, before)
	})
}

// # Avatar Management

/*
TestService_UpdateAvatar tests the upload-then-persist flow.
*/
func TestService_UpdateAvatar(t *testing.T) {
	fixture := newAccountFixture(t, false)
	seedUser(t, fixture, true)

	identity := &sec.Identity{ID: "user-1", Username: "dmytro", Role: sec.RoleUser}

	user, err := fixture.service.UpdateAvatar(context.Background(), identity, strings.NewReader("fake-image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/dmytro", user.AvatarURL)
}

/*
TestService_UpdateAvatar_AdminOnly tests the restriction policy flag.
*/
func TestService_UpdateAvatar_AdminOnly(t *testing.T) {
	fixture := newAccountFixture(t, true)
	seedUser(t, fixture, true)

	t.Run("regular_user_forbidden", func(t *testing.T) {
		identity := &sec.Identity{ID: "user-1", Username: "dmytro", Role: sec.RoleUser}

		_, err := fixture.service.UpdateAvatar(context.Background(), identity, strings.NewReader("img"))
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "FORBIDDEN", ae.Code)
	})

	t.Run("admin_allowed", func(t *testing.T) {
		admin := &auth.User{ID: "admin-1", Username: "root", Email: "root@example.com", Role: sec.RoleAdmin}
		require.NoError(t, fixture.users.Create(context.Background(), admin))

		identity := &sec.Identity{ID: "admin-1", Username: "root", Role: sec.RoleAdmin}

		user, err := fixture.service.UpdateAvatar(context.Background(), identity, strings.NewReader("img"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/avatars/root", user.AvatarURL)
	})
}

/*
TestService_UpdateAvatar_UploadFailure tests that a storage failure surfaces
without touching the account.
*/
func TestService_UpdateAvatar_UploadFailure(t *testing.T) {
	fixture := newAccountFixture(t, false)
	seedUser(t, fixture, true)
	fixture.uploader.failWith = errors.New("upload: cloudinary unreachable")

	identity := &sec.Identity{ID: "user-1", Username: "dmytro", Role: sec.RoleUser}

	_, err := fixture.service.UpdateAvatar(context.Background(), identity, strings.NewReader("img"))
	require.Error(t, err)

	stored, findErr := fixture.users.FindByID(context.Background(), "user-1")
	require.NoError(t, findErr)
	assert.Empty(t, stored.AvatarURL)
}

// # Profile

/*
TestService_GetProfile tests profile retrieval by identity.
*/
func TestService_GetProfile(t *testing.T) {
	fixture := newAccountFixture(t, false)
	seedUser(t, fixture, true)

	user, err := fixture.service.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "dmytro", user.Username)

	_, err = fixture.service.GetProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
