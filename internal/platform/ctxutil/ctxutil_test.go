// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkovalov/contactio/internal/platform/ctxutil"
	"github.com/dkovalov/contactio/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_CurrentUser verifies that the resolved identity can be stored
in context.
*/
func TestContext_CurrentUser(t *testing.T) {
	ctx := context.Background()
	identity := &sec.Identity{
		ID:       "user-123",
		Username: "dmytro",
		Role:     sec.RoleAdmin,
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetCurrentUser(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithCurrentUser(ctx, identity)
	retrieved := ctxutil.GetCurrentUser(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.ID)
	assert.Equal(t, "dmytro", retrieved.Username)
	assert.Equal(t, sec.RoleAdmin, retrieved.Role)
}

/*
TestContext_AccessToken verifies that the raw bearer token survives the
round trip through context.
*/
func TestContext_AccessToken(t *testing.T) {
	ctx := context.Background()

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetAccessToken(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithAccessToken(ctx, "raw-bearer-token")
	assert.Equal(t, "raw-bearer-token", ctxutil.GetAccessToken(ctx))
}
