// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/internal/platform/ctxutil"
	"github.com/dkovalov/contactio/internal/platform/sec"
)

// # Authentication

// UserResolver turns a bearer token into the identity it represents.
// The auth service implements this: it consults the token blacklist and
// the user cache before falling back to the database.
type UserResolver interface {
	GetCurrentUser(ctx context.Context, accessToken string) (*sec.Identity, error)
}

// Authenticate validates the Authorization header and injects the resolved
// identity into the request context. Requests without a token pass through
// unauthenticated; downstream guards decide whether that is acceptable.
func Authenticate(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Extract the token from the Authorization header
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
				return
			}
			token := parts[1]

			// 2. Resolve the identity behind the token
			identity, err := resolver.GetCurrentUser(request.Context(), token)
			if err != nil {
				appError := apperr.As(err)
				if appError == nil {
					appError = apperr.Unauthorized("Could not validate credentials")
				}
				writeError(writer, appError.HTTPStatus, appError.Code, appError.Message)
				return
			}

			// 3. Inject identity and the raw token (logout needs it) into context
			ctx := ctxutil.WithCurrentUser(request.Context(), identity)
			ctx = ctxutil.WithAccessToken(ctx, token)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Authorization Guards

// RequireAuth rejects requests that carry no authenticated identity.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetCurrentUser(request.Context()) == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireRole rejects authenticated users below the given role.
func RequireRole(minimum sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			identity := ctxutil.GetCurrentUser(request.Context())
			if identity == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
				return
			}

			if !identity.Role.AtLeast(minimum) {
				writeError(writer, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
