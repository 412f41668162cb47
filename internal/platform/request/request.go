// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/internal/platform/ctxutil"
	"github.com/dkovalov/contactio/internal/platform/sec"
	"github.com/dkovalov/contactio/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
CurrentUser extracts the resolved user identity from the request context.

Returns nil if the request is not authenticated.
*/
func CurrentUser(request *http.Request) *sec.Identity {
	return ctxutil.GetCurrentUser(request.Context())
}

/*
RequiredUser ensures the request is authenticated and returns the identity.

Returns:
  - *sec.Identity: The resolved current user
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredUser(request *http.Request) (*sec.Identity, error) {

	// Get the resolved identity
	user := ctxutil.GetCurrentUser(request.Context())

	// If the user is not authenticated, return an error
	if user == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return user, nil
}

/*
AccessToken returns the raw bearer token the request was authenticated with.

Returns:
  - string: The raw access token
  - error: apperr.Unauthorized if the request carried no bearer token
*/
func AccessToken(request *http.Request) (string, error) {

	// Get the raw token captured by the authentication middleware
	token := ctxutil.GetAccessToken(request.Context())

	// If the request is anonymous, return an error
	if token == "" {
		return "", apperr.Unauthorized("Authentication required")
	}

	return token, nil
}
