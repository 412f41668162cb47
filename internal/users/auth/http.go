// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

/*
HTTP delivery layer for the authentication lifecycle.

It implements the gateway from account creation through session management
to password recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: RESTful JSON, except login which accepts form data for
    OAuth2-password-flow client compatibility.
  - Security: JWT orchestration with refresh tokens carried in the body.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalov/contactio/internal/platform/middleware"
	requestutil "github.com/dkovalov/contactio/internal/platform/request"
	"github.com/dkovalov/contactio/internal/platform/respond"
	"github.com/dkovalov/contactio/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points: registration,
// login, token rotation, logout, and password recovery callbacks.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register                 : Creates a new account.
//   - POST /login                    : Authenticates (form data) and returns a token pair.
//   - POST /refresh                  : Rotates a refresh token.
//   - POST /logout                   : Revokes the session (requires Bearer).
//   - POST /request-reset-password   : Emails a password-reset link.
//   - POST /reset-password           : Applies a new password via emailed token.
//   - GET  /reset_password/{token}   : Pre-flight check of a reset token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/request-reset-password", handler.requestResetPassword)
	router.Post("/reset-password", handler.resetPassword)
	router.Get("/reset_password/{token}", handler.checkResetToken)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type requestResetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

/*
Register handles the creation of a new user account.

POST /api/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new unconfirmed user profile. The confirmation email is dispatched in
the background.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and issues a token pair.

POST /api/auth/login

Description: Accepts form-encoded credentials (OAuth2 password-flow style),
verifies them, and returns a bearer access token plus rotated refresh token.

Request:
  - Form: username, password

Response:
  - 200: TokenPair: {access_token, refresh_token, token_type}
  - 401: ErrUnauthorized: Bad credentials or unconfirmed email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	username := request.PostFormValue(FieldUsername)
	password := request.PostFormValue(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Required(FieldPassword, password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Authenticate(request.Context(), username, password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.IssueTokens(
		request.Context(),
		user,
		middleware.RealIP(request),
		request.UserAgent(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
Refresh rotates a refresh token into a new token pair.

POST /api/auth/refresh

Description: Validates the presented refresh token, revokes it, and issues
a fresh access/refresh pair.

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: TokenPair: New session credentials
  - 401: ErrUnauthorized: Token wrong or already revoked
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "is required"))
		return
	}

	pair, err := handler.authService.Refresh(
		request.Context(),
		input.RefreshToken,
		middleware.RealIP(request),
		request.UserAgent(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
Logout terminates the current session.

POST /api/auth/logout

Description: Blacklists the presenting access token for its remaining
lifetime and revokes the refresh token supplied in the body. Idempotent.

Request:
  - Header: Authorization Bearer token (required)
  - Body: logoutRequest (RefreshToken, optional)

Response:
  - 204: No Content: Session terminated
  - 401: ErrUnauthorized: Missing or invalid bearer token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	accessToken, err := requestutil.AccessToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input logoutRequest
	// Body is optional; a missing refresh token only skips the DB half.
	_ = requestutil.DecodeJSON(request, &input)

	if err := handler.authService.Logout(request.Context(), accessToken, input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
RequestResetPassword initiates the password recovery flow.

POST /api/auth/request-reset-password

Description: Emails a signed reset link to the given address.

Request:
  - Body: requestResetRequest (Email)

Response:
  - 200: Success: Reset link sent
  - 404: ErrNotFound: Email not registered
*/
func (handler *Handler) requestResetPassword(writer http.ResponseWriter, request *http.Request) {
	var input requestResetRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.SendPasswordResetEmail(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Check your email for the reset link.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/auth/reset-password

Description: Validates the emailed token and applies the new password.

Request:
  - Body: resetPasswordRequest (Token, NewPassword)

Response:
  - 200: Success: Password updated
  - 422: ErrUnprocessable: Malformed or expired token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

/*
CheckResetToken validates a reset token before the form is shown.

GET /api/auth/reset_password/{token}

Description: Lets a reset form verify the link and display the account's
email before the user types a new password.

Response:
  - 200: {email}: Token is valid
  - 400: ErrBadRequest: Invalid or expired token
*/
func (handler *Handler) checkResetToken(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)

	email, err := handler.authService.ValidateResetToken(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldEmail:   email,
		FieldMessage: "Token is valid",
	})
}
