// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalov/contactio/internal/platform/constants"
	"github.com/dkovalov/contactio/internal/platform/middleware"
	requestutil "github.com/dkovalov/contactio/internal/platform/request"
	"github.com/dkovalov/contactio/internal/platform/respond"
	"github.com/dkovalov/contactio/internal/platform/validate"
	"github.com/dkovalov/contactio/internal/users/auth"
)

// maxAvatarUploadBytes caps the multipart memory for avatar uploads (8 MiB).
const maxAvatarUploadBytes = 8 << 20

// # Definitions & Constructors

// Handler implements the authenticated user-surface HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the users surface.
//
// # Endpoints
//   - GET   /me                       : Current user profile (rate-limited).
//   - GET   /confirmed_email/{token}  : Email confirmation callback.
//   - POST  /request_email            : Re-send the confirmation email.
//   - PATCH /avatar                   : Replace the profile image.
func (handler *Handler) Routes(baseContext context.Context) chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/confirmed_email/{token}", handler.confirmEmail)
	router.Post("/request_email", handler.requestEmail)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.With(middleware.RouteRateLimit(baseContext, constants.MeRateLimitPerMinute)).
			Get("/me", handler.me)
		r.Patch("/avatar", handler.updateAvatar)
	})

	return router
}

// # Request Payloads

type requestEmailRequest struct {
	Email string `json:"email"`
}

/*
Me returns the authenticated user's session payload.

GET /api/users/me

Description: Served from the request context, which the authentication
middleware filled via the blacklist/cache/database resolution chain. This
is the endpoint the per-route rate limit protects.

Response:
  - 200: Identity: The current user
  - 401: ErrUnauthorized: Not authenticated
  - 429: TooManyRequests: Per-IP limit exceeded
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
ConfirmEmail activates an account from an emailed link.

GET /api/users/confirmed_email/{token}

Description: The landing endpoint of the confirmation email. Idempotent:
revisiting a consumed link reports the account as already confirmed.

Response:
  - 200: Message: Confirmed (or already confirmed)
  - 400: ErrBadRequest: Account behind the token no longer exists
  - 422: ErrUnprocessable: Malformed or expired token
*/
func (handler *Handler) confirmEmail(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, auth.FieldToken)

	confirmedNow, err := handler.accountService.ConfirmEmail(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Your email is already confirmed"
	if confirmedNow {
		message = "Email confirmed"
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: message,
	})
}

/*
RequestEmail re-sends the address-confirmation email.

POST /api/users/request_email

Description: Responds identically for known and unknown addresses to avoid
account enumeration; delivery happens in the background.

Request:
  - Body: requestEmailRequest (Email)

Response:
  - 200: Message: Check-your-email (or already confirmed)
*/
func (handler *Handler) requestEmail(writer http.ResponseWriter, request *http.Request) {
	var input requestEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).Email(auth.FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	alreadyConfirmed, err := handler.accountService.RequestConfirmationEmail(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Check your email for confirmation"
	if alreadyConfirmed {
		message = "Your email is already confirmed"
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: message,
	})
}

/*
UpdateAvatar replaces the authenticated user's profile image.

PATCH /api/users/avatar

Description: Accepts a multipart form with a "file" part, uploads it to the
media library, and persists the resulting URL.

Request:
  - Multipart: file (image payload)

Response:
  - 200: User: Updated profile
  - 400: ErrBadRequest: Missing or unreadable file part
  - 403: ErrForbidden: Admin-only policy in effect
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(maxAvatarUploadBytes); err != nil {
		respond.Error(writer, request, validate.RequiredError("file", "must be a multipart upload"))
		return
	}

	file, _, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("file", "is required"))
		return
	}
	defer file.Close()

	user, err := handler.accountService.UpdateAvatar(request.Context(), identity, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
