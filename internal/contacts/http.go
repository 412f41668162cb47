// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package contacts

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/internal/platform/middleware"
	requestutil "github.com/dkovalov/contactio/internal/platform/request"
	"github.com/dkovalov/contactio/internal/platform/respond"
	"github.com/dkovalov/contactio/internal/platform/validate"
	"github.com/dkovalov/contactio/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the contact CRUD HTTP endpoints.
type Handler struct {
	contactService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{contactService: service}
}

// Routes returns a [chi.Router] with the contacts surface. Every endpoint
// requires an authenticated caller.
//
// # Endpoints
//   - GET    /                    : List contacts (search, limit, offset).
//   - POST   /                    : Create a contact.
//   - GET    /{contactID}         : Fetch one contact.
//   - PUT    /{contactID}         : Partially update a contact.
//   - DELETE /{contactID}         : Delete a contact.
//   - GET    /birthdays/upcoming  : Contacts with a birthday this week.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth())

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/birthdays/upcoming", handler.upcomingBirthdays)
	router.Get("/{contactID}", handler.get)
	router.Put("/{contactID}", handler.update)
	router.Delete("/{contactID}", handler.delete)

	return router
}

// # Request Payloads

type createContactRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       string `json:"birthday"`
	AdditionalInfo string `json:"additional_info"`
}

type updateContactRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	PhoneNumber    *string `json:"phone_number"`
	Birthday       *string `json:"birthday"`
	AdditionalInfo *string `json:"additional_info"`
}

// contactIDParam parses the {contactID} path segment.
func contactIDParam(request *http.Request) (int64, error) {
	raw := requestutil.Param(request, "contactID")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.BadRequest("Invalid contact id")
	}

	return id, nil
}

/*
List returns a paginated, searchable page of the caller's contacts.

GET /api/contacts/?search=&limit=&offset=

Response:
  - 200: PaginatedEnvelope: Contacts plus limit/offset/total metadata
  - 401: ErrUnauthorized: Not authenticated
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	filter := Filter{Search: request.URL.Query().Get(FieldSearch)}

	results, total, err := handler.contactService.List(request.Context(), identity.ID, filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if results == nil {
		results = []*Contact{}
	}

	respond.Paginated(writer, results, pagination.NewMeta(params, total))
}

/*
Create adds a contact to the caller's address book.

POST /api/contacts/

Request:
  - Body: createContactRequest

Response:
  - 201: Contact: The persisted entity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already present
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createContactRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, MaxNameLength).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, MaxNameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPhoneNumber, input.PhoneNumber).
		Phone(FieldPhoneNumber, input.PhoneNumber).
		Required(FieldBirthday, input.Birthday).
		Date(FieldBirthday, input.Birthday).
		MaxLen(FieldAdditionalInfo, input.AdditionalInfo, MaxAdditionalInfoLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	birthday, err := ParseDate(input.Birthday)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldBirthday, "must be a valid date"))
		return
	}

	contact, err := handler.contactService.Create(request.Context(), identity.ID, CreateInput{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		Birthday:       birthday,
		AdditionalInfo: input.AdditionalInfo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, contact)
}

/*
Get fetches one of the caller's contacts.

GET /api/contacts/{contactID}

Response:
  - 200: Contact
  - 404: ErrNotFound: Missing or owned by someone else
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contactID, err := contactIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contact, err := handler.contactService.Get(request.Context(), identity.ID, contactID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, contact)
}

/*
Update applies a partial update to one of the caller's contacts.

PUT /api/contacts/{contactID}

Description: Absent fields are left untouched; present fields are
validated and replaced.

Request:
  - Body: updateContactRequest (all fields optional)

Response:
  - 200: Contact: The updated entity
  - 404: ErrNotFound: Missing or owned by someone else
  - 409: ErrConflict: Email already present
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contactID, err := contactIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateContactRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.FirstName != nil {
		validator.Required(FieldFirstName, *input.FirstName).
			MaxLen(FieldFirstName, *input.FirstName, MaxNameLength)
	}
	if input.LastName != nil {
		validator.Required(FieldLastName, *input.LastName).
			MaxLen(FieldLastName, *input.LastName, MaxNameLength)
	}
	if input.Email != nil {
		validator.Email(FieldEmail, *input.Email)
	}
	if input.PhoneNumber != nil {
		validator.Phone(FieldPhoneNumber, *input.PhoneNumber)
	}
	if input.Birthday != nil {
		validator.Date(FieldBirthday, *input.Birthday)
	}
	if input.AdditionalInfo != nil {
		validator.MaxLen(FieldAdditionalInfo, *input.AdditionalInfo, MaxAdditionalInfoLength)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateInput{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		AdditionalInfo: input.AdditionalInfo,
	}

	if input.Birthday != nil {
		birthday, err := ParseDate(*input.Birthday)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldBirthday, "must be a valid date"))
			return
		}
		serviceInput.Birthday = &birthday
	}

	contact, err := handler.contactService.Update(request.Context(), identity.ID, contactID, serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, contact)
}

/*
Delete removes one of the caller's contacts.

DELETE /api/contacts/{contactID}

Response:
  - 204: No Content
  - 404: ErrNotFound: Missing or owned by someone else
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contactID, err := contactIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.contactService.Delete(request.Context(), identity.ID, contactID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
UpcomingBirthdays lists contacts with a birthday in the next week.

GET /api/contacts/birthdays/upcoming

Response:
  - 200: []Contact: Contacts whose birthday falls within today..today+7
*/
func (handler *Handler) upcomingBirthdays(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	results, err := handler.contactService.UpcomingBirthdays(request.Context(), identity.ID, time.Now())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if results == nil {
		results = []*Contact{}
	}

	respond.OK(writer, results)
}
