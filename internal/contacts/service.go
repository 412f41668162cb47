// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/pkg/pagination"
)

// # Service Layer

// Service orchestrates the ownership-scoped contact use cases.
//
// # Ownership
//
// Every operation takes the caller's user ID and treats a contact owned by
// anyone else as nonexistent. NOT_FOUND instead of FORBIDDEN keeps the API
// from leaking which IDs exist.
type Service struct {
	contactRepository ContactRepository
	logger            *slog.Logger
}

// NewService constructs a new contacts [Service].
func NewService(contactRepo ContactRepository, logger *slog.Logger) *Service {
	return &Service{
		contactRepository: contactRepo,
		logger:            logger,
	}
}

// # Inputs

// CreateInput holds the data for a new contact.
type CreateInput struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       Date
	AdditionalInfo string
}

// UpdateInput holds a partial contact update. Nil fields are left untouched.
type UpdateInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	Birthday       *Date
	AdditionalInfo *string
}

// # Operations

/*
Create adds a contact to the caller's address book.

Parameters:
  - context: context.Context
  - userID: string
  - input: CreateInput

Returns:
  - *Contact: The persisted entity with its generated ID
  - error: Conflict on duplicate email, storage failures
*/
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Contact, error) {
	contact := &Contact{
		UserID:         userID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		Birthday:       input.Birthday,
		AdditionalInfo: input.AdditionalInfo,
	}

	if err := service.contactRepository.Create(context, contact); err != nil {
		return nil, err
	}

	service.logger.Info("contact_created",
		slog.String("user_id", userID),
		slog.Int64("contact_id", contact.ID),
	)

	return contact, nil
}

/*
List returns a page of the caller's contacts plus the total count.

Parameters:
  - context: context.Context
  - userID: string
  - filter: Filter
  - params: pagination.Params

Returns:
  - []*Contact: Page of results
  - int: Total matching rows
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, userID string, filter Filter, params pagination.Params) ([]*Contact, int, error) {
	results, total, err := service.contactRepository.List(context, userID, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("contacts_service_list_failed: %w", err)
	}
	return results, total, nil
}

/*
Get returns one of the caller's contacts by ID.

Parameters:
  - context: context.Context
  - userID: string
  - contactID: int64

Returns:
  - *Contact: Hydrated entity
  - error: apperr.NotFound for missing or foreign contacts
*/
func (service *Service) Get(context context.Context, userID string, contactID int64) (*Contact, error) {
	contact, err := service.contactRepository.FindByID(context, contactID)
	if err != nil {
		return nil, err
	}

	// Foreign contacts are indistinguishable from missing ones.
	if contact.UserID != userID {
		return nil, apperr.NotFound("Contact")
	}

	return contact, nil
}

/*
Update applies a partial update to one of the caller's contacts.

Description: Only the supplied fields change; the rest keep their stored
values.

Parameters:
  - context: context.Context
  - userID: string
  - contactID: int64
  - input: UpdateInput

Returns:
  - *Contact: The updated entity
  - error: NotFound, Conflict on duplicate email, storage failures
*/
func (service *Service) Update(context context.Context, userID string, contactID int64, input UpdateInput) (*Contact, error) {
	contact, err := service.Get(context, userID, contactID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FirstName != nil {
		contact.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		contact.LastName = *input.LastName
	}
	if input.Email != nil {
		contact.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		contact.PhoneNumber = *input.PhoneNumber
	}
	if input.Birthday != nil {
		contact.Birthday = *input.Birthday
	}
	if input.AdditionalInfo != nil {
		contact.AdditionalInfo = *input.AdditionalInfo
	}

	if err := service.contactRepository.Update(context, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

/*
Delete removes one of the caller's contacts.

Parameters:
  - context: context.Context
  - userID: string
  - contactID: int64

Returns:
  - error: apperr.NotFound for missing or foreign contacts, storage failures
*/
func (service *Service) Delete(context context.Context, userID string, contactID int64) error {
	contact, err := service.Get(context, userID, contactID)
	if err != nil {
		return err
	}

	if err := service.contactRepository.Delete(context, contact.ID); err != nil {
		return fmt.Errorf("contacts_service_delete_failed: %w", err)
	}

	service.logger.Info("contact_deleted",
		slog.String("user_id", userID),
		slog.Int64("contact_id", contactID),
	)

	return nil
}

/*
UpcomingBirthdays lists the caller's contacts with a birthday in the next
week, today included.

Description: The window is expressed as the explicit set of month/day
pairs covered by [today, today+7]. That representation is immune to month
rollover, year rollover, and includes February 29 whenever it falls in
the window.

Parameters:
  - context: context.Context
  - userID: string
  - now: time.Time

Returns:
  - []*Contact: Matching contacts ordered by name
  - error: Retrieval failures
*/
func (service *Service) UpcomingBirthdays(context context.Context, userID string, now time.Time) ([]*Contact, error) {
	pairs := BirthdayWindow(now)

	results, err := service.contactRepository.FindWithBirthdays(context, userID, pairs)
	if err != nil {
		return nil, fmt.Errorf("contacts_service_birthdays_failed: %w", err)
	}

	return results, nil
}

// BirthdayWindow returns the "MM-DD" pairs covered by the upcoming-birthday
// window starting at now.
//
// Stepping real calendar days lets the standard library handle month
// lengths and leap years; Feb 29 appears exactly when the window crosses
// it in a leap year.
func BirthdayWindow(now time.Time) []string {
	pairs := make([]string, 0, BirthdayWindowDays)
	for offset := 0; offset < BirthdayWindowDays; offset++ {
		day := now.AddDate(0, 0, offset)
		pairs = append(pairs, day.Format("01-02"))
	}
	return pairs
}
