// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package contacts

import (
	"context"
)

// # Contact Data Access

// Filter narrows a contact listing.
type Filter struct {
	// Search matches case-insensitively against first name, last name
	// and email. Empty means no filtering.
	Search string
}

// ContactRepository defines the data access contract for contacts.
type ContactRepository interface {

	/*
		Create persists a new contact and fills in its generated ID and
		timestamps.

		Parameters:
		  - context: context.Context
		  - contact: *Contact

		Returns:
		  - error: apperr.Conflict on duplicate email, persistence failures
	*/
	Create(context context.Context, contact *Contact) error

	/*
		FindByID returns the contact with the given ID, whoever owns it.
		The service layer enforces ownership.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Contact: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(context context.Context, id int64) (*Contact, error)

	/*
		List returns one owner's contacts matching the filter, newest
		first, plus the unpaginated total.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Contact: Page of results
		  - int: Total matching rows
		  - error: Database retrieval failures
	*/
	List(context context.Context, userID string, filter Filter, limit, offset int) ([]*Contact, int, error)

	/*
		Update persists changes to all mutable contact fields.

		Parameters:
		  - context: context.Context
		  - contact: *Contact

		Returns:
		  - error: apperr.Conflict on duplicate email, persistence failures
	*/
	Update(context context.Context, contact *Contact) error

	/*
		Delete permanently removes a contact row.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id int64) error

	/*
		FindWithBirthdays returns one owner's contacts whose birthday
		(month and day) falls on any of the given "MM-DD" pairs.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - monthDayPairs: []string

		Returns:
		  - []*Contact: Matching contacts ordered by name
		  - error: Database retrieval failures
	*/
	FindWithBirthdays(context context.Context, userID string, monthDayPairs []string) ([]*Contact, error)
}
