// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

// PostgreSQL implementation of the contacts repository.
//
// # Notables
//
//   - Window Function: COUNT(*) OVER() retrieves total result counts
//     without a second query.
//   - ILIKE search over first name, last name, and email.
//   - Birthday matching compares to_char(birthday, 'MM-DD') against a
//     precomputed set of month/day pairs, which stays correct across
//     month and year boundaries.

package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/internal/platform/dberr"
)

// contactRepository implements the [ContactRepository] interface using pgx.
type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository constructs a PostgreSQL backed contact store.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactColumns = `id, user_id, first_name, last_name, email, phone_number, birthday, additional_info, created_at, updated_at`

func scanContact(row pgx.Row) (*Contact, error) {
	contact := &Contact{}
	var additionalInfo *string

	err := row.Scan(
		&contact.ID,
		&contact.UserID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.PhoneNumber,
		&contact.Birthday.Time,
		&additionalInfo,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if additionalInfo != nil {
		contact.AdditionalInfo = *additionalInfo
	}

	return contact, nil
}

/*
Create persists a new contact record.

Description: Returns the generated ID and server timestamps into the
entity. Duplicate emails surface as Conflict.

Parameters:
  - context: context.Context
  - contact: *Contact

Returns:
  - error: apperr.Conflict, constraint violations or connectivity errors
*/
func (repository *contactRepository) Create(context context.Context, contact *Contact) error {
	const query = `
		INSERT INTO contacts (
			user_id, first_name, last_name, email, phone_number, birthday, additional_info, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
		RETURNING id`

	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		contact.UserID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday.Time,
		contact.AdditionalInfo,
		contact.CreatedAt,
		contact.UpdatedAt,
	).Scan(&contact.ID)

	if err != nil {
		return dberr.Wrap(err, "Contact")
	}

	return nil
}

/*
FindByID retrieves a contact by its primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Contact: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *contactRepository) FindByID(context context.Context, id int64) (*Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	contact, err := scanContact(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Contact")
		}
		return nil, fmt.Errorf("postgres_contact_repo_find_failed: %w", err)
	}

	return contact, nil
}

/*
List returns a filtered, paginated slice of one owner's contacts plus the
total count.

Description: Uses COUNT(*) OVER() so the page and the total come back in a
single round-trip. The search term matches first name, last name, and
email case-insensitively.

Parameters:
  - context: context.Context
  - userID: string
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Contact: Page of results, newest first
  - int: Total matching rows
  - error: Database retrieval failures
*/
func (repository *contactRepository) List(context context.Context, userID string, filter Filter, limit, offset int) ([]*Contact, int, error) {

	var queryBuilder strings.Builder
	args := []any{userID}
	argID := 2

	queryBuilder.WriteString(`
		SELECT ` + contactColumns + `, COUNT(*) OVER() AS total_count
		FROM contacts
		WHERE user_id = $1`)

	// Dynamic search clause
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	queryBuilder.WriteString(" ORDER BY id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_contact_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var results []*Contact
	total := 0

	for rows.Next() {
		contact := &Contact{}
		var additionalInfo *string

		err := rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.FirstName,
			&contact.LastName,
			&contact.Email,
			&contact.PhoneNumber,
			&contact.Birthday.Time,
			&additionalInfo,
			&contact.CreatedAt,
			&contact.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_contact_repo_list_scan_failed: %w", err)
		}

		if additionalInfo != nil {
			contact.AdditionalInfo = *additionalInfo
		}

		results = append(results, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_contact_repo_list_rows_failed: %w", err)
	}

	return results, total, nil
}

/*
Update persists all mutable contact fields.

Parameters:
  - context: context.Context
  - contact: *Contact

Returns:
  - error: apperr.Conflict on duplicate email, update failures
*/
func (repository *contactRepository) Update(context context.Context, contact *Contact) error {
	const query = `
		UPDATE contacts
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
		    birthday = $6, additional_info = NULLIF($7, ''), updated_at = $8
		WHERE id = $1`

	contact.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		contact.ID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday.Time,
		contact.AdditionalInfo,
		contact.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Contact")
	}

	return nil
}

/*
Delete permanently removes a contact row.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: Deletion failures
*/
func (repository *contactRepository) Delete(context context.Context, id int64) error {
	const query = `DELETE FROM contacts WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_contact_repo_delete_failed: %w", err)
	}

	return nil
}

/*
FindWithBirthdays returns one owner's contacts whose birthday month/day
matches any of the given "MM-DD" pairs.

Description: Comparing formatted month/day pairs sidesteps every edge the
naive day-of-year arithmetic gets wrong: month rollover, year rollover,
and birthdays stored with arbitrary birth years.

Parameters:
  - context: context.Context
  - userID: string
  - monthDayPairs: []string

Returns:
  - []*Contact: Matching contacts ordered by name
  - error: Database retrieval failures
*/
func (repository *contactRepository) FindWithBirthdays(context context.Context, userID string, monthDayPairs []string) ([]*Contact, error) {
	const query = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1 AND to_char(birthday, 'MM-DD') = ANY($2)
		ORDER BY first_name, last_name`

	rows, err := repository.pool.Query(context, query, userID, monthDayPairs)
	if err != nil {
		return nil, fmt.Errorf("postgres_contact_repo_birthdays_failed: %w", err)
	}
	defer rows.Close()

	var results []*Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_contact_repo_birthdays_scan_failed: %w", err)
		}
		results = append(results, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_contact_repo_birthdays_rows_failed: %w", err)
	}

	return results, nil
}
