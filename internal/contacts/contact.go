// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

/*
Package contacts implements the per-user address book.

Every contact belongs to exactly one owner, and every read or mutation is
scoped to that owner. A caller asking for someone else's contact learns
nothing: the answer is the same NOT_FOUND they would get for a contact that
never existed.
*/
package contacts

import (
	"fmt"
	"strings"
	"time"
)

// # Domain Entities

// Date is a calendar date without a time component. It serializes as
// "YYYY-MM-DD", matching the wire format of the birthday field.
type Date struct {
	time.Time
}

// NewDate builds a Date from a calendar triple.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string into a Date.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return Date{}, fmt.Errorf("contacts: invalid date %q: %w", value, err)
	}
	return Date{Time: parsed}, nil
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

// UnmarshalJSON parses a quoted "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(trimmed)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Contact represents one address-book entry.
type Contact struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"-"` // Ownership is implicit in the authenticated route.
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Birthday       Date      `json:"birthday"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// # Field Identifiers

// Field names for validation and JSON mapping in the contacts domain.
const (
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldEmail          = "email"
	FieldPhoneNumber    = "phone_number"
	FieldBirthday       = "birthday"
	FieldAdditionalInfo = "additional_info"
	FieldSearch         = "search"
)

// # Constraints

const (
	// MaxNameLength bounds first and last names.
	MaxNameLength = 100

	// MaxAdditionalInfoLength bounds the free-form notes field.
	MaxAdditionalInfoLength = 500

	// BirthdayWindowDays is the length of the upcoming-birthday window,
	// today included.
	BirthdayWindowDays = 8
)
