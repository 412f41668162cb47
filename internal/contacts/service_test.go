// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package contacts_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalov/contactio/internal/contacts"
	"github.com/dkovalov/contactio/internal/platform/apperr"
	"github.com/dkovalov/contactio/pkg/pagination"
	"github.com/dkovalov/contactio/pkg/pointer"
)

// fakeContactRepository is an in-memory ContactRepository for service tests.
type fakeContactRepository struct {
	contacts map[int64]*contacts.Contact
	nextID   int64
}

func newFakeContactRepository() *fakeContactRepository {
	return &fakeContactRepository{contacts: make(map[int64]*contacts.Contact), nextID: 1}
}

func (r *fakeContactRepository) Create(_ context.Context, contact *contacts.Contact) error {
	contact.ID = r.nextID
	r.nextID++
	stored := *contact
	r.contacts[contact.ID] = &stored
	return nil
}

func (r *fakeContactRepository) FindByID(_ context.Context, id int64) (*contacts.Contact, error) {
	contact, ok := r.contacts[id]
	if !ok {
		return nil, apperr.NotFound("Contact")
	}
	found := *contact
	return &found, nil
}

func (r *fakeContactRepository) List(_ context.Context, userID string, filter contacts.Filter, limit, offset int) ([]*contacts.Contact, int, error) {
	var results []*contacts.Contact
	for _, contact := range r.contacts {
		if contact.UserID == userID {
			found := *contact
			results = append(results, &found)
		}
	}
	return results, len(results), nil
}

func (r *fakeContactRepository) Update(_ context.Context, contact *contacts.Contact) error {
	if _, ok := r.contacts[contact.ID]; !ok {
		return apperr.NotFound("Contact")
	}
	stored := *contact
	r.contacts[contact.ID] = &stored
	return nil
}

func (r *fakeContactRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.contacts[id]; !ok {
		return apperr.NotFound("Contact")
	}
	delete(r.contacts, id)
	return nil
}

func (r *fakeContactRepository) FindWithBirthdays(_ context.Context, userID string, monthDayPairs []string) ([]*contacts.Contact, error) {
	allowed := make(map[string]bool, len(monthDayPairs))
	for _, pair := range monthDayPairs {
		allowed[pair] = true
	}

	var results []*contacts.Contact
	for _, contact := range r.contacts {
		if contact.UserID == userID && allowed[contact.Birthday.Format("01-02")] {
			found := *contact
			results = append(results, &found)
		}
	}
	return results, nil
}

func newTestService(repository contacts.ContactRepository) *contacts.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return contacts.NewService(repository, logger)
}

func seedContact(t *testing.T, repository *fakeContactRepository, userID string) *contacts.Contact {
	t.Helper()

	contact := &contacts.Contact{
		UserID:      userID,
		FirstName:   "Olena",
		LastName:    "Shevchenko",
		Email:       "olena@example.com",
		PhoneNumber: "+380501234567",
		Birthday:    contacts.NewDate(1990, time.May, 14),
	}
	require.NoError(t, repository.Create(context.Background(), contact))
	return contact
}

/*
TestService_Create tests that a created contact gets an ID and keeps its
owner.
*/
func TestService_Create(t *testing.T) {
	repository := newFakeContactRepository()
	service := newTestService(repository)

	created, err := service.Create(context.Background(), "user-1", contacts.CreateInput{
		FirstName:   "Olena",
		LastName:    "Shevchenko",
		Email:       "olena@example.com",
		PhoneNumber: "+380501234567",
		Birthday:    contacts.NewDate(1990, time.May, 14),
	})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)
}

/*
TestService_Get_Ownership tests that a contact belonging to another user is
reported as NOT_FOUND, not as a forbidden resource.
*/
func TestService_Get_Ownership(t *testing.T) {
	repository := newFakeContactRepository()
	service := newTestService(repository)
	seeded := seedContact(t, repository, "owner")

	// Owner sees the contact
	found, err := service.Get(context.Background(), "owner", seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	// Foreign caller gets NOT_FOUND, indistinguishable from a missing row
	_, err = service.Get(context.Background(), "intruder", seeded.ID)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestService_Update_Partial tests that only the supplied fields change.
*/
func TestService_Update_Partial(t *testing.T) {
	repository := newFakeContactRepository()
	service := newTestService(repository)
	seeded := seedContact(t, repository, "owner")

	updated, err := service.Update(context.Background(), "owner", seeded.ID, contacts.UpdateInput{
		PhoneNumber:    pointer.To("+380671112233"),
		AdditionalInfo: pointer.To("met at the conference"),
	})

	require.NoError(t, err)
	assert.Equal(t, "+380671112233", updated.PhoneNumber)
	assert.Equal(t, "met at the conference", updated.AdditionalInfo)

	// Untouched fields keep their stored values
	assert.Equal(t, "Olena", updated.FirstName)
	assert.Equal(t, "olena@example.com", updated.Email)
}

/*
TestService_Update_Foreign tests that a foreign contact cannot be updated.
*/
func TestService_Update_Foreign(t *testing.T) {
	repository := newFakeContactRepository()
	service := newTestService(repository)
	seeded := seedContact(t, repository, "owner")

	_, err := service.Update(context.Background(), "intruder", seeded.ID, contacts.UpdateInput{
		FirstName: pointer.To("Hijacked"),
	})

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// The stored row is untouched
	stored, findErr := repository.FindByID(context.Background(), seeded.ID)
	require.NoError(t, findErr)
	assert.Equal(t, "Olena", stored.FirstName)
}

/*
TestService_Delete tests removal and the ownership guard on deletion.
*/
func TestService_Delete(t *testing.T) {
	repository := newFakeContactRepository()
	service := newTestService(repository)
	seeded := seedContact(t, repository, "owner")

	// Foreign caller cannot delete
	err := service.Delete(context.Background(), "intruder", seeded.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// Owner can
	require.NoError(t, service.Delete(context.Background(), "owner", seeded.ID))

	_, err = service.Get(context.Background(), "owner", seeded.ID)
	assert.Error(t, err)
}

/*
TestService_List tests that listing returns only the caller's contacts.
*/
func TestService_List(t *testing.T) {
	repository := newFakeContactRepository()
	service := newTestService(repository)
	seedContact(t, repository, "user-a")

	other := seedContact(t, repository, "user-b")
	other.Email = "other@example.com"

	results, total, err := service.List(context.Background(), "user-a", contacts.Filter{}, pagination.Params{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "user-a", results[0].UserID)
}

/*
TestBirthdayWindow tests the month/day window used by the upcoming-birthday
query, including month, year, and leap-day edge cases.
*/
func TestBirthdayWindow(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected []string
	}{
		{
			name: "mid_month",
			now:  time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC),
			expected: []string{
				"06-10", "06-11", "06-12", "06-13", "06-14", "06-15", "06-16", "06-17",
			},
		},
		{
			name: "month_rollover",
			now:  time.Date(2026, time.January, 29, 0, 0, 0, 0, time.UTC),
			expected: []string{
				"01-29", "01-30", "01-31", "02-01", "02-02", "02-03", "02-04", "02-05",
			},
		},
		{
			name: "year_rollover",
			now:  time.Date(2026, time.December, 29, 0, 0, 0, 0, time.UTC),
			expected: []string{
				"12-29", "12-30", "12-31", "01-01", "01-02", "01-03", "01-04", "01-05",
			},
		},
		{
			name: "leap_year_includes_feb_29",
			now:  time.Date(2028, time.February, 25, 0, 0, 0, 0, time.UTC),
			expected: []string{
				"02-25", "02-26", "02-27", "02-28", "02-29", "03-01", "03-02", "03-03",
			},
		},
		{
			name: "non_leap_year_skips_feb_29",
			now:  time.Date(2026, time.February, 25, 0, 0, 0, 0, time.UTC),
			expected: []string{
				"02-25", "02-26", "02-27", "02-28", "03-01", "03-02", "03-03", "03-04",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, contacts.BirthdayWindow(tt.now))
		})
	}
}

/*
TestService_UpcomingBirthdays tests that only contacts inside the window are
returned, and only for the calling user.
*/
func TestService_UpcomingBirthdays(t *testing.T) {
	repository := newFakeContactRepository()
	service := newTestService(repository)

	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)

	inWindow := &contacts.Contact{
		UserID: "user-a", FirstName: "In", LastName: "Window",
		Email: "in@example.com", PhoneNumber: "+380501111111",
		Birthday: contacts.NewDate(1985, time.June, 12),
	}
	outOfWindow := &contacts.Contact{
		UserID: "user-a", FirstName: "Out", LastName: "Window",
		Email: "out@example.com", PhoneNumber: "+380502222222",
		Birthday: contacts.NewDate(1985, time.August, 1),
	}
	foreign := &contacts.Contact{
		UserID: "user-b", FirstName: "Foreign", LastName: "Owner",
		Email: "foreign@example.com", PhoneNumber: "+380503333333",
		Birthday: contacts.NewDate(1985, time.June, 12),
	}

	ctx := context.Background()
	require.NoError(t, repository.Create(ctx, inWindow))
	require.NoError(t, repository.Create(ctx, outOfWindow))
	require.NoError(t, repository.Create(ctx, foreign))

	results, err := service.UpcomingBirthdays(ctx, "user-a", now)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "in@example.com", results[0].Email)
}
