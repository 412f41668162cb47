// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package contacts_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalov/contactio/internal/contacts"
)

/*
TestDate_JSON tests that birthdays serialize as plain YYYY-MM-DD strings
rather than full RFC 3339 timestamps.
*/
func TestDate_JSON(t *testing.T) {
	birthday := contacts.NewDate(1990, time.May, 14)

	encoded, err := json.Marshal(birthday)
	require.NoError(t, err)
	assert.Equal(t, `"1990-05-14"`, string(encoded))

	var decoded contacts.Date
	require.NoError(t, json.Unmarshal([]byte(`"1990-05-14"`), &decoded))
	assert.True(t, decoded.Equal(birthday.Time))
}

/*
TestDate_JSON_Invalid tests rejection of non-calendar input.
*/
func TestDate_JSON_Invalid(t *testing.T) {
	var decoded contacts.Date

	assert.Error(t, json.Unmarshal([]byte(`"14.05.1990"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`"1990-02-30"`), &decoded))
}
