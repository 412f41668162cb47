// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkovalov/contactio/internal/platform/sec"
)

/*
TestUserRole_AtLeast tests the role hierarchy comparisons.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.UserRole
		target  sec.UserRole
		allowed bool
	}{
		{"admin_meets_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"admin_meets_user", sec.RoleAdmin, sec.RoleUser, true},
		{"user_meets_user", sec.RoleUser, sec.RoleUser, true},
		{"user_below_admin", sec.RoleUser, sec.RoleAdmin, false},
		{"unknown_below_user", sec.UserRole("ghost"), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.role.AtLeast(tt.target))
		})
	}
}

/*
TestIdentity_IsAdmin tests the admin shortcut on the resolved identity.
*/
func TestIdentity_IsAdmin(t *testing.T) {
	admin := &sec.Identity{ID: "1", Role: sec.RoleAdmin}
	user := &sec.Identity{ID: "2", Role: sec.RoleUser}

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
}
