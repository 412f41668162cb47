// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package sec

// Identity is the resolved view of the currently authenticated user.
//
// It is the payload cached in Redis under `user:{token}` and the value
// injected into the request context by the authentication middleware, so it
// deliberately carries no password hash or timestamps.
type Identity struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	AvatarURL string   `json:"avatar,omitempty"`
	Confirmed bool     `json:"confirmed"`
	Role      UserRole `json:"role"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role.AtLeast(RoleAdmin)
}
