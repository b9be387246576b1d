// Package users is the resource-synchronization layer for the remote user
// collection: paginated fetches, mutations, and a filter-keyed cache that is
// rebuilt, never patched, after every successful fetch.
package users

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/compass-console/compass-console/internal/shared"
)

// User is a server-owned account record. The console only ever observes
// these; ids are assigned server-side and passwords never round-trip from
// reads.
type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      shared.Role `json:"role"`
	Avatar    string      `json:"avatar,omitempty"`
	CreatedAt time.Time   `json:"createdAt,omitzero"`
	UpdatedAt time.Time   `json:"updatedAt,omitzero"`
}

// CreateInput is the payload for creating an account. Password is
// write-only.
type CreateInput struct {
	Name     string      `json:"name" validate:"required,min=3"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     shared.Role `json:"role" validate:"required,oneof=admin manager user"`
}

// Normalize applies the canonical input transforms: trimmed, title-cased
// name, lowercased email, and the default role.
func (in CreateInput) Normalize() CreateInput {
	in.Name = canonicalName(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = shared.RoleUser
	}
	return in
}

// UpdateInput is a partial account update. Nil fields are left untouched
// server-side and omitted from the request body.
type UpdateInput struct {
	Name     *string      `json:"name,omitempty" validate:"omitempty,min=3"`
	Email    *string      `json:"email,omitempty" validate:"omitempty,email"`
	Password *string      `json:"password,omitempty" validate:"omitempty,min=8"`
	Role     *shared.Role `json:"role,omitempty" validate:"omitempty,oneof=admin manager user"`
}

// Normalize applies the input transforms and strips an empty password so it
// is never sent as an empty string.
func (in UpdateInput) Normalize() UpdateInput {
	if in.Name != nil {
		name := canonicalName(*in.Name)
		in.Name = &name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
	}
	if in.Password != nil && strings.TrimSpace(*in.Password) == "" {
		in.Password = nil
	}
	return in
}

// Empty reports whether the update carries no fields at all.
func (in UpdateInput) Empty() bool {
	return in.Name == nil && in.Email == nil && in.Password == nil && in.Role == nil
}

var nameCaser = cases.Title(language.English)

func canonicalName(name string) string {
	return nameCaser.String(strings.ToLower(strings.TrimSpace(name)))
}
