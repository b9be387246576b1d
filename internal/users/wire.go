package users

import (
	"time"

	"github.com/compass-console/compass-console/internal/shared"
)

// Wire shapes for the users endpoints. Every inbound payload is decoded into
// one of these and checked before it is trusted.

type userPayload struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Role      string    `json:"role" validate:"omitempty,oneof=admin manager user"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type metaPayload struct {
	Total           int  `json:"total" validate:"min=0"`
	Page            int  `json:"page" validate:"min=1"`
	PerPage         int  `json:"perPage" validate:"min=1"`
	TotalPages      int  `json:"totalPages" validate:"min=1"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

type listPayload struct {
	Data []userPayload `json:"data" validate:"dive"`
	Meta metaPayload   `json:"meta"`
}

type userEnvelope struct {
	User userPayload `json:"user"`
}

func (p userPayload) domain() User {
	return User{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      shared.Role(p.Role),
		Avatar:    p.Avatar,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m metaPayload) pageMeta() shared.PageMeta {
	return shared.PageMeta{
		Total:           m.Total,
		Page:            m.Page,
		PerPage:         m.PerPage,
		TotalPages:      m.TotalPages,
		HasNextPage:     m.HasNextPage,
		HasPreviousPage: m.HasPreviousPage,
	}
}
