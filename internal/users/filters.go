package users

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/compass-console/compass-console/internal/schema"
	"github.com/compass-console/compass-console/internal/shared"
)

// RoleAll disables role filtering.
const RoleAll = "all"

// Filters is the full filter tuple for one list query. Request identity is
// derived from the whole tuple so a slow response for an old combination can
// never be mistaken for a newer one.
type Filters struct {
	Search  string
	Role    string
	Page    int
	PerPage int
}

// Normalize fills defaults: page 1, the standard page size, and role "all".
func (f Filters) Normalize() Filters {
	f.Search = strings.TrimSpace(f.Search)
	if f.Role == "" {
		f.Role = RoleAll
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = shared.DefaultPerPage
	}
	return f
}

// Query serializes the tuple for the server. Filters that affect which
// records exist on a page are always sent with the request, never applied
// client-side after the fact.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Role != RoleAll {
		q.Set("role", f.Role)
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("perPage", strconv.Itoa(f.PerPage))
	return q
}

// KeyParts returns the cache key components for this tuple.
func (f Filters) KeyParts() []string {
	return []string{"console", "users", "list", f.Query().Encode()}
}

// Key returns the deterministic request identity for this tuple.
func (f Filters) Key() string {
	return strings.Join(f.KeyParts(), ":")
}

// ParseFilters builds Filters from string inputs such as CLI flags or query
// strings. Numeric coercion fails closed; empty strings take the defaults.
func ParseFilters(search, role, page, perPage string) (Filters, error) {
	f := Filters{Search: search, Role: strings.ToLower(strings.TrimSpace(role))}
	if f.Role != "" && f.Role != RoleAll && !shared.Role(f.Role).Valid() {
		return Filters{}, fmt.Errorf("unknown role filter %q: %w", role, shared.ErrValidation)
	}
	if strings.TrimSpace(page) != "" {
		n, err := schema.PositiveInt("page", page)
		if err != nil {
			return Filters{}, err
		}
		f.Page = n
	}
	if strings.TrimSpace(perPage) != "" {
		n, err := schema.PositiveInt("perPage", perPage)
		if err != nil {
			return Filters{}, err
		}
		f.PerPage = n
	}
	return f.Normalize(), nil
}
