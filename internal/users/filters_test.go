package users

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compass-console/compass-console/internal/shared"
)

func TestFiltersNormalizeDefaults(t *testing.T) {
	f := Filters{}.Normalize()
	require.Equal(t, RoleAll, f.Role)
	require.Equal(t, 1, f.Page)
	require.Equal(t, shared.DefaultPerPage, f.PerPage)
}

func TestFiltersQueryOmitsRoleAll(t *testing.T) {
	q := Filters{Search: "jo", Role: RoleAll, Page: 2, PerPage: 10}.Query()
	require.Equal(t, "jo", q.Get("search"))
	require.False(t, q.Has("role"))
	require.Equal(t, "2", q.Get("page"))
	require.Equal(t, "10", q.Get("perPage"))

	q = Filters{Role: "manager", Page: 1, PerPage: 10}.Query()
	require.Equal(t, "manager", q.Get("role"))
	require.False(t, q.Has("search"))
}

func TestFiltersKeyIsDeterministic(t *testing.T) {
	a := Filters{Search: "jo", Role: "manager", Page: 2, PerPage: 10}
	b := Filters{Search: "jo", Role: "manager", Page: 2, PerPage: 10}
	require.Equal(t, a.Key(), b.Key())

	c := Filters{Search: "jo", Role: "manager", Page: 3, PerPage: 10}
	require.NotEqual(t, a.Key(), c.Key())
}

func TestParseFilters(t *testing.T) {
	f, err := ParseFilters("jo", "Manager", "2", "25")
	require.NoError(t, err)
	require.Equal(t, Filters{Search: "jo", Role: "manager", Page: 2, PerPage: 25}, f)
}

func TestParseFiltersDefaults(t *testing.T) {
	f, err := ParseFilters("", "", "", "")
	require.NoError(t, err)
	require.Equal(t, Filters{Role: RoleAll, Page: 1, PerPage: shared.DefaultPerPage}, f)
}

func TestParseFiltersFailsClosed(t *testing.T) {
	cases := []struct {
		name                string
		role, page, perPage string
	}{
		{name: "unknown role", role: "superuser"},
		{name: "non numeric page", page: "abc"},
		{name: "zero page", page: "0"},
		{name: "negative page", page: "-1"},
		{name: "float per page", perPage: "2.5"},
		{name: "zero per page", perPage: "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFilters("", tc.role, tc.page, tc.perPage)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}
