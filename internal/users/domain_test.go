package users

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compass-console/compass-console/internal/shared"
)

func strPtr(s string) *string { return &s }

func TestCreateInputNormalize(t *testing.T) {
	in := CreateInput{
		Name:     "  jo doe ",
		Email:    " Jo.Doe@Example.COM ",
		Password: "hunter2hunter2",
	}.Normalize()

	require.Equal(t, "Jo Doe", in.Name)
	require.Equal(t, "jo.doe@example.com", in.Email)
	require.Equal(t, shared.RoleUser, in.Role)
}

func TestCreateInputNormalizeKeepsExplicitRole(t *testing.T) {
	in := CreateInput{Name: "ada", Email: "ada@example.com", Password: "hunter2hunter2", Role: shared.RoleManager}.Normalize()
	require.Equal(t, shared.RoleManager, in.Role)
}

func TestUpdateInputNormalizeTransformsSetFields(t *testing.T) {
	in := UpdateInput{
		Name:  strPtr("  mia SMITH "),
		Email: strPtr(" Mia@Example.com"),
	}.Normalize()

	require.Equal(t, "Mia Smith", *in.Name)
	require.Equal(t, "mia@example.com", *in.Email)
	require.Nil(t, in.Password)
	require.Nil(t, in.Role)
}

func TestUpdateInputNormalizeStripsEmptyPassword(t *testing.T) {
	in := UpdateInput{Password: strPtr("   ")}.Normalize()
	require.Nil(t, in.Password)
	require.True(t, in.Empty())

	kept := UpdateInput{Password: strPtr("hunter2hunter2")}.Normalize()
	require.NotNil(t, kept.Password)
	require.Equal(t, "hunter2hunter2", *kept.Password)
}

func TestUpdateInputEmpty(t *testing.T) {
	require.True(t, UpdateInput{}.Empty())
	require.False(t, UpdateInput{Name: strPtr("Jo")}.Empty())
}
