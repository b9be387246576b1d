package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compass-console/compass-console/internal/ability"
	"github.com/compass-console/compass-console/internal/shared"
)

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	store, err := NewStore(NewFileTokenStore(path))
	require.NoError(t, err)
	return store, path
}

func TestStoreStartsAnonymous(t *testing.T) {
	store, _ := newFileStore(t)
	require.Equal(t, StatusAnonymous, store.Status())
	require.Nil(t, store.Principal())
	require.Empty(t, store.Token())
	require.False(t, store.AuthCheckComplete())
	require.True(t, store.Abilities().Can(ability.ActionRead, ability.SubjectDashboard, nil))
	require.False(t, store.Abilities().Can(ability.ActionRead, ability.SubjectUser, nil))
}

func TestLoginLifecycle(t *testing.T) {
	store, path := newFileStore(t)

	store.LoginStart()
	require.Equal(t, StatusAuthenticating, store.Status())

	admin := &shared.Principal{ID: "u-1", Name: "Ada", Email: "ada@example.com", Role: shared.RoleAdmin}
	require.NoError(t, store.LoginSuccess(admin, "tok-abc"))
	require.Equal(t, StatusAuthenticated, store.Status())
	require.Equal(t, "tok-abc", store.Token())
	require.True(t, store.AuthCheckComplete())
	require.True(t, store.Abilities().Can(ability.ActionDelete, ability.SubjectUser, nil))

	persisted, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "tok-abc\n", string(persisted))

	require.NoError(t, store.Logout())
	require.Equal(t, StatusAnonymous, store.Status())
	require.Nil(t, store.Principal())
	require.Empty(t, store.Token())
	require.False(t, store.Abilities().Can(ability.ActionDelete, ability.SubjectUser, nil))
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	// Logging out again is a no-op, not an error.
	require.NoError(t, store.Logout())
}

func TestLoginFailedReturnsToAnonymous(t *testing.T) {
	store, _ := newFileStore(t)
	store.LoginStart()
	store.LoginFailed("invalid credentials")
	require.Equal(t, StatusAnonymous, store.Status())
	require.Equal(t, "invalid credentials", store.LastError())
	require.True(t, store.AuthCheckComplete())
}

func TestSetPrincipalRebuildsAbilities(t *testing.T) {
	store, _ := newFileStore(t)
	store.SetPrincipal(shared.Principal{ID: "u-2", Role: shared.RoleManager})
	require.True(t, store.Abilities().Can(ability.ActionCreate, ability.SubjectUser, nil))
	require.False(t, store.Abilities().Can(ability.ActionDelete, ability.SubjectUser, nil))

	store.SetPrincipal(shared.Principal{ID: "u-3", Role: shared.RoleUser})
	require.False(t, store.Abilities().Can(ability.ActionCreate, ability.SubjectUser, nil))
	require.True(t, store.Abilities().Can(ability.ActionRead, ability.SubjectProfile, ability.Instance{"id": "u-3"}))
}

func TestPrincipalReturnsCopy(t *testing.T) {
	store, _ := newFileStore(t)
	store.SetPrincipal(shared.Principal{ID: "u-1", Name: "Ada", Role: shared.RoleAdmin})

	p := store.Principal()
	require.NotNil(t, p)
	p.Name = "mutated"
	require.Equal(t, "Ada", store.Principal().Name)
}

func TestExpireSessionClearsToken(t *testing.T) {
	store, path := newFileStore(t)
	require.NoError(t, store.LoginSuccess(&shared.Principal{ID: "u-1", Role: shared.RoleAdmin}, "tok"))

	require.NoError(t, store.ExpireSession("session expired"))
	require.Equal(t, StatusAnonymous, store.Status())
	require.Empty(t, store.Token())
	require.Equal(t, "session expired", store.LastError())
	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewStoreLoadsPersistedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	tokens := NewFileTokenStore(path)
	require.NoError(t, tokens.Save("persisted"))

	store, err := NewStore(tokens)
	require.NoError(t, err)
	require.Equal(t, "persisted", store.Token())
	require.Equal(t, StatusAnonymous, store.Status())
	require.False(t, store.AuthCheckComplete())
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	tokens := NewFileTokenStore(path)

	loaded, err := tokens.Load()
	require.NoError(t, err)
	require.Empty(t, loaded)

	require.NoError(t, tokens.Save("secret"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err = tokens.Load()
	require.NoError(t, err)
	require.Equal(t, "secret", loaded)

	require.NoError(t, tokens.Clear())
	require.NoError(t, tokens.Clear())
}
