package portal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestHydrateWithoutFileYieldsLoggedOut(t *testing.T) {
	store := NewSessionStore(sessionPath(t))

	assert.False(t, store.Hydrated())
	store.Hydrate()

	assert.True(t, store.Hydrated())
	assert.Nil(t, store.Current())
}

func TestHydrateDiscardsCorruptFile(t *testing.T) {
	path := sessionPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewSessionStore(path)
	store.Hydrate()

	assert.True(t, store.Hydrated())
	assert.Nil(t, store.Current())
}

func TestLoginPersistsAcrossStores(t *testing.T) {
	path := sessionPath(t)

	store := NewSessionStore(path)
	err := store.Login(
		Tokens{AccessToken: "access", RefreshToken: "refresh"},
		User{ID: "user-1", Email: "ana@example.com", Name: "Ana"},
		UserTypeClient,
	)
	require.NoError(t, err)

	reloaded := NewSessionStore(path)
	reloaded.Hydrate()

	sess := reloaded.Current()
	require.NotNil(t, sess)
	assert.Equal(t, "access", sess.Tokens.AccessToken)
	assert.Equal(t, "Ana", sess.User.Name)
	assert.Equal(t, UserTypeClient, sess.UserType)
}

func TestLogoutClearsStorageAndRoutesByUserType(t *testing.T) {
	path := sessionPath(t)

	store := NewSessionStore(path)
	require.NoError(t, store.Login(Tokens{AccessToken: "a"}, User{ID: "u"}, UserTypeBusiness))

	route := store.Logout()

	// The route reflects the type that was signed in, read before clearing.
	assert.Equal(t, BusinessLoginRoute, route)
	assert.Nil(t, store.Current())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// A fresh process sees no session.
	reloaded := NewSessionStore(path)
	reloaded.Hydrate()
	assert.Nil(t, reloaded.Current())
}

func TestLogoutWhenLoggedOutDefaultsToClientRoute(t *testing.T) {
	store := NewSessionStore(sessionPath(t))
	store.Hydrate()

	assert.Equal(t, ClientLoginRoute, store.Logout())
}

func TestUpdateTokensKeepsUser(t *testing.T) {
	store := NewSessionStore(sessionPath(t))
	require.NoError(t, store.Login(Tokens{AccessToken: "old", RefreshToken: "old-r"}, User{ID: "u", Name: "Ana"}, UserTypeClient))

	require.NoError(t, store.UpdateTokens(Tokens{AccessToken: "new", RefreshToken: "new-r"}))

	sess := store.Current()
	require.NotNil(t, sess)
	assert.Equal(t, "new", sess.Tokens.AccessToken)
	assert.Equal(t, "new-r", sess.Tokens.RefreshToken)
	assert.Equal(t, "Ana", sess.User.Name)
}

func TestLoginRouteForPath(t *testing.T) {
	assert.Equal(t, BusinessLoginRoute, LoginRouteForPath("/business/rewards"))
	assert.Equal(t, BusinessLoginRoute, LoginRouteForPath("/admin/settings"))
	assert.Equal(t, ClientLoginRoute, LoginRouteForPath("/cards"))
	assert.Equal(t, ClientLoginRoute, LoginRouteForPath("/rewards"))
}
