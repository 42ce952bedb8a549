package cmd

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/motionmcp/internal/credential"
)

func newFileStore(t *testing.T) *credential.FileStore {
	t.Helper()
	return credential.NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"), credential.FileStoreOptions{})
}

func TestAuthSet_FromArgument(t *testing.T) {
	store := newFileStore(t)
	useApp(t, newTestAppWithStore(t, store, nil))

	out, err := execute(t, newAuthCmd(), "", "set", "  secret-key  ")
	require.NoError(t, err)
	assert.Equal(t, "API key saved.\n", out)

	key, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret-key", key)
}

func TestAuthSet_FromStdin(t *testing.T) {
	store := newFileStore(t)
	useApp(t, newTestAppWithStore(t, store, nil))

	_, err := execute(t, newAuthCmd(), "piped-key\n", "set")
	require.NoError(t, err)

	key, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "piped-key", key)
}

func TestAuthSet_Empty(t *testing.T) {
	useApp(t, newTestAppWithStore(t, newFileStore(t), nil))

	_, err := execute(t, newAuthCmd(), "\n", "set")
	require.Error(t, err)
	assert.ErrorIs(t, err, credential.ErrEmptyKey)
}

func TestAuthSet_EnvironmentKeyIsReadOnly(t *testing.T) {
	useApp(t, newTestApp(t, "from-env", nil))

	_, err := execute(t, newAuthCmd(), "", "set", "other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOTION_API_KEY")
}

func TestAuthClear(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Set(context.Background(), "secret-key"))
	useApp(t, newTestAppWithStore(t, store, nil))

	out, err := execute(t, newAuthCmd(), "", "clear")
	require.NoError(t, err)
	assert.Equal(t, "API key removed.\n", out)
	assert.False(t, credential.Has(context.Background(), store))
}

func TestAuthStatus(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		store := newFileStore(t)
		require.NoError(t, store.Set(context.Background(), "secret-key"))
		useApp(t, newTestAppWithStore(t, store, nil))

		out, err := execute(t, newAuthCmd(), "", "status")
		require.NoError(t, err)
		assert.Contains(t, out, store.Path())
		assert.Contains(t, out, "[token:10 chars]")
		assert.NotContains(t, out, "secret-key")
	})

	t.Run("missing", func(t *testing.T) {
		useApp(t, newTestApp(t, "", nil))

		out, err := execute(t, newAuthCmd(), "", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "MOTION_API_KEY")
		assert.Contains(t, out, "not configured")
	})
}

func TestAuthTest(t *testing.T) {
	api := &fakeMotion{}
	useApp(t, newTestApp(t, "key", api.handler(t)))

	out, err := execute(t, newAuthCmd(), "", "test")
	require.NoError(t, err)
	assert.Equal(t, "API key works: 1 workspace accessible.\n", out)
}

func TestAuthTest_Rejected(t *testing.T) {
	useApp(t, newTestApp(t, "bad", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))

	_, err := execute(t, newAuthCmd(), "", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
