package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/ports"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, newTestStore(t))
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)

	sess := domain.NewSession("c1")
	sess.UserData["name"] = "Arthur"
	sess.Stack = append(sess.Stack, domain.NewFrame("booking"))
	require.NoError(t, store.Save(ctx, "c1", sess))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Arthur", loaded.UserData["name"])
	assert.Equal(t, 1, loaded.Depth())
}
