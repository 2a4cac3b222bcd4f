package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/app/domain/hub"
	"streamhub/internal/app/infrastructure/storage"
	"streamhub/pkg/logger"
)

func newStore(t *testing.T) (*storage.StateStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	return storage.NewStateStore(logger.New(), path), path
}

func TestStateStoreRoundTrip(t *testing.T) {
	store, _ := newStore(t)

	in := hub.Persisted{
		Dock:                 hub.DockRight,
		FocusMode:            true,
		Slots:                hub.SlotMap{"twitch-xqc", "", "trovo-someone", ""},
		TargetSlot:           3,
		ActiveSlot:           1,
		FollowedFilter:       true,
		CategoriesTagFilters: []string{"tag-moba"},
		CategoriesSort:       "viewer_asc",
	}

	store.Save(in)

	out, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestStateStoreMissingFile(t *testing.T) {
	store, _ := newStore(t)

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestStateStoreCorruptBlob(t *testing.T) {
	store, path := newStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestStateStoreMissingKey(t *testing.T) {
	store, path := newStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(`{"somethingElse":{}}`), 0600))

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestStateStoreSkipsBadFields(t *testing.T) {
	store, path := newStore(t)

	blob := `{"streamHubState":{"dock":"right","focusMode":"yes","slots":"garbage","targetSlot":2}}`
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(blob), 0600))

	out, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, hub.DockRight, out.Dock)
	assert.Equal(t, 2, out.TargetSlot)
	assert.False(t, out.FocusMode, "non-boolean focusMode field is skipped")
	assert.Equal(t, 0, out.Slots.OccupiedCount(), "non-object slots field is skipped")
}

func TestStateStoreSlotTolerance(t *testing.T) {
	store, path := newStore(t)

	blob := `{"streamHubState":{"slots":{"1":"twitch-xqc","2":42,"3":null}}}`
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(blob), 0600))

	out, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "twitch-xqc", out.Slots.Get(1))
	assert.Equal(t, "", out.Slots.Get(2), "non-string slot value leaves the slot empty")
	assert.Equal(t, "", out.Slots.Get(3))
}

func TestStateStoreEmptyPathIsNoop(t *testing.T) {
	store := storage.NewStateStore(logger.New(), "")
	store.Save(hub.Persisted{Dock: hub.DockLeft})

	_, ok := store.Load()
	assert.False(t, ok)
}
