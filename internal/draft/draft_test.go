package draft

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDrafts(t *testing.T) (*Drafts, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, DefaultConfig(), logger), store
}

func TestDraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	drafts, _ := newTestDrafts(t)

	formData := map[string]any{"title": "Solar Farm", "goal_amount": float64(5000)}
	require.NoError(t, drafts.Save(ctx, "project", "user-1", formData))

	restored, err := drafts.Restore(ctx, "project", "user-1")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, formData, restored.FormData)
}

func TestRestoreMissingDraft(t *testing.T) {
	ctx := context.Background()
	drafts, _ := newTestDrafts(t)

	restored, err := drafts.Restore(ctx, "project", "user-1")
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestExpiredDraftDeletedOnRestore(t *testing.T) {
	ctx := context.Background()
	drafts, store := newTestDrafts(t)

	require.NoError(t, drafts.Save(ctx, "project", "user-1", map[string]any{"title": "Old"}))

	// Move the clock past the retention window
	drafts.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	restored, err := drafts.Restore(ctx, "project", "user-1")
	require.NoError(t, err)
	assert.Nil(t, restored)

	// The expired entry is gone, not just hidden
	_, err = store.Load(ctx, domain.DraftKey("project", "user-1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFreshDraftWithinWindow(t *testing.T) {
	ctx := context.Background()
	drafts, _ := newTestDrafts(t)

	require.NoError(t, drafts.Save(ctx, "project", "user-1", map[string]any{"title": "Recent"}))

	drafts.now = func() time.Time { return time.Now().Add(6 * 24 * time.Hour) }

	restored, err := drafts.Restore(ctx, "project", "user-1")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "Recent", restored.FormData["title"])
}

func TestCorruptDraftDiscardedSilently(t *testing.T) {
	ctx := context.Background()
	drafts, store := newTestDrafts(t)

	key := domain.DraftKey("project", "user-1")
	require.NoError(t, drafts.Save(ctx, "project", "user-1", map[string]any{"title": "x"}))
	store.Corrupt(key)

	restored, err := drafts.Restore(ctx, "project", "user-1")
	require.NoError(t, err)
	assert.Nil(t, restored)

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	drafts, _ := newTestDrafts(t)

	require.NoError(t, drafts.Save(ctx, "project", "user-1", map[string]any{"title": "First"}))
	require.NoError(t, drafts.Save(ctx, "project", "user-1", map[string]any{"title": "Second"}))

	restored, err := drafts.Restore(ctx, "project", "user-1")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "Second", restored.FormData["title"])
}

func TestDiscardIsIdempotent(t *testing.T) {
	ctx := context.Background()
	drafts, _ := newTestDrafts(t)

	require.NoError(t, drafts.Save(ctx, "project", "user-1", map[string]any{"title": "x"}))
	require.NoError(t, drafts.Discard(ctx, "project", "user-1"))
	require.NoError(t, drafts.Discard(ctx, "project", "user-1"))

	restored, err := drafts.Restore(ctx, "project", "user-1")
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestKeysIsolatePerEntityAndUser(t *testing.T) {
	ctx := context.Background()
	drafts, _ := newTestDrafts(t)

	require.NoError(t, drafts.Save(ctx, "project", "user-1", map[string]any{"title": "P"}))
	require.NoError(t, drafts.Save(ctx, "event", "user-1", map[string]any{"title": "E"}))
	require.NoError(t, drafts.Save(ctx, "project", "user-2", map[string]any{"title": "Q"}))

	restored, err := drafts.Restore(ctx, "project", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "P", restored.FormData["title"])

	restored, err = drafts.Restore(ctx, "event", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "E", restored.FormData["title"])
}

func TestConfigDefaults(t *testing.T) {
	store := NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := New(store, Config{}, logger)

	assert.Equal(t, 7*24*time.Hour, d.config.TTL)
	assert.Equal(t, 10*time.Second, d.AutosaveInterval())
}
