package datastore_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/datastore"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *datastore.TaskResultStore {
	t.Helper()
	store, err := datastore.NewTaskResultStore(filepath.Join(t.TempDir(), "db", "results.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestTaskResultStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := models.TaskResult{
		ID:                "r1",
		Receiver:          "xss",
		TargetString:      "https://example.com/?q=*",
		Status:            models.TaskStatusInteresting,
		StatusReason:      "reflected payload",
		Result:            json.RawMessage(`["https://example.com/?q=<svg>"]`),
		Payload:           map[string]any{"url": "https://example.com/?q=*"},
		PayloadPersistent: map[string]any{"original_domain": "example.com"},
		Headers:           map[string]string{models.HeaderReceiver: "xss"},
		CreatedAt:         time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC),
	}
	require.NoError(t, store.SaveTaskResult(ctx, saved))

	loaded, err := store.GetTaskResult(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestTaskResultStore_SaveUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result := models.TaskResult{ID: "r1", Receiver: "vnc_auth", TargetString: "10.0.0.1:5900", Status: models.TaskStatusOK}
	require.NoError(t, store.SaveTaskResult(ctx, result))

	result.Status = models.TaskStatusInteresting
	result.StatusReason = "Found password: secret"
	require.NoError(t, store.SaveTaskResult(ctx, result))

	all, err := store.ListTaskResults(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.TaskStatusInteresting, all[0].Status)
	assert.Equal(t, "Found password: secret", all[0].StatusReason)
	assert.False(t, all[0].CreatedAt.IsZero())
}

func TestTaskResultStore_ListByReceiver(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	results := []models.TaskResult{
		{ID: "b", Receiver: "xss", TargetString: "t2", Status: models.TaskStatusOK, CreatedAt: base.Add(2 * time.Second)},
		{ID: "a", Receiver: "xss", TargetString: "t1", Status: models.TaskStatusOK, CreatedAt: base.Add(time.Second)},
		{ID: "c", Receiver: "sqlmap", TargetString: "t3", Status: models.TaskStatusError, CreatedAt: base},
	}
	for _, r := range results {
		require.NoError(t, store.SaveTaskResult(ctx, r))
	}

	xss, err := store.ListTaskResults(ctx, "xss")
	require.NoError(t, err)
	require.Len(t, xss, 2)
	assert.Equal(t, "a", xss[0].ID)
	assert.Equal(t, "b", xss[1].ID)

	all, err := store.ListTaskResults(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)

	none, err := store.ListTaskResults(ctx, "wpscan")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTaskResultStore_Errors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetTaskResult(ctx, "missing")
	assert.ErrorIs(t, err, errorwrapper.ErrNotFound)

	err = store.SaveTaskResult(ctx, models.TaskResult{Receiver: "xss", Status: models.TaskStatusOK})
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)

	err = store.SaveTaskResult(ctx, models.TaskResult{ID: "x", Receiver: "xss", Status: "MAYBE"})
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)
}
