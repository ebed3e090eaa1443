package scanner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/datastore"
	"github.com/aleister1102/artemis-extras/internal/metrics"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) SaveTaskResult(context.Context, models.TaskResult) error {
	return errors.New("database is locked")
}

func TestDispatcher_StoresResults(t *testing.T) {
	store, err := datastore.NewTaskResultStore(filepath.Join(t.TempDir(), "results.db"), zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	recorder, err := metrics.NewRecorder(config.MetricsConfig{}, zerolog.Nop())
	require.NoError(t, err)

	module := NewInjectionPointModule(config.NewDefaultDiscoveryConfig(), nil, nil, zerolog.Nop())
	dispatcher := NewDispatcher(store, recorder, zerolog.Nop(), module)

	envelope := webAppEnvelope("https://example.com/shop/item?id=3")
	results, err := dispatcher.Dispatch(context.Background(), envelope)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, InjectionPointsIdentity, result.Receiver)
	assert.Equal(t, "https://example.com/shop/item?id=3", result.TargetString)
	assert.Equal(t, models.TaskStatusInteresting, result.Status)
	assert.Equal(t, InjectionPointsIdentity, result.Headers[models.HeaderReceiver])
	assert.Equal(t, "task-1", result.Headers["task_id"])
	assert.Equal(t, "https://example.com/shop/item?id=3", result.Payload["url"])

	var summary DiscoverySummary
	require.NoError(t, result.DecodeResult(&summary))
	assert.Equal(t, 4, summary.CandidatesEmitted)

	stored, err := store.GetTaskResult(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Status, stored.Status)
	assert.Equal(t, result.StatusReason, stored.StatusReason)

	reg := recorder.Registry()
	count, err := testutil.GatherAndCount(reg, "artemis_extras_tasks_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDispatcher_UnsupportedTask(t *testing.T) {
	module := NewInjectionPointModule(config.NewDefaultDiscoveryConfig(), nil, nil, zerolog.Nop())
	dispatcher := NewDispatcher(nil, nil, zerolog.Nop(), module)

	_, err := dispatcher.Dispatch(context.Background(), models.NewTaskEnvelope(models.DomainTask{Domain: "example.com"}))
	assert.ErrorIs(t, err, errorwrapper.ErrUnsupportedTask)

	_, err = dispatcher.Dispatch(context.Background(), models.NewTaskEnvelope(models.WebAppTask{URL: "https://example.com", WebApp: models.WebAppMoodle}))
	assert.ErrorIs(t, err, errorwrapper.ErrUnsupportedTask)
}

func TestDispatcher_InvalidTask(t *testing.T) {
	dispatcher := NewDispatcher(nil, nil, zerolog.Nop())
	_, err := dispatcher.Dispatch(context.Background(), models.NewTaskEnvelope(models.WebAppTask{URL: "relative/path"}))
	require.Error(t, err)

	var urlErr *models.URLValidationError
	assert.True(t, errors.As(err, &urlErr))
}

func TestDispatcher_StoreFailure(t *testing.T) {
	module := NewInjectionPointModule(config.NewDefaultDiscoveryConfig(), nil, nil, zerolog.Nop())
	dispatcher := NewDispatcher(failingStore{}, nil, zerolog.Nop(), module)

	_, err := dispatcher.Dispatch(context.Background(), webAppEnvelope("https://example.com/a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}
