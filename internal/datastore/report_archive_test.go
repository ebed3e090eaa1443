package datastore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/artemis-extras/internal/datastore"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportArchive_AppendAndLoad(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "archive", "reports.parquet")
	archive, err := datastore.NewReportArchive(archivePath, zerolog.Nop())
	require.NoError(t, err)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := []models.Report{
		{
			TopLevelTarget: "example.com",
			Target:         "https://shop.example.com:443/",
			ReportType:     "expired_ssl_certificate",
			AdditionalData: map[string]any{"expiry_date": "2024-04-01"},
			Timestamp:      ts,
			Score:          4,
			NormalForm:     "abc",
		},
		{
			TopLevelTarget: "example.com",
			Target:         "vnc://10.0.0.1:5900",
			ReportType:     "vnc_auth",
			Timestamp:      ts,
		},
	}

	t.Run("store and load", func(t *testing.T) {
		require.NoError(t, archive.Append(context.Background(), first))

		loaded, err := archive.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, loaded)
	})

	t.Run("append keeps earlier rows", func(t *testing.T) {
		second := []models.Report{{
			TopLevelTarget: "example.org",
			Target:         "https://example.org/wp-admin/",
			ReportType:     "wpscan_interesting_url",
			AdditionalData: map[string]any{"url": "https://example.org/readme.html"},
			Timestamp:      ts.Add(time.Hour),
			Score:          1,
		}}
		require.NoError(t, archive.Append(context.Background(), second))

		loaded, err := archive.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, append(append([]models.Report{}, first...), second...), loaded)
	})

	t.Run("empty append is a no-op", func(t *testing.T) {
		require.NoError(t, archive.Append(context.Background(), nil))
		loaded, err := archive.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, loaded, 3)
	})
}

func TestReportArchive_LoadMissingFile(t *testing.T) {
	archive, err := datastore.NewReportArchive(filepath.Join(t.TempDir(), "none.parquet"), zerolog.Nop())
	require.NoError(t, err)

	loaded, err := archive.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestReportArchive_RequiresPath(t *testing.T) {
	_, err := datastore.NewReportArchive("", zerolog.Nop())
	assert.Error(t, err)
}

func TestReportArchive_LoadCancelled(t *testing.T) {
	archive, err := datastore.NewReportArchive(filepath.Join(t.TempDir(), "reports.parquet"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, archive.Append(context.Background(), []models.Report{{Target: "t", ReportType: "xss", Timestamp: time.Now().UTC().Truncate(time.Millisecond)}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = archive.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
