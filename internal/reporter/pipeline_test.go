package reporter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/metrics"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryArchive struct {
	reports []models.Report
	err     error
}

func (a *memoryArchive) Append(_ context.Context, reports []models.Report) error {
	if a.err != nil {
		return a.err
	}
	a.reports = append(a.reports, reports...)
	return nil
}

func newTestPipeline(t *testing.T, cfg config.ReporterConfig) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg, nil, zerolog.Nop(), DefaultReporters(config.NewDefaultExtraModulesConfig())...)
	require.NoError(t, err)
	return p
}

func sqlmapResult(id, target string, at time.Time) models.TaskResult {
	result := taskResult("sqlmap", models.TaskStatusInteresting, "http://example.com/", []any{
		map[string]any{"target": target + " (GET)", "log": "x"},
	})
	result.ID = id
	result.CreatedAt = at
	return result
}

func TestPipeline_ProcessDeduplicates(t *testing.T) {
	recorder, err := metrics.NewRecorder(config.MetricsConfig{}, zerolog.Nop())
	require.NoError(t, err)
	archive := &memoryArchive{}

	p, err := NewPipeline(config.NewDefaultReporterConfig(), recorder, zerolog.Nop(), DefaultReporters(config.NewDefaultExtraModulesConfig())...)
	require.NoError(t, err)
	p.WithArchive(archive)

	older := sqlmapResult("r1", "http://example.com/a.php?id=1", createdAt)
	newer := sqlmapResult("r2", "HTTP://EXAMPLE.COM:80/a.php?id=1", createdAt.Add(time.Hour))
	other := sqlmapResult("r3", "http://example.com/b.php?id=1", createdAt)
	vpn := taskResult("what-vpn", models.TaskStatusOK, "vpn.example.com:443", "OpenVPN")
	unknown := taskResult("nuclei", models.TaskStatusInteresting, "https://example.com/", nil)

	batch, err := p.Process(context.Background(), []models.TaskResult{older, newer, other, vpn, unknown})
	require.NoError(t, err)

	require.Len(t, batch.Reports, 2)
	assert.Equal(t, 1, batch.Duplicates)
	assert.Equal(t, createdAt.Add(time.Hour), batch.Reports[0].Timestamp, "the newest duplicate is kept")
	assert.Equal(t, "http://example.com:80/b.php?id=1", batch.Reports[1].Target)
	assert.NotEmpty(t, batch.Reports[0].NormalForm)
	assert.Equal(t, 5, batch.Reports[0].Score)

	require.Len(t, batch.Assets, 1)
	assert.Equal(t, "OpenVPN", batch.Assets[0].AdditionalType)
	assert.Equal(t, 1, batch.Skipped["no reporter for receiver"])

	assert.Equal(t, batch.Reports, archive.reports)
	series, err := testutil.GatherAndCount(recorder.Registry(), "artemis_extras_reports_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestPipeline_HigherScoreWins(t *testing.T) {
	p := newTestPipeline(t, config.NewDefaultReporterConfig())

	d := newDeduplicator()
	low := models.Report{NormalForm: "n", Score: 1, Timestamp: createdAt.Add(time.Hour)}
	high := models.Report{NormalForm: "n", Score: 3, Timestamp: createdAt}
	assert.True(t, d.add(low))
	assert.False(t, d.add(high))
	assert.False(t, d.add(low))
	assert.Equal(t, []models.Report{high}, d.reports())
	assert.Equal(t, LanguageEnglish, p.Language())
}

func TestPipeline_MinScores(t *testing.T) {
	cfg := config.NewDefaultReporterConfig()
	cfg.MinScores = map[string]int{string(WPScanInterestingURL): 5}
	p := newTestPipeline(t, cfg)

	result := taskResult("wpscan", models.TaskStatusInteresting, "https://blog.example.com/", map[string]any{
		"vulnerabilities":  []any{"v1"},
		"interesting_urls": []any{"https://blog.example.com/readme.html"},
	})
	batch, err := p.Process(context.Background(), []models.TaskResult{result})
	require.NoError(t, err)

	require.Len(t, batch.Reports, 1)
	assert.Equal(t, WPScanVulnerability, batch.Reports[0].ReportType)
	assert.Equal(t, 1, batch.BelowMinScore)
}

func TestPipeline_FailuresAndSkips(t *testing.T) {
	p := newTestPipeline(t, config.NewDefaultReporterConfig())

	broken := taskResult("vnc_auth", models.TaskStatusInteresting, "10.0.0.1:5900", nil)
	broken.StatusReason = "nope"
	boring := taskResult("xss", models.TaskStatusOK, "https://example.com/", nil)

	batch, err := p.Process(context.Background(), []models.TaskResult{broken, boring})
	require.NoError(t, err)
	assert.Empty(t, batch.Reports)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "vnc_auth", batch.Failures[0].Receiver)
	assert.Equal(t, 1, batch.Skipped["status is OK"])
}

func TestPipeline_Errors(t *testing.T) {
	t.Run("unsupported language", func(t *testing.T) {
		_, err := NewPipeline(config.ReporterConfig{Language: "de-DE"}, nil, zerolog.Nop())
		assert.ErrorIs(t, err, errorwrapper.ErrUnsupportedLanguage)
	})

	t.Run("duplicate receiver", func(t *testing.T) {
		_, err := NewPipeline(config.NewDefaultReporterConfig(), nil, zerolog.Nop(), NewXSSReporter(), NewXSSReporter())
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		p := newTestPipeline(t, config.NewDefaultReporterConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Process(ctx, []models.TaskResult{sqlmapResult("r1", "http://example.com/a", createdAt)})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("archive failure", func(t *testing.T) {
		p := newTestPipeline(t, config.NewDefaultReporterConfig()).WithArchive(&memoryArchive{err: errors.New("read-only")})
		_, err := p.Process(context.Background(), []models.TaskResult{sqlmapResult("r1", "http://example.com/a", createdAt)})
		assert.ErrorContains(t, err, "read-only")
	})
}
