package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/datastore"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/aleister1102/artemis-extras/internal/scanner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, flags AppFlags, stdin string) (*application, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefaultGlobalConfig()
	cfg.StorageConfig.SQLiteDBPath = filepath.Join(dir, "results.db")
	cfg.StorageConfig.ReportArchivePath = filepath.Join(dir, "reports.parquet")

	var stdout bytes.Buffer
	return &application{
		cfg:    cfg,
		flags:  flags,
		logger: zerolog.Nop(),
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
	}, &stdout
}

func decodeRecords(t *testing.T, data []byte) []scanner.CandidateRecord {
	t.Helper()
	records, err := decodeJSONLines[scanner.CandidateRecord](bytes.NewReader(data))
	require.NoError(t, err)
	return records
}

func TestRunExpand(t *testing.T) {
	app, stdout := newTestApp(t, AppFlags{Mode: modeExpand}, "https://example.com/path/file?id=1\nnot a url\n")

	require.NoError(t, app.runExpand(context.Background()))

	records := decodeRecords(t, stdout.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, "https://example.com/*/file?id=1", records[0].URL)
	assert.Equal(t, "path", records[0].OriginalValue)
	assert.Equal(t, "https://example.com/path/file?id=1", records[0].SourceURL)
	assert.Empty(t, records[0].TaskID)
}

func TestRunDiscover(t *testing.T) {
	app, stdout := newTestApp(t, AppFlags{Mode: modeDiscover}, "https://example.com/app/page?id=1\n")

	require.NoError(t, app.runDiscover(context.Background()))

	records := decodeRecords(t, stdout.Bytes())
	require.Len(t, records, 4)
	assert.Equal(t, "https://example.com/app/page/*?id=1", records[0].URL)

	store, err := datastore.NewTaskResultStore(app.cfg.StorageConfig.SQLiteDBPath, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	results, err := store.ListTaskResults(context.Background(), scanner.InjectionPointsIdentity)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.TaskStatusInteresting, results[0].Status)
	assert.Equal(t, records[0].TaskID, results[0].Headers["task_id"])
}

func TestRunDiscover_TasksFileAndPages(t *testing.T) {
	dir := t.TempDir()
	pagesDir := filepath.Join(dir, "pages")
	require.NoError(t, os.MkdirAll(pagesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pagesDir, "example.com_app.html"),
		[]byte(`<html><body><a href="/item/42?sort=asc">item</a></body></html>`), 0644))

	var tasks bytes.Buffer
	for _, task := range []models.Task{
		models.WebAppTask{URL: "https://example.com/app", WebApp: models.WebAppUnknown},
		models.WebAppTask{URL: "https://blog.example.com/", WebApp: models.WebAppWordPress},
	} {
		encoded, err := json.Marshal(models.NewTaskEnvelope(task))
		require.NoError(t, err)
		tasks.Write(append(encoded, '\n'))
	}
	tasksFile := filepath.Join(dir, "tasks.jsonl")
	require.NoError(t, os.WriteFile(tasksFile, tasks.Bytes(), 0644))

	out := filepath.Join(dir, "out", "candidates.jsonl")
	app, _ := newTestApp(t, AppFlags{Mode: modeDiscover, TasksFile: tasksFile, PagesDir: pagesDir, Output: out}, "")
	app.cfg.StorageConfig.SQLiteDBPath = ""

	require.NoError(t, app.runDiscover(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	urls := make([]string, 0)
	for _, r := range decodeRecords(t, data) {
		urls = append(urls, r.URL)
	}
	assert.Contains(t, urls, "https://example.com/app/*")
	assert.Contains(t, urls, "https://example.com/item/42?sort=*")
}

func TestRunReport(t *testing.T) {
	dir := t.TempDir()
	result := models.TaskResult{
		ID:           "r1",
		Receiver:     "xss",
		TargetString: "https://shop.example.com/search",
		Status:       models.TaskStatusInteresting,
		Result:       json.RawMessage(`{"param":"q"}`),
		CreatedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	encoded, err := json.Marshal(result)
	require.NoError(t, err)
	resultsFile := filepath.Join(dir, "results.jsonl")
	require.NoError(t, os.WriteFile(resultsFile, append(encoded, '\n'), 0644))

	outDir := filepath.Join(dir, "emails")
	app, _ := newTestApp(t, AppFlags{Mode: modeReport, TargetsFile: resultsFile, Output: outDir}, "")

	require.NoError(t, app.runReport(context.Background()))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	body, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Vulnerabilities found for example.com")
	assert.Contains(t, string(body), "https://shop.example.com/search")

	archive, err := datastore.NewReportArchive(app.cfg.StorageConfig.ReportArchivePath, zerolog.Nop())
	require.NoError(t, err)
	archived, err := archive.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, models.ReportType("xss"), archived[0].ReportType)
}

func TestRunReport_FromStorePolish(t *testing.T) {
	app, stdout := newTestApp(t, AppFlags{Mode: modeReport}, "")
	app.cfg.ReporterConfig.Language = "pl-PL"
	app.cfg.StorageConfig.ReportArchivePath = ""

	store, err := datastore.NewTaskResultStore(app.cfg.StorageConfig.SQLiteDBPath, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.SaveTaskResult(context.Background(), models.TaskResult{
		ID:           "r1",
		Receiver:     "xss",
		TargetString: "https://example.com/",
		Status:       models.TaskStatusInteresting,
	}))
	require.NoError(t, store.Close())

	require.NoError(t, app.runReport(context.Background()))
	assert.Contains(t, stdout.String(), "<!-- example.com -->")
	assert.Contains(t, stdout.String(), "Podatności wykryte dla example.com")
}

func TestRunReport_RequiresSource(t *testing.T) {
	app, _ := newTestApp(t, AppFlags{Mode: modeReport}, "")
	app.cfg.StorageConfig.SQLiteDBPath = ""
	assert.Error(t, app.runReport(context.Background()))
}

func TestOpenOutput_ClosesOnce(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "candidates.jsonl")
	app, _ := newTestApp(t, AppFlags{Mode: modeExpand, Output: out}, "")

	w, closeOut, err := app.openOutput()
	require.NoError(t, err)
	_, err = w.Write([]byte("{}\n"))
	require.NoError(t, err)

	require.NoError(t, closeOut())
	assert.NoError(t, closeOut(), "a second close reports the first result")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestOpenOutput_Stdout(t *testing.T) {
	app, stdout := newTestApp(t, AppFlags{Mode: modeExpand}, "")

	w, closeOut, err := app.openOutput()
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	assert.NoError(t, closeOut())
	assert.Equal(t, "x", stdout.String())
}
