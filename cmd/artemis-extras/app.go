package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/common/filemanager"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/datastore"
	"github.com/aleister1102/artemis-extras/internal/injection"
	"github.com/aleister1102/artemis-extras/internal/metrics"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/aleister1102/artemis-extras/internal/reporter"
	"github.com/aleister1102/artemis-extras/internal/scanner"
	"github.com/aleister1102/artemis-extras/internal/urlhandler"
	"github.com/rs/zerolog"
)

type application struct {
	cfg      *config.GlobalConfig
	flags    AppFlags
	recorder *metrics.Recorder
	logger   zerolog.Logger
	stdin    io.Reader
	stdout   io.Writer
}

func (a *application) input() io.Reader {
	if a.stdin != nil {
		return a.stdin
	}
	return os.Stdin
}

func (a *application) output() io.Writer {
	if a.stdout != nil {
		return a.stdout
	}
	return os.Stdout
}

// openOutput returns the writer for -out, stdout when it is empty. The
// close function may be called more than once.
func (a *application) openOutput() (io.Writer, func() error, error) {
	if a.flags.Output == "" {
		return a.output(), func() error { return nil }, nil
	}
	fm := filemanager.NewFileManager(a.logger)
	if err := fm.EnsureParentDirectory(a.flags.Output); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(a.flags.Output)
	if err != nil {
		return nil, nil, errorwrapper.WrapError(err, "failed to create output file")
	}
	var (
		once     sync.Once
		closeErr error
	)
	closeFile := func() error {
		once.Do(func() { closeErr = f.Close() })
		return closeErr
	}
	return f, closeFile, nil
}

func (a *application) loadTargets() ([]string, error) {
	if a.flags.TargetsFile != "" {
		return urlhandler.ReadURLsFromFile(a.flags.TargetsFile, a.logger)
	}
	return urlhandler.ReadURLs(a.input(), a.logger)
}

// discoveryEnvelopes builds the tasks of a discover run: the -tasks file
// when given, otherwise one unknown web application task per target URL.
func (a *application) discoveryEnvelopes() ([]models.TaskEnvelope, error) {
	if a.flags.TasksFile != "" {
		f, err := os.Open(a.flags.TasksFile)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to open tasks file")
		}
		defer f.Close()
		return decodeJSONLines[models.TaskEnvelope](f)
	}

	targets, err := a.loadTargets()
	if err != nil {
		return nil, err
	}
	envelopes := make([]models.TaskEnvelope, 0, len(targets))
	for _, target := range targets {
		envelopes = append(envelopes, models.NewTaskEnvelope(models.WebAppTask{URL: target, WebApp: models.WebAppUnknown}))
	}
	return envelopes, nil
}

func (a *application) runDiscover(ctx context.Context) error {
	envelopes, err := a.discoveryEnvelopes()
	if err != nil {
		return err
	}
	if len(envelopes) == 0 {
		a.logger.Warn().Msg("No tasks to run")
		return nil
	}

	var store scanner.ResultStore
	if path := a.cfg.StorageConfig.SQLiteDBPath; path != "" {
		s, err := datastore.NewTaskResultStore(path, a.logger)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	var pages scanner.PageSource
	if a.flags.PagesDir != "" {
		pages = scanner.NewFilePageSource(a.flags.PagesDir, a.cfg.DiscoveryConfig, a.logger)
	}

	out, closeOut, err := a.openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	sink := scanner.NewJSONLinesSink(out)
	module := scanner.NewInjectionPointModule(a.cfg.DiscoveryConfig, pages, sink, a.logger)
	dispatcher := scanner.NewDispatcher(store, a.recorder, a.logger, module)

	var interesting, failed, unsupported int
	for _, envelope := range envelopes {
		results, err := dispatcher.Dispatch(ctx, envelope)
		switch {
		case errors.Is(err, errorwrapper.ErrUnsupportedTask):
			unsupported++
			a.logger.Debug().Str("task_id", envelope.ID).Msg("No module accepts task")
			continue
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			return err
		}
		for _, r := range results {
			switch r.Status {
			case models.TaskStatusInteresting:
				interesting++
			case models.TaskStatusError:
				failed++
			}
		}
	}

	a.logger.Info().
		Int("tasks", len(envelopes)).
		Int("interesting", interesting).
		Int("failed", failed).
		Int("unsupported", unsupported).
		Int("candidates", sink.Count()).
		Msg("Discovery finished")
	return closeOut()
}

func (a *application) runExpand(ctx context.Context) error {
	targets, err := a.loadTargets()
	if err != nil {
		return err
	}

	out, closeOut, err := a.openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	sink := scanner.NewJSONLinesSink(out)
	for _, target := range targets {
		candidates, err := injection.Expand(target)
		if err != nil {
			a.logger.Warn().Err(err).Str("url", target).Msg("Skipping malformed URL")
			continue
		}
		for _, c := range candidates {
			if err := sink.Emit(ctx, scanner.CandidateRecord{SourceURL: target, URL: c.URL, OriginalValue: c.OriginalValue}); err != nil {
				return err
			}
		}
	}

	a.logger.Info().Int("urls", len(targets)).Int("candidates", sink.Count()).Msg("Expansion finished")
	return closeOut()
}

// loadTaskResults reads the -file JSON lines, or every result in the
// SQLite store when no file is given.
func (a *application) loadTaskResults(ctx context.Context) ([]models.TaskResult, error) {
	if a.flags.TargetsFile != "" {
		f, err := os.Open(a.flags.TargetsFile)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to open task results file")
		}
		defer f.Close()
		return decodeJSONLines[models.TaskResult](f)
	}

	path := a.cfg.StorageConfig.SQLiteDBPath
	if path == "" {
		return nil, errorwrapper.NewValidationError("file", "", "-file is required when no SQLite store is configured")
	}
	store, err := datastore.NewTaskResultStore(path, a.logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.ListTaskResults(ctx, "")
}

func (a *application) runReport(ctx context.Context) error {
	results, err := a.loadTaskResults(ctx)
	if err != nil {
		return err
	}

	pipeline, err := reporter.NewPipeline(a.cfg.ReporterConfig, a.recorder, a.logger, reporter.DefaultReporters(a.cfg.ExtraModulesConfig)...)
	if err != nil {
		return err
	}
	if path := a.cfg.StorageConfig.ReportArchivePath; path != "" {
		archive, err := datastore.NewReportArchive(path, a.logger)
		if err != nil {
			return err
		}
		pipeline.WithArchive(archive)
	}

	batch, err := pipeline.Process(ctx, results)
	if err != nil {
		return err
	}
	for _, asset := range batch.Assets {
		a.logger.Info().Str("type", string(asset.Type)).Str("name", asset.Name).Str("additional_type", asset.AdditionalType).Msg("Asset found")
	}

	renderer, err := pipeline.NewRenderer()
	if err != nil {
		return err
	}
	emails, err := renderer.RenderEmails(batch.Reports)
	if err != nil {
		return err
	}
	return a.writeEmails(emails)
}

// writeEmails prints the messages to stdout, or writes one file per
// top-level target into the -out directory.
func (a *application) writeEmails(emails []reporter.Email) error {
	if a.flags.Output == "" {
		for _, email := range emails {
			if _, err := fmt.Fprintf(a.output(), "<!-- %s -->\n%s\n", email.TopLevelTarget, email.Body); err != nil {
				return err
			}
		}
		return nil
	}

	if err := os.MkdirAll(a.flags.Output, 0755); err != nil {
		return errorwrapper.WrapError(err, "failed to create report directory")
	}
	for _, email := range emails {
		path := filepath.Join(a.flags.Output, urlhandler.SanitizeFilename(email.TopLevelTarget)+".html")
		if err := os.WriteFile(path, []byte(email.Body), 0644); err != nil {
			return errorwrapper.WrapError(err, "failed to write report")
		}
		a.logger.Info().Str("path", path).Str("target", email.TopLevelTarget).Msg("Report written")
	}
	return nil
}

// decodeJSONLines decodes a stream of JSON values.
func decodeJSONLines[T any](r io.Reader) ([]T, error) {
	decoder := json.NewDecoder(r)
	var values []T
	for {
		var v T
		err := decoder.Decode(&v)
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", len(values)+1, err)
		}
		values = append(values, v)
	}
}
