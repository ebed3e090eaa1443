package reporter

import (
	"context"
	"fmt"

	"github.com/aleister1102/artemis-extras/internal/common/contextutils"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/metrics"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/rs/zerolog"
)

// ReportArchiver stores the reports a pipeline run produced.
type ReportArchiver interface {
	Append(ctx context.Context, reports []models.Report) error
}

// Failure is a task result no report could be created from.
type Failure struct {
	ResultID string
	Receiver string
	Err      error
}

// Batch is everything one Process call produced.
type Batch struct {
	Reports  []models.Report
	Assets   []models.Asset
	Failures []Failure
	// Skipped counts results per reason they were ignored.
	Skipped map[string]int
	// Duplicates counts reports dropped in favour of one with the same
	// normal form.
	Duplicates int
	// BelowMinScore counts reports dropped by ReporterConfig.MinScores.
	BelowMinScore int
}

// Pipeline runs task results through the reporters and deduplicates the
// reports by normal form.
type Pipeline struct {
	reporters map[string]Reporter
	ordered   []Reporter
	lang      Language
	minScores map[string]int
	recorder  *metrics.Recorder
	archive   ReportArchiver
	logger    zerolog.Logger
}

// NewPipeline creates a pipeline for cfg. recorder may be nil.
func NewPipeline(cfg config.ReporterConfig, recorder *metrics.Recorder, logger zerolog.Logger, reporters ...Reporter) (*Pipeline, error) {
	lang, err := ParseLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}

	byReceiver := make(map[string]Reporter, len(reporters))
	for _, r := range reporters {
		if _, dup := byReceiver[r.Receiver()]; dup {
			return nil, fmt.Errorf("two reporters registered for receiver %q", r.Receiver())
		}
		byReceiver[r.Receiver()] = r
	}

	return &Pipeline{
		reporters: byReceiver,
		ordered:   reporters,
		lang:      lang,
		minScores: cfg.MinScores,
		recorder:  recorder,
		logger:    logger.With().Str("component", "ReportPipeline").Logger(),
	}, nil
}

// WithArchive makes Process append its reports to archive.
func (p *Pipeline) WithArchive(archive ReportArchiver) *Pipeline {
	p.archive = archive
	return p
}

// Language returns the language reports are created in.
func (p *Pipeline) Language() Language { return p.lang }

// Reporters returns the registered reporters in registration order.
func (p *Pipeline) Reporters() []Reporter { return p.ordered }

// NewRenderer creates a renderer for the pipeline language and reporters.
func (p *Pipeline) NewRenderer() (*Renderer, error) {
	return NewRenderer(p.lang, p.ordered)
}

// Process creates reports from results. Per-result problems are collected
// in the batch; the returned error is reserved for cancellation and
// archive failures.
func (p *Pipeline) Process(ctx context.Context, results []models.TaskResult) (Batch, error) {
	batch := Batch{Skipped: make(map[string]int)}
	dedup := newDeduplicator()

	for _, result := range results {
		if check := contextutils.CheckCancellationWithLog(ctx, p.logger, "create reports"); check.Cancelled {
			return batch, check.Error
		}

		receiver := result.Receiver
		if receiver == "" {
			receiver = result.Headers[models.HeaderReceiver]
		}
		r, ok := p.reporters[receiver]
		if !ok {
			batch.Skipped["no reporter for receiver"]++
			continue
		}

		outcome := r.CreateReports(result, p.lang)
		switch {
		case outcome.Err != nil:
			p.logger.Warn().Err(outcome.Err).Str("result_id", result.ID).Str("receiver", receiver).Msg("Unable to create reports")
			batch.Failures = append(batch.Failures, Failure{ResultID: result.GetID(), Receiver: receiver, Err: outcome.Err})
			continue
		case outcome.Skipped != "":
			p.logger.Debug().Str("result_id", result.ID).Str("reason", outcome.Skipped).Msg("Skipped task result")
			batch.Skipped[outcome.Skipped]++
			continue
		}

		batch.Assets = append(batch.Assets, outcome.Assets...)

		for _, report := range outcome.Reports {
			hash, err := r.NormalForm(report).Hash()
			if err != nil {
				batch.Failures = append(batch.Failures, Failure{ResultID: result.ID, Receiver: receiver, Err: err})
				continue
			}
			report.NormalForm = hash
			report.Score = r.Score(report)

			if minScore, ok := p.minScores[string(report.ReportType)]; ok && report.Score < minScore {
				batch.BelowMinScore++
				continue
			}
			if !dedup.add(report) {
				batch.Duplicates++
			}
		}
	}

	batch.Reports = dedup.reports()
	for _, report := range batch.Reports {
		p.recorder.ObserveReport(string(report.ReportType))
	}

	p.logger.Info().
		Int("results", len(results)).
		Int("reports", len(batch.Reports)).
		Int("assets", len(batch.Assets)).
		Int("failures", len(batch.Failures)).
		Int("duplicates", batch.Duplicates).
		Msg("Created reports")

	if p.archive != nil && len(batch.Reports) > 0 {
		if err := p.archive.Append(ctx, batch.Reports); err != nil {
			return batch, fmt.Errorf("failed to archive reports: %w", err)
		}
	}
	return batch, nil
}

// deduplicator keeps, per normal form, the report with the highest score,
// then the newest one. Reports keep the position of the first report with
// their normal form.
type deduplicator struct {
	index map[string]int
	kept  []models.Report
}

func newDeduplicator() *deduplicator {
	return &deduplicator{index: make(map[string]int)}
}

// add returns false when report collided with an already seen normal form.
func (d *deduplicator) add(report models.Report) bool {
	i, seen := d.index[report.NormalForm]
	if !seen {
		d.index[report.NormalForm] = len(d.kept)
		d.kept = append(d.kept, report)
		return true
	}

	current := d.kept[i]
	if report.Score > current.Score || (report.Score == current.Score && newer(report, current)) {
		d.kept[i] = report
	}
	return false
}

func newer(a, b models.Timestamped) bool {
	return a.GetTimestamp().After(b.GetTimestamp())
}

func (d *deduplicator) reports() []models.Report {
	return d.kept
}
