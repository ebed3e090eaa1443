package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aleister1102/artemis-extras/internal/common/contextutils"
	"github.com/aleister1102/artemis-extras/internal/common/errorwrapper"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/injection"
	"github.com/aleister1102/artemis-extras/internal/linkextractor"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// InjectionPointsIdentity is the receiver name of InjectionPointModule.
const InjectionPointsIdentity = "injection_points"

// DiscoverySummary is the stored result of one injection point discovery.
type DiscoverySummary struct {
	URL               string `json:"url"`
	RootCandidate     string `json:"root_candidate"`
	PageFound         bool   `json:"page_found"`
	LinksDiscovered   int    `json:"links_discovered"`
	MalformedLinks    int    `json:"malformed_links,omitempty"`
	CandidatesEmitted int    `json:"candidates_emitted"`
}

// InjectionPointModule turns a web application URL, and the links of its
// saved page, into injection candidates for downstream scanners.
type InjectionPointModule struct {
	extractor   *linkextractor.Extractor
	pages       PageSource
	sink        CandidateSink
	concurrency int
	logger      zerolog.Logger
}

// NewInjectionPointModule creates the module. pages may be nil, in which
// case only the task URL itself is expanded.
func NewInjectionPointModule(cfg config.DiscoveryConfig, pages PageSource, sink CandidateSink, logger zerolog.Logger) *InjectionPointModule {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = config.DefaultDiscoveryConcurrency
	}
	return &InjectionPointModule{
		extractor:   linkextractor.NewExtractor(cfg, logger),
		pages:       pages,
		sink:        sink,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "InjectionPointModule").Logger(),
	}
}

// Identity implements Module.
func (m *InjectionPointModule) Identity() string { return InjectionPointsIdentity }

// Accepts implements Module. Only web applications that were not
// recognised as known software are examined.
func (m *InjectionPointModule) Accepts(task models.Task) bool {
	t, ok := task.(models.WebAppTask)
	return ok && t.WebApp == models.WebAppUnknown
}

// Run implements Module.
func (m *InjectionPointModule) Run(ctx context.Context, envelope models.TaskEnvelope) Result {
	task, ok := envelope.Task.(models.WebAppTask)
	if !ok {
		return errorResult(fmt.Errorf("%w: %s cannot handle %T", errorwrapper.ErrUnsupportedTask, InjectionPointsIdentity, envelope.Task))
	}

	root, err := injection.RootCandidate(task.URL)
	if err != nil {
		return errorResult(err)
	}

	summary := DiscoverySummary{URL: task.URL, RootCandidate: root}
	sources := []string{task.URL}

	if m.pages != nil {
		content, found, err := m.pages.Page(ctx, task.URL)
		if err != nil {
			return errorResult(errorwrapper.WrapError(err, "failed to load page"))
		}
		if found {
			summary.PageFound = true
			links, err := m.extractor.Extract(task.URL, content)
			if err != nil {
				m.logger.Warn().Err(err).Str("url", task.URL).Msg("Failed to extract links, expanding task URL only")
			} else {
				summary.LinksDiscovered = len(links)
				sources = append(sources, linkextractor.URLs(links)...)
			}
		}
	}

	expanded, malformed, err := m.expandAll(ctx, sources)
	if err != nil {
		return errorResult(err)
	}
	summary.MalformedLinks = malformed

	emitted, err := m.emit(ctx, envelope.ID, task.URL, root, sources, expanded)
	if err != nil {
		return Result{
			Status:       models.TaskStatusError,
			StatusReason: errorwrapper.WrapError(err, "failed to emit candidates").Error(),
			Data:         summary,
			Emitted:      emitted,
		}
	}
	summary.CandidatesEmitted = emitted

	m.logger.Info().
		Str("task_id", envelope.ID).
		Str("url", task.URL).
		Int("sources", len(sources)).
		Int("candidates", emitted).
		Msg("Injection point discovery finished")

	// The root probe is always emitted; only expansion candidates make the
	// target interesting.
	if emitted > 1 {
		return Result{
			Status:       models.TaskStatusInteresting,
			StatusReason: fmt.Sprintf("Found %d injection points in %d URLs", emitted-1, len(sources)),
			Data:         summary,
			Emitted:      emitted,
		}
	}
	return Result{Status: models.TaskStatusOK, Data: summary, Emitted: emitted}
}

// expandAll expands every source concurrently. Results keep the order of
// sources; links that fail to parse are counted and skipped.
func (m *InjectionPointModule) expandAll(ctx context.Context, sources []string) ([][]injection.Candidate, int, error) {
	results := make([][]injection.Candidate, len(sources))
	failed := make([]bool, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			if result := contextutils.CheckCancellation(gctx); result.Cancelled {
				return result.Error
			}
			candidates, err := injection.Expand(source)
			if err != nil {
				if i == 0 || !errors.Is(err, injection.ErrMalformedURL) {
					return err
				}
				m.logger.Debug().Err(err).Str("url", source).Msg("Skipping malformed link")
				failed[i] = true
				return nil
			}
			results[i] = candidates
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	malformed := 0
	for _, f := range failed {
		if f {
			malformed++
		}
	}
	return results, malformed, nil
}

type candidateKey struct {
	url   string
	value string
}

// emit streams the root probe followed by every unique candidate, in
// source order.
func (m *InjectionPointModule) emit(ctx context.Context, taskID, taskURL, root string, sources []string, expanded [][]injection.Candidate) (int, error) {
	seen := make(map[candidateKey]struct{})
	emitted := 0

	send := func(source string, c injection.Candidate) error {
		key := candidateKey{url: c.URL, value: c.OriginalValue}
		if _, dup := seen[key]; dup {
			return nil
		}
		seen[key] = struct{}{}
		if m.sink != nil {
			record := CandidateRecord{TaskID: taskID, SourceURL: source, URL: c.URL, OriginalValue: c.OriginalValue}
			if err := m.sink.Emit(ctx, record); err != nil {
				return err
			}
		}
		emitted++
		return nil
	}

	if err := send(taskURL, injection.Candidate{URL: root}); err != nil {
		return emitted, err
	}
	for i, candidates := range expanded {
		for _, c := range candidates {
			if err := send(sources[i], c); err != nil {
				return emitted, err
			}
		}
	}
	return emitted, nil
}
