package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/docsink/docsink/internal/config"
	"github.com/docsink/docsink/internal/extract"
	"github.com/docsink/docsink/internal/fetch"
	"github.com/docsink/docsink/internal/model"
)

// Engine assembles the frontier, the shared crawl state, and the
// per-page processor, then drives one crawl from the root URL to
// frontier idle.
type Engine struct {
	cfg      *config.Config
	root     *url.URL
	frontier *Frontier
	state    *State
	proc     *Processor
	logger   *slog.Logger

	// now is injectable for deterministic summaries in tests.
	now func() time.Time
}

// NewEngine builds an Engine from the given configuration and output
// store. Per-site configuration overrides (selector, headers,
// concurrency) are applied here, before any component is constructed.
func NewEngine(cfg *config.Config, store Store, logger *slog.Logger) (*Engine, error) {
	root, err := url.Parse(cfg.RootURL)
	if err != nil {
		return nil, fmt.Errorf("parse root URL: %w", err)
	}

	selector := cfg.Selector
	headers := map[string]string(nil)
	concurrency := cfg.Concurrency
	if cfg.SiteConfigs != nil {
		site := cfg.SiteConfigs.GetSiteConfig(cfg.Origin())
		if site.Selector != "" {
			selector = site.Selector
		}
		if len(site.Headers) > 0 {
			headers = site.Headers
		}
		if site.Concurrency > 0 {
			concurrency = site.Concurrency
		}
	}

	state := NewState()
	frontier := NewFrontier(concurrency)
	proc := NewProcessor(ProcessorConfig{
		Fetcher: fetch.NewClient(cfg.FetchTimeout,
			fetch.WithUserAgent(cfg.UserAgent),
			fetch.WithHeaders(headers),
			fetch.WithMaxBodySize(cfg.MaxBodySize),
		),
		Extractor:  extract.NewExtractor(root, selector),
		Store:      store,
		Scope:      NewScope(root),
		State:      state,
		Frontier:   frontier,
		Logger:     logger,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})

	return &Engine{
		cfg:      cfg,
		root:     root,
		frontier: frontier,
		state:    state,
		proc:     proc,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// State exposes the crawl state, for callers that report on it.
func (e *Engine) State() *State {
	return e.state
}

// Run executes the crawl: the normalized root URL is admitted and
// submitted, workers process the frontier until it is idle, and the
// accumulated results are returned as a summary. Run blocks for the
// duration of the crawl.
func (e *Engine) Run(ctx context.Context) (*model.CrawlSummary, error) {
	normalized := Normalize(e.root)
	if !e.state.Ledger.Admit(normalized) {
		return nil, fmt.Errorf("root URL %q rejected by ledger", normalized)
	}

	started := e.now()
	e.logger.Info("crawl started",
		"root", normalized,
		"concurrency", e.frontier.workers,
		"selector", e.proc.extractor.Selector(),
	)

	e.frontier.Submit(model.WorkItem{URL: normalized})
	e.frontier.Run(ctx, e.proc.Process)

	summary := &model.CrawlSummary{
		RootURL:   normalized,
		Pages:     e.state.Records(),
		Abandoned: e.state.Abandoned(),
		Started:   started,
		Finished:  e.now(),
	}

	e.logger.Info("crawl finished",
		"pages", len(summary.Pages),
		"abandoned", len(summary.Abandoned),
		"seen", e.state.Ledger.SeenCount(),
		"elapsed", summary.Elapsed().Round(time.Millisecond),
	)
	return summary, nil
}
