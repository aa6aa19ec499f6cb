package crawler

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/docsink/docsink/internal/extract"
	"github.com/docsink/docsink/internal/fetch"
	"github.com/docsink/docsink/internal/model"
	"github.com/docsink/docsink/internal/output"
)

// Fetcher retrieves a page over the network.
// *fetch.Client satisfies this; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Store persists the rendered representations of a page.
// *output.Store satisfies this; tests substitute fakes.
type Store interface {
	Exists(slug string) bool
	WritePage(page *output.Page) error
}

// MarkdownFunc converts an HTML fragment to Markdown.
type MarkdownFunc func(htmlFragment string) (string, error)

// Processor runs the per-page work: fetch, discover links, extract the
// content region, render the three representations, and persist them.
// Failures in the fetch/parse phase go to the retry path; persistence
// failures are final for the page.
type Processor struct {
	fetcher    Fetcher
	extractor  *extract.Extractor
	toMarkdown MarkdownFunc
	store      Store
	scope      *Scope
	state      *State
	frontier   *Frontier
	logger     *slog.Logger

	// maxRetries is the number of re-submissions after the first failed
	// attempt; retryDelay is the fixed wait before each one.
	maxRetries int
	retryDelay time.Duration

	// now is injectable for provenance timestamps in tests.
	now func() time.Time
}

// ProcessorConfig carries the dependencies and policy for a Processor.
type ProcessorConfig struct {
	Fetcher    Fetcher
	Extractor  *extract.Extractor
	ToMarkdown MarkdownFunc
	Store      Store
	Scope      *Scope
	State      *State
	Frontier   *Frontier
	Logger     *slog.Logger
	MaxRetries int
	RetryDelay time.Duration
}

// NewProcessor creates a Processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	p := &Processor{
		fetcher:    cfg.Fetcher,
		extractor:  cfg.Extractor,
		toMarkdown: cfg.ToMarkdown,
		store:      cfg.Store,
		scope:      cfg.Scope,
		state:      cfg.State,
		frontier:   cfg.Frontier,
		logger:     cfg.Logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		now:        time.Now,
	}
	if p.toMarkdown == nil {
		p.toMarkdown = extract.ToMarkdown
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Process handles one work item end to end. It never returns an error:
// per-URL failures are contained here, either re-submitted through the
// retry path or logged and dropped. One page's failure must not abort
// the crawl.
func (p *Processor) Process(ctx context.Context, item model.WorkItem) {
	// A retry re-enters processing for a URL whose visit already
	// started, so the double-admission guard applies only to first
	// attempts.
	if item.RetryCount == 0 && !p.state.Ledger.BeginVisit(item.URL) {
		p.logger.Debug("already visited", "url", item.URL)
		return
	}

	pageURL, err := url.Parse(item.URL)
	if err != nil {
		// Admitted URLs have passed Resolve already; this is a
		// programming error, not a crawl condition.
		p.logger.Error("unparseable admitted URL", "url", item.URL, "error", err)
		return
	}

	res, err := p.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		p.fail(item, &FetchError{URL: item.URL, Err: err})
		return
	}

	page, err := p.extractor.Parse(res.Body)
	if err != nil {
		// An unparseable body is usually a truncated or garbage
		// response; give it the same retry treatment as a failed fetch.
		p.fail(item, &FetchError{URL: item.URL, Err: err})
		return
	}

	p.discoverLinks(page.Hrefs, pageURL)

	slug, err := p.claimOutput(pageURL, item.URL)
	if err != nil {
		p.logger.Debug("output already present", "url", item.URL)
		return
	}

	content, err := p.extractor.Content(page)
	if err != nil {
		if errors.Is(err, extract.ErrNoContent) {
			p.logger.Debug("no content region, skipping", "url", item.URL)
			return
		}
		p.logger.Error("content extraction failed", "url", item.URL, "error", err)
		return
	}

	markdown, err := p.toMarkdown(content.HTML)
	if err != nil {
		p.logger.Error("markdown conversion failed", "url", item.URL, "error", err)
		return
	}

	if err := p.store.WritePage(&output.Page{
		Slug:      slug,
		URL:       item.URL,
		FetchedAt: p.now(),
		Markdown:  markdown,
		HTML:      content.HTML,
		Text:      content.Text,
	}); err != nil {
		// Filesystem failures indicate an environment problem, not a
		// transient network condition. Do not retry.
		p.logger.Error("persist failed", "url", item.URL, "error", err)
		return
	}

	p.state.AppendRecord(model.PageRecord{
		URL:   item.URL,
		Path:  slug,
		Title: page.Title,
	})
	done := p.state.IncrSuccess()

	queued, _ := p.frontier.Stats()
	p.logger.Info("page extracted", "url", item.URL, "queued", queued, "done", done)
}

// discoverLinks resolves and classifies every href on a page and
// submits the in-scope, not-yet-seen ones as new work.
func (p *Processor) discoverLinks(hrefs []string, base *url.URL) {
	for _, href := range hrefs {
		resolved, err := p.scope.Resolve(href, base)
		if err != nil {
			// A malformed href fails the link, never the page.
			p.logger.Debug("skipping malformed link", "href", href, "error", err)
			continue
		}
		if !p.scope.InScope(resolved) {
			continue
		}
		normalized := Normalize(resolved)
		if p.state.Ledger.Admit(normalized) {
			p.frontier.Submit(model.WorkItem{URL: normalized})
		}
	}
}

// claimOutput derives the page's filesystem slug and claims it.
// An error means the page's output already exists, within this run or
// on disk, and processing should stop; that is the idempotence guard
// against duplicate-admission races.
func (p *Processor) claimOutput(pageURL *url.URL, rawURL string) (string, error) {
	slug := extract.Slug(pageURL)
	final, ok := p.state.ClaimSlug(slug, rawURL)
	if !ok {
		return "", errors.New("slug already claimed by this URL")
	}
	if p.store.Exists(final) {
		return "", errors.New("output directory already populated")
	}
	return final, nil
}

// fail routes a transient failure through the retry policy: re-submit
// with an incremented retry count after a fixed delay, until the
// ceiling, then abandon the URL for this run.
func (p *Processor) fail(item model.WorkItem, ferr *FetchError) {
	if item.RetryCount < p.maxRetries {
		p.logger.Warn("fetch failed, scheduling retry",
			"url", item.URL,
			"attempt", item.RetryCount+1,
			"maxRetries", p.maxRetries,
			"error", ferr.Err,
		)
		p.frontier.SubmitAfter(item.Retry(), p.retryDelay)
		return
	}

	p.logger.Error("abandoning URL after retries",
		"url", item.URL,
		"attempts", item.RetryCount+1,
		"error", ferr.Err,
	)
	p.state.AddAbandoned(item.URL)
}
