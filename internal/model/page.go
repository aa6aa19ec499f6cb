package model

import "time"

// WorkItem is one unit of frontier work: a URL to process and the number
// of retries already consumed.
//
// Design decision: WorkItem is immutable once created. A failed fetch
// produces a new WorkItem with RetryCount+1 rather than mutating the old
// one. This keeps the retry path free of shared mutable state and makes
// each attempt traceable in logs.
type WorkItem struct {
	// URL is the absolute, normalized URL to fetch.
	URL string

	// RetryCount is the number of retries already consumed for this URL.
	// Zero for a freshly discovered URL.
	RetryCount int
}

// Retry returns a new WorkItem for the same URL with the retry count
// incremented by one.
func (w WorkItem) Retry() WorkItem {
	return WorkItem{URL: w.URL, RetryCount: w.RetryCount + 1}
}

// PageRecord is the metadata recorded for one successfully extracted page.
// Records accumulate in completion order, which is nondeterministic across
// runs because page processing is concurrent.
type PageRecord struct {
	// URL is the page's absolute URL.
	URL string `json:"url"`

	// Path is the filesystem identifier derived from the URL path.
	// Empty for the site root, whose files live directly in the output root.
	Path string `json:"path"`

	// Title is the page title from the <title> tag, if any.
	Title string `json:"title"`
}

// CrawlSummary aggregates crawl statistics for the summary report and the
// history database.
type CrawlSummary struct {
	// RootURL is the URL the crawl started from.
	RootURL string `json:"root_url"`

	// Pages contains one record per extracted page, in completion order.
	Pages []PageRecord `json:"pages"`

	// Abandoned lists URLs dropped after exhausting all retry attempts.
	Abandoned []string `json:"abandoned,omitempty"`

	// Started is when the crawl began.
	Started time.Time `json:"started"`

	// Finished is when the frontier went idle.
	Finished time.Time `json:"finished"`
}

// Elapsed returns the wall-clock duration of the crawl.
func (s *CrawlSummary) Elapsed() time.Duration {
	return s.Finished.Sub(s.Started)
}
