package crawler

import "sync"

// Ledger tracks every URL the crawl has dealt with. It holds two sets
// of normalized URLs: seen (ever admitted to the frontier) and visited
// (a fetch attempt has started). Both grow monotonically and live for
// the duration of one crawl.
//
// The two sets close two different races: Admit prevents the same URL
// from being enqueued twice, and BeginVisit prevents double-processing
// a URL that slipped into the frontier more than once before the first
// admission was recorded. visited is always a subset of seen.
type Ledger struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	visited map[string]struct{}
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		seen:    make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// Admit atomically checks membership in seen. If the URL is new it is
// recorded and Admit returns true: the caller may enqueue it. Otherwise
// it returns false and the caller must discard the URL.
func (l *Ledger) Admit(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[url]; ok {
		return false
	}
	l.seen[url] = struct{}{}
	return true
}

// BeginVisit atomically checks membership in visited. It returns true
// exactly once per URL, at the start of the first processing attempt.
// The URL is also added to seen to preserve the subset invariant for
// callers that bypass Admit (the root URL).
func (l *Ledger) BeginVisit(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.visited[url]; ok {
		return false
	}
	l.visited[url] = struct{}{}
	l.seen[url] = struct{}{}
	return true
}

// SeenCount returns the number of unique URLs ever admitted.
func (l *Ledger) SeenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
