package crawler

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/docsink/docsink/internal/model"
)

// State is the process-wide mutable state of one crawl: the dedup
// ledger, the ordered page records, the success counter, abandoned
// URLs, and the slug claims used for collision handling. It is
// constructed once at crawl start and shared by every processor.
//
// Design decision: All concurrency-sensitive fields live in one
// explicit object instead of package-level variables. That keeps the
// audit surface small and lets tests run independent crawls side by
// side.
type State struct {
	// Ledger gates frontier admission and processing entry.
	Ledger *Ledger

	mu        sync.Mutex
	records   []model.PageRecord
	abandoned []string
	claims    map[string]string // slug -> owning URL

	successes atomic.Int64
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		Ledger: NewLedger(),
		claims: make(map[string]string),
	}
}

// AppendRecord appends a page record. Records accumulate in completion
// order, which is nondeterministic under concurrency.
func (s *State) AppendRecord(r model.PageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Records returns a copy of the accumulated page records.
func (s *State) Records() []model.PageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PageRecord, len(s.records))
	copy(out, s.records)
	return out
}

// AddAbandoned records a URL dropped after exhausting its retries.
func (s *State) AddAbandoned(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandoned = append(s.abandoned, url)
}

// Abandoned returns a copy of the abandoned URLs.
func (s *State) Abandoned() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.abandoned))
	copy(out, s.abandoned)
	return out
}

// IncrSuccess increments the success counter and returns the new total.
func (s *State) IncrSuccess() int64 {
	return s.successes.Add(1)
}

// Successes returns the number of successfully extracted pages.
func (s *State) Successes() int64 {
	return s.successes.Load()
}

// ClaimSlug assigns a filesystem slug to a URL, atomically. If the slug
// is free it is claimed as-is. If a different URL already owns it, the
// slug is derived collision-resistantly with a numeric suffix ("-2",
// "-3", ...). If this URL already claimed a slug, ok is false: the page
// was already processed and the caller should stop.
func (s *State) ClaimSlug(slug, url string) (finalSlug string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := slug
	for i := 2; ; i++ {
		owner, taken := s.claims[candidate]
		if !taken {
			s.claims[candidate] = url
			return candidate, true
		}
		if owner == url {
			return "", false
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}
