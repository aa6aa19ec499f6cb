package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Scope resolves discovered hrefs and decides which URLs belong to the
// crawl. A URL is in scope iff its origin (scheme and host) matches the
// site origin and it carries no fragment. Fragment-bearing URLs denote
// in-page anchors, not distinct documents, so they are excluded by
// policy rather than normalized away.
type Scope struct {
	// origin is the site origin all in-scope URLs must share.
	origin *url.URL
}

// NewScope creates a Scope for the site containing the given root URL.
func NewScope(root *url.URL) *Scope {
	return &Scope{origin: root}
}

// Resolve resolves an href against the URL of the page it appeared on.
// Malformed hrefs return an error wrapping ErrInvalidURL; the caller
// logs and skips them without failing the page.
func (s *Scope) Resolve(href string, base *url.URL) (*url.URL, error) {
	href = strings.TrimSpace(href)
	u, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, href, err)
	}
	return base.ResolveReference(u), nil
}

// InScope reports whether a resolved URL belongs to the crawl.
func (s *Scope) InScope(u *url.URL) bool {
	if u.Fragment != "" {
		return false
	}
	if !strings.EqualFold(u.Scheme, s.origin.Scheme) {
		return false
	}
	return strings.EqualFold(u.Host, s.origin.Host)
}

// Normalize returns the canonical string form of a URL used as the
// dedup key: lower-cased scheme and host, an explicit "/" for the empty
// path, query preserved. Fragments are not stripped here; fragment-
// bearing URLs never pass InScope, so they never reach the ledger.
func Normalize(u *url.URL) string {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)
	if n.Path == "" {
		n.Path = "/"
	}
	return n.String()
}
