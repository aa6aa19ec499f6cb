// Package fetch provides the HTTP transport used by the crawl engine.
//
// The Client wraps net/http with the behavior every page fetch needs:
// a per-request timeout, a descriptive User-Agent, optional extra headers
// for protected sites, a response body size limit, and status-code
// classification. Non-2xx responses are reported as *StatusError so the
// retry controller can distinguish them from environment problems.
package fetch
