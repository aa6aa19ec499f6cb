// Package crawler implements the docsink crawl engine.
//
// # Architecture
//
// The engine is a bounded-concurrency frontier: discovered URLs enter the
// Frontier, a fixed pool of workers pops them, and each worker runs the
// Processor, which may discover more URLs and feed them back in. The
// crawl is finished when the frontier is idle: nothing queued, nothing
// in flight, and no retry waiting out its delay.
//
// Design decision: We implement our own frontier rather than using a
// crawling framework because:
//  1. Completion detection must account for work submitted during
//     processing and for retries inside their delay window
//  2. The retry policy (fixed delay, attempt ceiling, in-flight
//     accounting) is part of the engine's contract, not a transport
//     concern
//  3. The rest of the system stays testable with plain interfaces
//
// # Components
//
//   - Frontier: bounded work queue with in-flight counting and a
//     fire-once idle signal
//   - Ledger: seen/visited URL sets gating enqueue and processing
//   - Scope: resolves hrefs and classifies them as in- or out-of-scope
//   - Processor: per-page fetch, link discovery, extraction, persistence
//   - State: crawl-wide ledger, page records, success counter, and slug
//     claims, with safe concurrent mutation
//   - Engine: wires the pieces together and runs a crawl to completion
//
// # Failure handling
//
// Fetch and parse failures are wrapped in *FetchError and re-submitted
// with a fixed delay until the retry ceiling, then abandoned. Filesystem
// failures are not retried: they indicate an environment problem, not a
// transient network condition. One page's failure never aborts the crawl.
package crawler
