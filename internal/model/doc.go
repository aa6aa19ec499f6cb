// Package model defines the core data structures used throughout docsink.
//
// This package contains the following main types:
//   - WorkItem: One unit of frontier work (URL plus retry count)
//   - PageRecord: Metadata recorded per successfully extracted page
//   - CrawlSummary: Aggregate crawl statistics produced at finalization
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, output, database) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for metadata.json output
// and database storage.
package model
