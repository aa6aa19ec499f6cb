// Package output persists crawl results to the filesystem: the per-page
// directories with the three content representations, the metadata.json
// index, and the human-readable SUMMARY.md report.
//
// Layout under the output root:
//
//	<output-root>/
//	  index.md, index.html, index.txt   (site root page, empty slug)
//	  <slug>/
//	    index.md, index.html, index.txt
//	  metadata.json
//	  SUMMARY.md
//
// Writers here are not aware of crawl concurrency. Slug uniqueness is
// guaranteed upstream, so each page directory has exactly one writer.
package output
