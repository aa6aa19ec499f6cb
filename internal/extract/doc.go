// Package extract turns raw HTML into the three output representations
// docsink persists per page.
//
// # Components
//
//   - Extractor: locates the content region by CSS selector, rewrites
//     relative hyperlink and image references to absolute URLs, and
//     exposes the page title plus every href on the page for frontier
//     discovery
//   - ToMarkdown: converts the extracted HTML fragment to Markdown
//   - Slug: derives the filesystem identifier for a URL path
//
// Design decision: We use goquery for selector queries and subtree
// serialization rather than walking golang.org/x/net/html nodes by hand
// because:
//  1. The content region is configured as a CSS selector, which goquery
//     evaluates directly
//  2. Attribute rewriting and OuterHtml on a selection are one-liners
//  3. goquery builds on x/net/html, so malformed real-world HTML is
//     still handled
package extract
