// Package main provides the entry point for the docsink CLI.
//
// docsink crawls a documentation website, extracts the content region
// of every page, and saves each page as Markdown, HTML, and plain text
// alongside a metadata index and a compressed archive.
//
// Usage:
//
//	docsink crawl https://docs.example.com/
//	docsink history
//
// See --help for all available options.
package main

// main is the entry point for docsink.
func main() {
	Execute()
}
