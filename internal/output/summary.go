package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/docsink/docsink/internal/model"
)

// SummaryFile is the name of the human-readable report written at the
// output root.
const SummaryFile = "SUMMARY.md"

// WriteSummary renders the crawl summary as a Markdown report next to
// the extracted pages. The report is for humans; metadata.json remains
// the machine-readable index.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
func (s *Store) WriteSummary(summary *model.CrawlSummary) error {
	path := filepath.Join(s.root, SummaryFile)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // best-effort close on the error paths

	md := markdown.NewMarkdown(f)

	md.H1("Crawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root URL", "`" + summary.RootURL + "`"},
			{"Started", summary.Started.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed().Round(time.Millisecond).String()},
			{"Pages Extracted", strconv.Itoa(len(summary.Pages))},
			{"URLs Abandoned", strconv.Itoa(len(summary.Abandoned))},
		},
	})
	md.PlainText("")

	writePages(md, summary.Pages)
	writeAbandoned(md, summary.Abandoned)

	if err := md.Build(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// writePages writes the table of extracted pages.
func writePages(md *markdown.Markdown, pages []model.PageRecord) {
	md.H2("Extracted Pages")
	md.PlainText("")

	if len(pages) == 0 {
		md.PlainText("No pages were extracted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		path := p.Path
		if path == "" {
			path = "."
		}
		rows = append(rows, []string{p.Title, "`" + path + "`", p.URL})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Title", "Path", "Source"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAbandoned lists URLs dropped after exhausting their retries.
// The section is omitted when the crawl had none.
func writeAbandoned(md *markdown.Markdown, abandoned []string) {
	if len(abandoned) == 0 {
		return
	}

	md.H2("Abandoned URLs")
	md.PlainText("")
	md.PlainText("These URLs failed every fetch attempt and were dropped:")
	md.PlainText("")
	items := make([]string, 0, len(abandoned))
	for _, u := range abandoned {
		items = append(items, "`"+u+"`")
	}
	md.BulletList(items...)
	md.PlainText("")
}
