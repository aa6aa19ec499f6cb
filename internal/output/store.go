package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Page is one extracted page ready for persistence.
type Page struct {
	// Slug is the page's directory name under the output root. Empty
	// for the site root, whose files are written directly into the root.
	Slug string

	// URL is the page's absolute source URL, recorded in the
	// provenance header of each representation.
	URL string

	// FetchedAt is when the page body was retrieved.
	FetchedAt time.Time

	// Markdown, HTML, and Text are the three representations of the
	// content region.
	Markdown string
	HTML     string
	Text     string
}

// Store writes pages beneath a single output root directory.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir. A previous run's output at
// the same path is removed first: a crawl always starts from an empty
// output root and the existence checks guard only against duplicate
// work within the current run.
func NewStore(dir string) (*Store, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clean output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the output root directory.
func (s *Store) Root() string {
	return s.root
}

// Exists reports whether a page with the given slug has already been
// written. It checks the markdown file rather than the directory, so a
// directory left behind by an interrupted run does not mask the page.
func (s *Store) Exists(slug string) bool {
	_, err := os.Stat(filepath.Join(s.root, slug, "index.md"))
	return err == nil
}

// WritePage writes the three representations of a page into its
// directory. Each file opens with a provenance comment naming the
// source URL and fetch time.
func (s *Store) WritePage(page *Page) error {
	dir := filepath.Join(s.root, page.Slug)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create page directory %s: %w", dir, err)
	}

	stamp := page.FetchedAt.UTC().Format(time.RFC3339)
	files := []struct {
		name string
		body string
	}{
		{
			name: "index.md",
			body: fmt.Sprintf("<!-- source: %s, extracted: %s -->\n\n%s", page.URL, stamp, page.Markdown),
		},
		{
			name: "index.html",
			body: fmt.Sprintf("<!-- source: %s, extracted: %s -->\n%s", page.URL, stamp, page.HTML),
		},
		{
			name: "index.txt",
			body: fmt.Sprintf("source: %s, extracted: %s\n\n%s", page.URL, stamp, page.Text),
		},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.body), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
