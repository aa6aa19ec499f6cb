package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docsink/docsink/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "docs-output"))
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	return s
}

func TestNewStoreDestroysPreviousRun(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "docs-output")
	if err := os.MkdirAll(filepath.Join(dir, "stale"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stale", "index.md"), []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "stale")); !os.IsNotExist(err) {
		t.Error("expected previous run's output to be removed")
	}
}

func TestStoreWritePage(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	fetched := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("named slug writes three files with provenance", func(t *testing.T) {
		err := s.WritePage(&Page{
			Slug:      "guide-intro",
			URL:       "https://docs.example.test/guide/intro",
			FetchedAt: fetched,
			Markdown:  "# Intro",
			HTML:      "<h1>Intro</h1>",
			Text:      "Intro",
		})
		if err != nil {
			t.Fatalf("WritePage() = %v", err)
		}

		md, err := os.ReadFile(filepath.Join(s.Root(), "guide-intro", "index.md"))
		if err != nil {
			t.Fatal(err)
		}
		want := "<!-- source: https://docs.example.test/guide/intro, extracted: 2026-03-14T09:26:53Z -->"
		if !strings.HasPrefix(string(md), want) {
			t.Errorf("index.md starts with %q, want prefix %q", md, want)
		}
		if !strings.Contains(string(md), "# Intro") {
			t.Error("index.md missing markdown body")
		}

		for _, name := range []string{"index.html", "index.txt"} {
			if _, err := os.Stat(filepath.Join(s.Root(), "guide-intro", name)); err != nil {
				t.Errorf("missing %s: %v", name, err)
			}
		}
		if !s.Exists("guide-intro") {
			t.Error("Exists() = false after WritePage")
		}
	})

	t.Run("empty slug writes into the output root", func(t *testing.T) {
		err := s.WritePage(&Page{
			Slug:      "",
			URL:       "https://docs.example.test/",
			FetchedAt: fetched,
			Markdown:  "# Home",
			HTML:      "<h1>Home</h1>",
			Text:      "Home",
		})
		if err != nil {
			t.Fatalf("WritePage() = %v", err)
		}
		if _, err := os.Stat(filepath.Join(s.Root(), "index.md")); err != nil {
			t.Errorf("root index.md missing: %v", err)
		}
		if !s.Exists("") {
			t.Error("Exists(\"\") = false after writing the root page")
		}
	})

	t.Run("unknown slug does not exist", func(t *testing.T) {
		if s.Exists("never-written") {
			t.Error("Exists() = true for a slug never written")
		}
	})
}

func TestStoreWriteMetadata(t *testing.T) {
	t.Parallel()

	t.Run("records round-trip in order", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		records := []model.PageRecord{
			{URL: "https://docs.example.test/", Path: "", Title: "Home"},
			{URL: "https://docs.example.test/a", Path: "a", Title: "A"},
		}
		if err := s.WriteMetadata(records); err != nil {
			t.Fatalf("WriteMetadata() = %v", err)
		}

		data, err := os.ReadFile(filepath.Join(s.Root(), MetadataFile))
		if err != nil {
			t.Fatal(err)
		}
		var got []model.PageRecord
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("metadata.json is not valid JSON: %v", err)
		}
		if len(got) != 2 || got[0].Title != "Home" || got[1].Path != "a" {
			t.Errorf("metadata = %+v, want the two written records in order", got)
		}
	})

	t.Run("nil records produce an empty array", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		if err := s.WriteMetadata(nil); err != nil {
			t.Fatalf("WriteMetadata(nil) = %v", err)
		}
		data, err := os.ReadFile(filepath.Join(s.Root(), MetadataFile))
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.TrimSpace(string(data)); got != "[]" {
			t.Errorf("metadata.json = %q, want empty JSON array", got)
		}
	})
}

func TestStoreWriteSummary(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	summary := &model.CrawlSummary{
		RootURL: "https://docs.example.test/",
		Pages: []model.PageRecord{
			{URL: "https://docs.example.test/", Path: "", Title: "Home"},
			{URL: "https://docs.example.test/a", Path: "a", Title: "A"},
		},
		Abandoned: []string{"https://docs.example.test/broken"},
		Started:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Finished:  time.Date(2026, 3, 14, 9, 0, 42, 0, time.UTC),
	}
	if err := s.WriteSummary(summary); err != nil {
		t.Fatalf("WriteSummary() = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Root(), SummaryFile))
	if err != nil {
		t.Fatal(err)
	}
	report := string(data)

	for _, want := range []string{
		"# Crawl Summary",
		"https://docs.example.test/",
		"## Extracted Pages",
		"Home",
		"## Abandoned URLs",
		"https://docs.example.test/broken",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("SUMMARY.md missing %q", want)
		}
	}
}
