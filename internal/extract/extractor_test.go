package extract

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

// mustParse parses a URL or fails the test.
func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

// TestExtractorParse tests document parsing and link collection.
func TestExtractorParse(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "https://docs.example.test/")

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		body := []byte(`<html><head><title> Getting Started </title></head><body></body></html>`)

		e := NewExtractor(root, "article")
		page, err := e.Parse(body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if page.Title != "Getting Started" {
			t.Errorf("Title = %q", page.Title)
		}
	})

	t.Run("collects hrefs from the whole page", func(t *testing.T) {
		t.Parallel()

		body := []byte(`<html><body>
<nav><a href="/a">A</a><a href="https://other.test/b">B</a></nav>
<article><p>x</p><a href="c#frag">C</a></article>
</body></html>`)

		e := NewExtractor(root, "article")
		page, err := e.Parse(body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"/a", "https://other.test/b", "c#frag"}
		if len(page.Hrefs) != len(want) {
			t.Fatalf("Hrefs = %v, expected %v", page.Hrefs, want)
		}
		for i, href := range want {
			if page.Hrefs[i] != href {
				t.Errorf("Hrefs[%d] = %q, expected %q", i, page.Hrefs[i], href)
			}
		}
	})

	t.Run("hrefs survive on pages without a content region", func(t *testing.T) {
		t.Parallel()

		body := []byte(`<html><body><nav><a href="/a">A</a></nav></body></html>`)

		e := NewExtractor(root, "article")
		page, err := e.Parse(body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Hrefs) != 1 || page.Hrefs[0] != "/a" {
			t.Errorf("Hrefs = %v", page.Hrefs)
		}

		if _, err := e.Content(page); !errors.Is(err, ErrNoContent) {
			t.Errorf("expected ErrNoContent, got %v", err)
		}
	})
}

// TestExtractorContent tests content-region extraction.
func TestExtractorContent(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "https://docs.example.test/")

	// parse is a helper running both phases.
	parse := func(t *testing.T, body string) (*Content, error) {
		t.Helper()
		e := NewExtractor(root, "article")
		page, err := e.Parse([]byte(body))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		return e.Content(page)
	}

	t.Run("renders HTML and text", func(t *testing.T) {
		t.Parallel()

		content, err := parse(t, `<html><body>
<nav><a href="/guide">Guide</a></nav>
<article><h1>Intro</h1><p>Welcome to the docs.</p></article>
</body></html>`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(content.HTML, "<h1>Intro</h1>") {
			t.Errorf("HTML = %q", content.HTML)
		}
		if !strings.Contains(content.Text, "Welcome to the docs.") {
			t.Errorf("Text = %q", content.Text)
		}
		if strings.Contains(content.HTML, "<nav>") {
			t.Errorf("navigation leaked into content: %q", content.HTML)
		}
	})

	t.Run("missing selector returns ErrNoContent", func(t *testing.T) {
		t.Parallel()

		if _, err := parse(t, `<html><body><div>nav only</div></body></html>`); !errors.Is(err, ErrNoContent) {
			t.Errorf("expected ErrNoContent, got %v", err)
		}
	})

	t.Run("empty region returns ErrNoContent", func(t *testing.T) {
		t.Parallel()

		if _, err := parse(t, `<html><body><article>   </article></body></html>`); !errors.Is(err, ErrNoContent) {
			t.Errorf("expected ErrNoContent, got %v", err)
		}
	})

	t.Run("first matching region wins", func(t *testing.T) {
		t.Parallel()

		content, err := parse(t, `<html><body>
<article><p>first</p></article>
<article><p>second</p></article>
</body></html>`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(content.HTML, "second") {
			t.Errorf("second region leaked into content: %q", content.HTML)
		}
	})
}

// TestExtractorRewrite tests relative reference rewriting.
func TestExtractorRewrite(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "https://docs.example.test/")

	tests := []struct {
		name     string
		body     string
		want     string
		dontWant string
	}{
		{
			name: "relative href is anchored at site root",
			body: `<article><p>x</p><a href="/guide/intro">intro</a></article>`,
			want: `href="https://docs.example.test/guide/intro"`,
		},
		{
			name: "path-relative href is anchored at site root",
			body: `<article><p>x</p><a href="guide/intro">intro</a></article>`,
			want: `href="https://docs.example.test/guide/intro"`,
		},
		{
			name:     "absolute href is unchanged",
			body:     `<article><p>x</p><a href="https://other.test/a">a</a></article>`,
			want:     `href="https://other.test/a"`,
			dontWant: `https://docs.example.test/a`,
		},
		{
			name: "relative img src is rewritten",
			body: `<article><p>x</p><img src="img/diagram.png"/></article>`,
			want: `src="https://docs.example.test/img/diagram.png"`,
		},
		{
			name:     "mailto href is untouched",
			body:     `<article><p>x</p><a href="mailto:docs@example.test">mail</a></article>`,
			want:     `href="mailto:docs@example.test"`,
			dontWant: "https://docs.example.test/mailto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewExtractor(root, "article")
			page, err := e.Parse([]byte("<html><body>" + tt.body + "</body></html>"))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			content, err := e.Content(page)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(content.HTML, tt.want) {
				t.Errorf("HTML = %q, expected to contain %q", content.HTML, tt.want)
			}
			if tt.dontWant != "" && strings.Contains(content.HTML, tt.dontWant) {
				t.Errorf("HTML = %q, expected not to contain %q", content.HTML, tt.dontWant)
			}
		})
	}
}

// TestToMarkdown tests HTML to Markdown conversion.
func TestToMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := ToMarkdown(`<h1>Intro</h1><p>Welcome <strong>home</strong>.</p>`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(md, "# Intro") {
			t.Errorf("markdown = %q, expected heading", md)
		}
		if !strings.Contains(md, "**home**") {
			t.Errorf("markdown = %q, expected bold text", md)
		}
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		md, err := ToMarkdown(`<p><a href="https://docs.example.test/a">A</a></p>`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(md, "[A](https://docs.example.test/a)") {
			t.Errorf("markdown = %q, expected link", md)
		}
	})
}

// TestSlug tests URL-to-identifier derivation.
func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "site root", url: "https://docs.example.test/", want: ""},
		{name: "empty path", url: "https://docs.example.test", want: ""},
		{name: "single segment", url: "https://docs.example.test/guide", want: "guide"},
		{name: "nested path", url: "https://docs.example.test/guide/intro", want: "guide-intro"},
		{name: "trailing slash", url: "https://docs.example.test/guide/intro/", want: "guide-intro"},
		{name: "upper case folded", url: "https://docs.example.test/API/Reference", want: "api-reference"},
		{name: "reserved characters stripped", url: "https://docs.example.test/a%3Fb%3Cc", want: "abc"},
		{name: "percent-decoded path", url: "https://docs.example.test/a%20b", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := mustParse(t, tt.url)
			if got := Slug(u); got != tt.want {
				t.Errorf("Slug(%q) = %q, expected %q", tt.url, got, tt.want)
			}
		})
	}
}
