package extract

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoContent is returned when the content selector matches nothing or
// the matched region is empty after trimming. This is expected for
// non-article pages (navigation shells, redirect stubs, search pages)
// and is not treated as a failure by the crawler.
var ErrNoContent = errors.New("no content region found")

// Page is a parsed HTML document. Link discovery works on every parsed
// page, including pages that turn out to have no content region.
type Page struct {
	// Title is the page title from the <title> tag, trimmed.
	Title string

	// Hrefs contains the raw href attribute of every anchor on the full
	// page, in document order. Values are unresolved; the crawler's
	// scope classifier decides what becomes frontier work.
	Hrefs []string

	// doc retains the parsed tree for content extraction.
	doc *goquery.Document
}

// Content is the rendered content region of a page.
type Content struct {
	// HTML is the serialized content region with relative hyperlink and
	// image references rewritten to absolute URLs.
	HTML string

	// Text is the plain-text rendering of the content region.
	Text string
}

// Extractor extracts the content region of documentation pages.
type Extractor struct {
	// selector is the CSS selector locating the content region.
	selector string

	// root is the site root used as the base for reference rewriting,
	// so extracted content is self-contained.
	root *url.URL
}

// NewExtractor creates an Extractor for the given site root and content
// selector. The root should be the origin with a "/" path.
func NewExtractor(root *url.URL, selector string) *Extractor {
	return &Extractor{selector: selector, root: root}
}

// Selector returns the CSS selector in effect.
func (e *Extractor) Selector() string {
	return e.selector
}

// Parse parses a page body and collects the title and every href on the
// page. Navigation menus are how most documentation pages link to each
// other, so hrefs are gathered from the full document, not just the
// content region.
func (e *Extractor) Parse(body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	page := &Page{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		doc:   doc,
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			page.Hrefs = append(page.Hrefs, href)
		}
	})

	return page, nil
}

// Content locates the content region of a parsed page, rewrites its
// relative references, and renders it. It returns ErrNoContent when the
// selector matches nothing or the region is empty after trimming.
func (e *Extractor) Content(page *Page) (*Content, error) {
	region := page.doc.Find(e.selector).First()
	if region.Length() == 0 {
		return nil, ErrNoContent
	}

	text := strings.TrimSpace(region.Text())
	if text == "" {
		return nil, ErrNoContent
	}

	e.rewriteReferences(region)

	html, err := goquery.OuterHtml(region)
	if err != nil {
		return nil, fmt.Errorf("serialize content region: %w", err)
	}

	return &Content{HTML: html, Text: text}, nil
}

// rewriteReferences rewrites relative href/src attributes inside the
// content region to absolute URLs anchored at the site root, leaving
// already-absolute references unchanged.
func (e *Extractor) rewriteReferences(region *goquery.Selection) {
	rewrite := func(s *goquery.Selection, attr string) {
		val, ok := s.Attr(attr)
		if !ok {
			return
		}
		if abs := e.absolutize(val); abs != "" {
			s.SetAttr(attr, abs)
		}
	}

	region.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		rewrite(s, "href")
	})
	region.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		rewrite(s, "src")
	})
}

// absolutize resolves a reference against the site root.
// It returns "" for references that should be left alone: already
// absolute, unparseable, or non-navigational schemes.
func (e *Extractor) absolutize(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "#" {
		return ""
	}
	if strings.HasPrefix(ref, "javascript:") ||
		strings.HasPrefix(ref, "mailto:") ||
		strings.HasPrefix(ref, "tel:") ||
		strings.HasPrefix(ref, "data:") {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return ""
	}

	return e.root.ResolveReference(u).String()
}
