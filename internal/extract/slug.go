package extract

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// reservedChars are characters stripped from slugs because at least one
// supported filesystem refuses them in file names.
const reservedChars = `<>:"\|?*`

// Slug derives the filesystem identifier for a URL from its path
// component. The mapping is deterministic:
//
//	/              -> ""            (site root; files go in the output root)
//	/guide/intro   -> "guide-intro"
//	/guide/intro/  -> "guide-intro"
//	/API/Überblick -> "api-überblick" (NFC-normalized, lower-cased)
//
// Path separators become a single "-", filesystem-reserved characters
// are dropped, and the result is NFC-normalized so the same page name in
// different Unicode encodings maps to one directory. Distinct paths can
// still collide (e.g. "/a/b" and "/a-b"); the output store resolves
// those with a numeric suffix.
func Slug(u *url.URL) string {
	// u.Path is already percent-decoded by url.Parse.
	p := norm.NFC.String(u.Path)
	p = strings.ToLower(p)
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(p))
	for _, r := range p {
		switch {
		case r == '/':
			b.WriteRune('-')
		case r < 0x20 || strings.ContainsRune(reservedChars, r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
