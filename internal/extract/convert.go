package extract

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ToMarkdown converts an HTML fragment to Markdown.
//
// Design decision: We delegate to JohannesKaufmann/html-to-markdown
// rather than rendering Markdown from the parsed tree ourselves because
// it handles the long tail of documentation markup (nested lists, code
// blocks, tables) that a hand-rolled renderer would get wrong.
func ToMarkdown(htmlFragment string) (string, error) {
	md, err := htmltomarkdown.ConvertString(htmlFragment)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return md, nil
}
