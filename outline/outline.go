// Package outline extracts the heading hierarchy from HTML documents and
// renders it as a Markdown outline.
package outline

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/c360studio/wikioutline/wiki"
)

// editMarker is the Wikipedia section edit-link artifact that leaks into
// heading text when pages are scraped.
const editMarker = "[edit]"

// Heading is one entry of a document's section hierarchy.
type Heading struct {
	// Level is the heading depth, always in [1,6].
	Level int
	// Text is the trimmed heading caption with edit-link artifacts removed.
	Text string
}

// ExtractHeadings returns all h1–h6 headings of an HTML document in
// document order (pre-order, left to right). Heading text is the
// concatenation of all descendant text nodes, trimmed; any "[edit]"
// substring is stripped before the emptiness check, so a heading consisting
// solely of an edit link is dropped rather than emitted empty. A document
// without headings yields an empty slice, not an error.
func ExtractHeadings(html string) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var headings []Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		if len(tag) != 2 {
			return
		}
		level := int(tag[1] - '0')
		if level < 1 || level > 6 {
			return
		}

		text := strings.TrimSpace(sel.Text())
		if strings.Contains(text, editMarker) {
			text = strings.TrimSpace(strings.ReplaceAll(text, editMarker, ""))
		}
		if text == "" {
			return
		}

		headings = append(headings, Heading{Level: level, Text: text})
	})

	return headings, nil
}

// Format renders a Markdown outline: a title line naming the country,
// a blank line, then one Markdown heading per entry at its original level,
// separated by blank lines.
func Format(country string, headings []Heading) string {
	var b strings.Builder
	b.WriteString("# Wikipedia Outline: ")
	b.WriteString(wiki.TitleCase(country))
	b.WriteString("\n\n")

	lines := make([]string, 0, len(headings))
	for _, h := range headings {
		lines = append(lines, strings.Repeat("#", h.Level)+" "+h.Text)
	}
	b.WriteString(strings.Join(lines, "\n\n"))

	return b.String()
}
