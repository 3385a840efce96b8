// Package page converts fetched article HTML into full-text Markdown.
// Readability isolates the article body before conversion so navigation,
// infoboxes, and footers do not leak into the output.
package page

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// excessiveLinesRe collapses runs of blank lines left behind by conversion.
var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// Result contains the converted article.
type Result struct {
	Title    string
	Markdown string
}

// Converter converts article HTML to Markdown.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates an HTML to Markdown converter.
func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Converter{converter: converter}
}

// Convert extracts the readable article body from the HTML fetched at
// pageURL and converts it to Markdown. When readability cannot identify an
// article body the whole document is converted instead.
func (c *Converter) Convert(htmlContent []byte, pageURL string) (*Result, error) {
	title := extractHTMLTitle(htmlContent)

	content := string(htmlContent)
	parsedURL, _ := url.Parse(pageURL)
	if article, err := readability.FromReader(bytes.NewReader(htmlContent), parsedURL); err == nil && article.Content != "" {
		content = article.Content
		if title == "" {
			title = article.Title
		}
	}

	markdown, err := c.converter.ConvertString(content)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}

	return &Result{
		Title:    title,
		Markdown: cleanMarkdown(markdown),
	}, nil
}

// extractHTMLTitle extracts the <title> text from HTML.
func extractHTMLTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	var title string
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title != "" {
				return
			}
			extract(c)
		}
	}
	extract(doc)

	return title
}

// cleanMarkdown trims trailing line whitespace and collapses excessive
// blank lines.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
