package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_BasicArticle(t *testing.T) {
	html := `<html><head><title>India - Wikipedia</title></head><body>
		<article>
			<h1>India</h1>
			<p>India is a country in South Asia. It is the seventh-largest country
			by area and the most populous country in the world. The capital is
			New Delhi and the largest city is Mumbai.</p>
			<h2>Etymology</h2>
			<p>The name India is derived from the river Indus, which in turn comes
			from the Old Persian word Hindu and the Sanskrit word Sindhu.</p>
		</article>
	</body></html>`

	c := NewConverter()
	result, err := c.Convert([]byte(html), "https://en.wikipedia.org/wiki/India")
	require.NoError(t, err)

	assert.Equal(t, "India - Wikipedia", result.Title)
	assert.Contains(t, result.Markdown, "country in South Asia")
	assert.Contains(t, result.Markdown, "river Indus")
}

func TestConvert_NoTitle(t *testing.T) {
	html := `<html><body><article><p>Some article content that is long enough to
	be considered readable by the extraction heuristics, repeated for good
	measure. Some article content that is long enough to be considered
	readable.</p></article></body></html>`

	c := NewConverter()
	result, err := c.Convert([]byte(html), "https://en.wikipedia.org/wiki/Test")
	require.NoError(t, err)
	assert.Contains(t, result.Markdown, "long enough")
}

func TestCleanMarkdown(t *testing.T) {
	in := "# Title   \n\n\n\n\n\nBody  \n"
	out := cleanMarkdown(in)

	assert.False(t, strings.Contains(out, "\n\n\n\n"), "excessive blank lines should be collapsed")
	assert.False(t, strings.HasSuffix(out, " "), "trailing spaces should be trimmed")
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "Body")
}

func TestExtractHTMLTitle(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "simple title",
			html:     "<html><head><title>My Page</title></head><body></body></html>",
			expected: "My Page",
		},
		{
			name:     "title with whitespace",
			html:     "<html><head><title>  Spaced Title  </title></head></html>",
			expected: "Spaced Title",
		},
		{
			name:     "no title",
			html:     "<html><head></head><body>Content</body></html>",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractHTMLTitle([]byte(tt.html))
			if got != tt.expected {
				t.Errorf("extractHTMLTitle() = %q, want %q", got, tt.expected)
			}
		})
	}
}
