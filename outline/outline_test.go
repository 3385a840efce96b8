package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHeadings_DocumentOrder(t *testing.T) {
	html := `<html><body>
		<h1>India</h1>
		<p>intro</p>
		<h2>Etymology</h2>
		<h3>Ancient names</h3>
		<h2>History</h2>
		<h4>Deep section</h4>
		<h2>Geography</h2>
	</body></html>`

	headings, err := ExtractHeadings(html)
	require.NoError(t, err)

	want := []Heading{
		{1, "India"},
		{2, "Etymology"},
		{3, "Ancient names"},
		{2, "History"},
		{4, "Deep section"},
		{2, "Geography"},
	}
	assert.Equal(t, want, headings)
}

func TestExtractHeadings_StripsEditLinks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []Heading
	}{
		{
			name: "edit suffix stripped",
			html: "<h2>History[edit]</h2>",
			want: []Heading{{2, "History"}},
		},
		{
			name: "edit link inside span",
			html: `<h2>Economy<span class="mw-editsection">[edit]</span></h2>`,
			want: []Heading{{2, "Economy"}},
		},
		{
			name: "edit-only heading dropped",
			html: "<h3>[edit]</h3>",
			want: nil,
		},
		{
			name: "edit marker with surrounding whitespace",
			html: "<h2>  Culture [edit]  </h2>",
			want: []Heading{{2, "Culture"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractHeadings(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractHeadings_SkipsEmptyHeadings(t *testing.T) {
	html := "<h1>Real</h1><h2>   </h2><h3></h3><h2>Also real</h2>"

	headings, err := ExtractHeadings(html)
	require.NoError(t, err)
	assert.Equal(t, []Heading{{1, "Real"}, {2, "Also real"}}, headings)
}

func TestExtractHeadings_ConcatenatesDescendantText(t *testing.T) {
	html := `<h2><span class="mw-headline">Foreign <i>relations</i></span></h2>`

	headings, err := ExtractHeadings(html)
	require.NoError(t, err)
	require.Len(t, headings, 1)
	assert.Equal(t, "Foreign relations", headings[0].Text)
}

func TestExtractHeadings_EmptyDocument(t *testing.T) {
	for _, html := range []string{"", "   \n  ", "<html><body><p>no headings</p></body></html>"} {
		headings, err := ExtractHeadings(html)
		require.NoError(t, err)
		assert.Empty(t, headings)
	}
}

func TestExtractHeadings_Idempotent(t *testing.T) {
	html := "<h1>India</h1><h2>Etymology[edit]</h2><h3>[edit]</h3>"

	first, err := ExtractHeadings(html)
	require.NoError(t, err)
	second, err := ExtractHeadings(html)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFormat(t *testing.T) {
	got := Format("india", []Heading{{1, "India"}, {2, "Etymology"}})
	assert.Equal(t, "# Wikipedia Outline: India\n\n# India\n\n## Etymology", got)
}

func TestFormat_EmptyHeadings(t *testing.T) {
	got := Format("vanuatu", nil)
	assert.Equal(t, "# Wikipedia Outline: Vanuatu\n\n", got)
}

func TestFormat_DeepLevels(t *testing.T) {
	got := Format("test", []Heading{{6, "Deepest"}})
	assert.Equal(t, "# Wikipedia Outline: Test\n\n###### Deepest", got)
}
