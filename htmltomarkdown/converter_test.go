package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "headings",
			html: `<h1>Title</h1><h2>Subtitle</h2>`,
			want: []string{"# Title", "## Subtitle"},
		},
		{
			name: "links",
			html: `<p>Visit <a href="https://example.com">Example</a> today.</p>`,
			want: []string{"[Example](https://example.com)"},
		},
		{
			name: "lists",
			html: `<ul><li>First</li><li>Second</li></ul><ol><li>One</li><li>Two</li></ol>`,
			want: []string{"- First", "- Second", "1. One", "2. Two"},
		},
		{
			name: "inline code and code blocks",
			html: "<p>Run <code>go test</code>.</p><pre><code class=\"language-go\">package main</code></pre>",
			want: []string{"`go test`", "```go", "package main"},
		},
		{
			name: "emphasis and quotes",
			html: `<p><strong>Bold</strong> and <em>italic</em>.</p><blockquote><p>Quoted.</p></blockquote>`,
			want: []string{"**Bold**", "*italic*", "> Quoted."},
		},
		{
			name: "tables",
			html: `<table><thead><tr><th>Name</th><th>Age</th></tr></thead><tbody><tr><td>Alice</td><td>30</td></tr></tbody></table>`,
			want: []string{"Name", "Alice", "|", "---"},
		},
	}

	conv := htmltomarkdown.NewConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := conv.Convert(tt.html)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, md, w)
			}
		})
	}

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := conv.Convert("  \n")
		assert.Equal(t, htmldrop.EINVALID, htmldrop.ErrorCode(err))
	})
}

func TestConverter_ConvertPost(t *testing.T) {
	t.Parallel()

	conv := htmltomarkdown.NewConverter()

	t.Run("adds title and description", func(t *testing.T) {
		t.Parallel()

		md, err := conv.ConvertPost(&htmldrop.Post{
			Title:       "Release Notes",
			Description: "What changed this week.",
			HTMLContent: "<p>Faster builds.</p>",
		})

		require.NoError(t, err)
		assert.Equal(t, "# Release Notes\n\n> What changed this week.\n\nFaster builds.\n", md)
	})

	t.Run("omits empty description", func(t *testing.T) {
		t.Parallel()

		md, err := conv.ConvertPost(&htmldrop.Post{Title: "T", HTMLContent: "<p>x</p>"})

		require.NoError(t, err)
		assert.Equal(t, "# T\n\nx\n", md)
	})

	t.Run("propagates empty content error", func(t *testing.T) {
		t.Parallel()

		_, err := conv.ConvertPost(&htmldrop.Post{Title: "T"})
		assert.Equal(t, htmldrop.EINVALID, htmldrop.ErrorCode(err))
	})
}
