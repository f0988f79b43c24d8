package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector_Inspect(t *testing.T) {
	t.Parallel()

	t.Run("separates blocks into lines", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect(`<h1>Hello</h1><p>First   paragraph.</p><ul><li>one</li><li>two</li></ul>`)

		require.NoError(t, err)
		assert.Equal(t, "Hello\nFirst paragraph.\none\ntwo", got.Text)
		assert.Equal(t, 5, got.WordCount)
	})

	t.Run("keeps inline elements on one line", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect(`<p>Some <strong>bold</strong> and <a href="/x">linked</a> text</p>`)

		require.NoError(t, err)
		assert.Equal(t, "Some bold and linked text", got.Text)
	})

	t.Run("ignores script style and head", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect(`<html><head><title>T</title><style>p{}</style></head><body><p>Body</p><script>var x</script></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "Body", got.Text)
	})

	t.Run("prefers title element for title hint", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect(`<html><head><title> Page  Title </title></head><body><h1>Heading</h1></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "Page Title", got.Title)
	})

	t.Run("falls back to first h1 for title hint", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect(`<h1>Getting <em>Started</em></h1><h1>Second</h1>`)

		require.NoError(t, err)
		assert.Equal(t, "Getting Started", got.Title)
	})

	t.Run("empty title hint when no heading", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect(`<p>text</p>`)

		require.NoError(t, err)
		assert.Empty(t, got.Title)
	})

	t.Run("detects features", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect(`<p><img src="a.png"><a href="/b">b</a></p><pre><code>x</code></pre><ol><li>i</li></ol>`)

		require.NoError(t, err)
		assert.Equal(t, htmldrop.Features{HasImages: true, HasLinks: true, HasCode: true, HasLists: true}, got.Features)
	})

	t.Run("reports no features for plain text", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect(`<p>plain <a>anchor without href</a></p>`)

		require.NoError(t, err)
		assert.Equal(t, htmldrop.Features{}, got.Features)
	})

	t.Run("estimates reading time", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewInspector().Inspect("<p>" + strings.Repeat("word ", 401) + "</p>")

		require.NoError(t, err)
		assert.Equal(t, 401, got.WordCount)
		assert.Equal(t, 3, got.ReadingTimeMinutes)
	})
}

func TestReadingTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, goquery.ReadingTime(0))
	assert.Equal(t, 1, goquery.ReadingTime(200))
	assert.Equal(t, 2, goquery.ReadingTime(201))
}
