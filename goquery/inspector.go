// Package goquery implements htmldrop.Inspector using CSS selectors over a
// parsed document.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/htmldrop"
	"golang.org/x/net/html"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

// Ensure Inspector implements htmldrop.Inspector at compile time.
var _ htmldrop.Inspector = (*Inspector)(nil)

// Inspector computes plain text, metrics and features for HTML content.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect parses html and reports what it contains.
func (i *Inspector) Inspect(content string) (*htmldrop.Inspection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, htmldrop.Errorf(htmldrop.EINVALID, "failed to parse HTML: %v", err)
	}

	text := PlainText(doc.Selection)
	words := len(strings.Fields(text))

	return &htmldrop.Inspection{
		Text:               text,
		Title:              titleHint(doc),
		WordCount:          words,
		ReadingTimeMinutes: ReadingTime(words),
		Features: htmldrop.Features{
			HasImages: doc.Find("img, picture").Length() > 0,
			HasLinks:  doc.Find("a[href]").Length() > 0,
			HasCode:   doc.Find("pre, code").Length() > 0,
			HasLists:  doc.Find("ul, ol").Length() > 0,
		},
	}, nil
}

// ReadingTime returns whole minutes to read words, never less than one.
func ReadingTime(words int) int {
	return max(1, (words+WordsPerMinute-1)/WordsPerMinute)
}

func titleHint(doc *goquery.Document) string {
	if t := collapse(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return collapse(doc.Find("h1").First().Text())
}

// skipTags hold no visible text.
var skipTags = map[string]bool{
	"head": true, "title": true, "script": true, "style": true,
	"template": true, "noscript": true,
}

// blockTags start a new line in the plain-text rendering.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "details": true, "div": true, "dl": true,
	"dt": true, "figcaption": true, "figure": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "summary": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// PlainText returns the visible text of sel with one line per block
// element and whitespace collapsed within lines.
func PlainText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		block := n.Type == html.ElementNode && blockTags[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
