package fs

import (
	"html"
	"strings"

	"github.com/fwojciec/htmldrop"
)

// RenderHTML wraps a post's sanitized content in a standalone document.
func RenderHTML(post *htmldrop.Post) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<title>")
	b.WriteString(html.EscapeString(post.Title))
	b.WriteString("</title>\n<meta name=\"description\" content=\"")
	b.WriteString(html.EscapeString(post.Description))
	b.WriteString("\">\n</head>\n<body>\n")
	b.WriteString(post.HTMLContent)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// FormatMarkdown formats converted post content with YAML frontmatter.
func FormatMarkdown(post *htmldrop.Post, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("slug: ")
	b.WriteString(post.Slug)
	b.WriteString("\ntitle: ")
	b.WriteString(yamlString(post.Title))
	b.WriteString("\ndescription: ")
	b.WriteString(yamlString(post.Description))
	b.WriteString("\nauthor: ")
	b.WriteString(yamlString(post.AuthorName))
	b.WriteString("\npublished: ")
	b.WriteString(post.CreatedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

// yamlString double-quotes s so titles containing ':' or '#' stay scalars.
func yamlString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ")
	return `"` + r.Replace(s) + `"`
}
