// Package etree writes sitemaps.org XML documents for published posts.
package etree

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/htmldrop"
)

// Namespace is the sitemaps.org schema namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// MaxURLs is the sitemaps.org limit on entries per file.
const MaxURLs = 50000

// Ensure SitemapWriter implements htmldrop.SitemapWriter at compile time.
var _ htmldrop.SitemapWriter = (*SitemapWriter)(nil)

// SitemapWriter implements htmldrop.SitemapWriter.
type SitemapWriter struct {
	// Indent is the number of spaces per nesting level. Zero writes
	// compact XML.
	Indent int
}

// NewSitemapWriter creates a SitemapWriter producing indented XML.
func NewSitemapWriter() *SitemapWriter {
	return &SitemapWriter{Indent: 2}
}

// WriteSitemap writes a <urlset> with one <url> per post. The most
// recent change of a post is reported as lastmod.
func (s *SitemapWriter) WriteSitemap(w io.Writer, baseURL string, posts []*htmldrop.Post) error {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return htmldrop.Errorf(htmldrop.EINVALID, "sitemap base URL must be absolute, got %q", baseURL)
	}
	if len(posts) > MaxURLs {
		return htmldrop.Errorf(htmldrop.EINVALID, "sitemap holds at most %d URLs, got %d", MaxURLs, len(posts))
	}
	base := strings.TrimRight(baseURL, "/")

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", Namespace)

	for _, p := range posts {
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(base + "/" + p.Slug)
		if mod := lastModified(p); !mod.IsZero() {
			u.CreateElement("lastmod").SetText(mod.UTC().Format(time.RFC3339))
		}
	}

	if s.Indent > 0 {
		doc.Indent(s.Indent)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}

func lastModified(p *htmldrop.Post) time.Time {
	if p.UpdatedAt.After(p.CreatedAt) {
		return p.UpdatedAt
	}
	return p.CreatedAt
}
