package htmldrop

import (
	"context"
	"io"
)

// PostExporter writes posts to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PostExporter interface {
	Save(ctx context.Context, post *Post) error
	Commit() error
	Abort() error
}

// SitemapWriter writes a sitemaps.org document listing posts.
type SitemapWriter interface {
	// WriteSitemap writes one <url> entry per post, addressed as
	// baseURL + "/" + slug.
	WriteSitemap(w io.Writer, baseURL string, posts []*Post) error
}
