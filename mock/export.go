package mock

import (
	"context"
	"io"

	"github.com/fwojciec/htmldrop"
)

var (
	_ htmldrop.PostExporter  = (*PostExporter)(nil)
	_ htmldrop.SitemapWriter = (*SitemapWriter)(nil)
)

// PostExporter is a mock implementation of htmldrop.PostExporter.
type PostExporter struct {
	SaveFn   func(ctx context.Context, post *htmldrop.Post) error
	CommitFn func() error
	AbortFn  func() error
}

func (e *PostExporter) Save(ctx context.Context, post *htmldrop.Post) error {
	return e.SaveFn(ctx, post)
}

func (e *PostExporter) Commit() error {
	return e.CommitFn()
}

func (e *PostExporter) Abort() error {
	return e.AbortFn()
}

// SitemapWriter is a mock implementation of htmldrop.SitemapWriter.
type SitemapWriter struct {
	WriteSitemapFn func(w io.Writer, baseURL string, posts []*htmldrop.Post) error
}

func (s *SitemapWriter) WriteSitemap(w io.Writer, baseURL string, posts []*htmldrop.Post) error {
	return s.WriteSitemapFn(w, baseURL, posts)
}
