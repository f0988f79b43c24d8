package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fwojciec/htmldrop"
)

// pageSize is the batch size used when walking every post.
const pageSize = 500

// Run executes the sitemap command.
func (c *SitemapCmd) Run(deps *Dependencies) error {
	posts, err := allPosts(deps.Ctx, deps.Posts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", htmldrop.ErrorMessage(err))
		return err
	}

	w := deps.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	if err := deps.Sitemaps.WriteSitemap(w, deps.BaseURL, posts); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", htmldrop.ErrorMessage(err))
		return err
	}

	if c.Output != "" {
		fmt.Fprintf(deps.Stdout, "Wrote %d URLs to %s\n", len(posts), c.Output)
	}
	return nil
}

// allPosts pages through every stored post, newest first.
func allPosts(ctx context.Context, s htmldrop.PostService) ([]*htmldrop.Post, error) {
	var all []*htmldrop.Post
	for offset := 0; ; offset += pageSize {
		page, err := s.FindPosts(ctx, htmldrop.PostFilter{Offset: offset, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}
