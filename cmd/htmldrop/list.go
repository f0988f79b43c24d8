package main

import (
	"fmt"

	"github.com/fwojciec/htmldrop"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := htmldrop.PostFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Author != "" {
		filter.AuthorID = &c.Author
	}

	posts, err := deps.Posts.FindPosts(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", htmldrop.ErrorMessage(err))
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(deps.Stdout, "No posts found. Use 'htmldrop submit' or the Discord bot to publish one.")
		return nil
	}

	for _, p := range posts {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			p.CreatedAt.Format("2006-01-02"), p.Slug, p.Title, p.AuthorName)
	}

	return nil
}
