package main

import (
	"fmt"

	"github.com/fwojciec/htmldrop"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	post, err := deps.Posts.FindPostBySlug(deps.Ctx, c.Slug)
	if err != nil {
		if htmldrop.ErrorCode(err) == htmldrop.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: post %q not found. Use 'htmldrop list' to see published posts.\n", c.Slug)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", htmldrop.ErrorMessage(err))
		}
		return err
	}

	if !c.Markdown {
		fmt.Fprintln(deps.Stdout, post.HTMLContent)
		return nil
	}

	md, err := deps.Converter.ConvertPost(post)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", htmldrop.ErrorMessage(err))
		return err
	}
	fmt.Fprint(deps.Stdout, md)
	return nil
}
