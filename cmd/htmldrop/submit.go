package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/fs"
	"golang.org/x/sync/errgroup"
)

// Run executes the submit command. Files are submitted concurrently and
// reported in argument order.
func (c *SubmitCmd) Run(deps *Dependencies) error {
	msgs := make([]*htmldrop.Message, len(c.Files))
	for i, name := range c.Files {
		msg, err := c.message(name)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", htmldrop.ErrorMessage(err))
			return err
		}
		msgs[i] = msg
	}

	outcomes := make([]*htmldrop.Outcome, len(msgs))

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for i, msg := range msgs {
		g.Go(func() error {
			outcomes[i] = deps.Submitter.Submit(ctx, msg)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rejected := 0
	for i, out := range outcomes {
		switch {
		case out != nil && out.Kind == htmldrop.OutcomeSuccess:
			fmt.Fprintf(deps.Stdout, "%s: %s\n", c.Files[i], out.Detail)
		default:
			rejected++
			detail := "no outcome"
			if out != nil {
				detail = out.Detail
			}
			fmt.Fprintf(deps.Stderr, "%s: %s\n", c.Files[i], detail)
		}
	}

	if rejected > 0 {
		return htmldrop.Errorf(htmldrop.EINVALID, "%d of %d submissions rejected", rejected, len(outcomes))
	}
	return nil
}

// message builds a submission whose attachment points at a local file.
func (c *SubmitCmd) message(name string) (*htmldrop.Message, error) {
	path, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", name, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, htmldrop.Errorf(htmldrop.EINVALID, "cannot read %s", name)
	}
	if info.IsDir() {
		return nil, htmldrop.Errorf(htmldrop.EINVALID, "%s is a directory", name)
	}

	return &htmldrop.Message{
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Attachment: &htmldrop.Attachment{
			URL:  fs.FileURL(path),
			Name: filepath.Base(path),
			Size: info.Size(),
		},
	}, nil
}
