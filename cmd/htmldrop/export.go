package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/fs"
)

// Run executes the export command. The output directory is replaced only
// when every post was written.
func (c *ExportCmd) Run(deps *Dependencies) error {
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", c.Dir, err)
	}

	posts, err := allPosts(deps.Ctx, deps.Posts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", htmldrop.ErrorMessage(err))
		return err
	}

	newExporter := deps.NewExporter
	if newExporter == nil {
		newExporter = fsExporter(deps.Converter)
	}
	exporter := newExporter(dir, c.Markdown)
	// Leftovers from an interrupted export must not leak into this one.
	if err := exporter.Abort(); err != nil {
		return err
	}

	for _, p := range posts {
		if err := exporter.Save(deps.Ctx, p); err != nil {
			fmt.Fprintf(deps.Stderr, "error: exporting %s: %s\n", p.Slug, htmldrop.ErrorMessage(err))
			return errors.Join(err, exporter.Abort())
		}
	}
	if err := exporter.Commit(); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d posts to %s\n", len(posts), dir)
	return nil
}

// fsExporter returns an exporter factory writing to the local file system.
func fsExporter(conv htmldrop.Converter) func(string, bool) htmldrop.PostExporter {
	return func(dir string, markdown bool) htmldrop.PostExporter {
		e := fs.NewExporter(filepath.Dir(dir), filepath.Base(dir))
		if markdown {
			e.Converter = conv
		}
		return e
	}
}
