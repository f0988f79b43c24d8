// Package fs implements htmldrop services on the local file system:
// static post exports and a reader for local attachments.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/slug"
)

// Ensure Exporter implements htmldrop.PostExporter at compile time.
var _ htmldrop.PostExporter = (*Exporter)(nil)

// Exporter implements htmldrop.PostExporter with atomic update semantics.
// Posts are saved to a temporary directory, then moved atomically on Commit.
type Exporter struct {
	baseDir string
	name    string

	// Converter, when set, also writes a Markdown copy of each post.
	Converter htmldrop.Converter
}

// NewExporter creates a new Exporter.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Save writes <slug>.html, and <slug>.md when a Converter is set, to the
// temporary directory. Slugs are validated so they cannot escape it.
func (e *Exporter) Save(ctx context.Context, post *htmldrop.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := slug.Check(post.Slug); err != nil {
		return err
	}

	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(e.tempDir(), post.Slug+".html")
	if err := os.WriteFile(path, []byte(RenderHTML(post)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", post.Slug, err)
	}

	if e.Converter == nil {
		return nil
	}
	body, err := e.Converter.Convert(post.HTMLContent)
	if err != nil {
		return fmt.Errorf("convert %s: %w", post.Slug, err)
	}
	path = filepath.Join(e.tempDir(), post.Slug+".md")
	if err := os.WriteFile(path, []byte(FormatMarkdown(post, body)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", post.Slug, err)
	}
	return nil
}

// Commit replaces the output directory with the saved posts.
func (e *Exporter) Commit() error {
	if _, err := os.Stat(e.tempDir()); os.IsNotExist(err) {
		// Nothing saved: commit an empty export.
		if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
			return err
		}
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards saved posts.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}
