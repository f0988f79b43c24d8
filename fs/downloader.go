package fs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/fwojciec/htmldrop"
)

// DefaultMaxBytes is the default local file ceiling (25 MB).
const DefaultMaxBytes = 25 << 20

// Ensure Downloader implements htmldrop.Downloader at compile time.
var _ htmldrop.Downloader = (*Downloader)(nil)

// Downloader reads attachments referenced by file:// URLs, so local
// submissions flow through the same extraction path as chat uploads.
type Downloader struct {
	MaxBytes int64
}

// NewDownloader creates a Downloader with DefaultMaxBytes.
func NewDownloader() *Downloader {
	return &Downloader{MaxBytes: DefaultMaxBytes}
}

// FileURL returns the file:// URL for an absolute path.
func FileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// Download reads the file named by rawURL.
func (d *Downloader) Download(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "not a local file: %q", rawURL)
	}

	f, err := os.Open(u.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "file %q does not exist", u.Path)
		}
		return nil, fmt.Errorf("open %s: %w", u.Path, err)
	}
	defer f.Close()

	// Read one byte past the ceiling to detect oversized files.
	body, err := io.ReadAll(io.LimitReader(f, d.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u.Path, err)
	}
	if int64(len(body)) > d.MaxBytes {
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "file %q is larger than %d bytes", u.Path, d.MaxBytes)
	}
	return body, nil
}
