// Package http provides an HTTP-based implementation of htmldrop.Downloader
// for fetching chat attachments.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/htmldrop"
)

// DefaultTimeout is the default timeout for attachment downloads.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBytes is the default attachment size ceiling (25 MB).
const DefaultMaxBytes = 25 << 20

// Ensure Downloader implements htmldrop.Downloader at compile time.
var _ htmldrop.Downloader = (*Downloader)(nil)

// Downloader retrieves attachment bodies with a bounded timeout and size.
type Downloader struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithTimeout sets the timeout for a whole download.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// WithMaxBytes sets the largest body accepted.
// Defaults to DefaultMaxBytes if not specified.
func WithMaxBytes(n int64) Option {
	return func(dl *Downloader) {
		dl.maxBytes = n
	}
}

// NewDownloader creates a new HTTP-based Downloader.
func NewDownloader(opts ...Option) *Downloader {
	dl := &Downloader{
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(dl)
	}

	dl.client = &http.Client{
		Timeout: dl.timeout,
	}

	return dl
}

// Download fetches the body at url. Every failure is reported as EEXTRACT
// with a message suitable for the submitter.
func (dl *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "invalid attachment URL")
	}

	resp, err := dl.client.Do(req)
	if err != nil {
		return nil, downloadError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "attachment download failed with HTTP %d", resp.StatusCode)
	}
	if resp.ContentLength > dl.maxBytes {
		return nil, tooLarge(dl.maxBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, dl.maxBytes+1))
	if err != nil {
		return nil, downloadError(err)
	}
	if int64(len(body)) > dl.maxBytes {
		return nil, tooLarge(dl.maxBytes)
	}

	return body, nil
}

func tooLarge(limit int64) error {
	return htmldrop.Errorf(htmldrop.EEXTRACT, "attachment exceeds the %s limit", FormatBytes(limit))
}

// FormatBytes renders a byte count for user-facing messages.
func FormatBytes(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

func downloadError(err error) error {
	var netErr interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return htmldrop.Errorf(htmldrop.EEXTRACT, "attachment download timed out")
	}
	if errors.Is(err, context.Canceled) {
		return htmldrop.Errorf(htmldrop.EEXTRACT, "attachment download was canceled")
	}
	return htmldrop.Errorf(htmldrop.EEXTRACT, "could not download attachment")
}
