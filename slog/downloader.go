// Package slog provides logging decorators for htmldrop services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/htmldrop"
)

// Ensure LoggingDownloader implements htmldrop.Downloader.
var _ htmldrop.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with logging.
type LoggingDownloader struct {
	next   htmldrop.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next htmldrop.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the operation.
func (d *LoggingDownloader) Download(ctx context.Context, url string) (body []byte, err error) {
	defer func(begin time.Time) {
		d.logger.Info("download",
			"url", url,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url)
}
