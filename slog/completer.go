package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/htmldrop"
)

// Ensure LoggingCompleter implements htmldrop.Completer.
var _ htmldrop.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with logging. Prompts and responses
// are not logged, only their sizes.
type LoggingCompleter struct {
	next   htmldrop.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next htmldrop.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the operation.
func (c *LoggingCompleter) Complete(ctx context.Context, req htmldrop.CompletionRequest) (out string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"prompt_chars", len(req.Content),
			"response_chars", len(out),
			"duration", time.Since(begin),
		}
		if err != nil {
			attrs = append(attrs, "code", htmldrop.ErrorCode(err), "err", err)
		}
		c.logger.Info("completion", attrs...)
	}(time.Now())
	return c.next.Complete(ctx, req)
}
