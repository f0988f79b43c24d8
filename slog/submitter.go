package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/htmldrop"
)

// Ensure LoggingSubmitter implements htmldrop.Submitter.
var _ htmldrop.Submitter = (*LoggingSubmitter)(nil)

// LoggingSubmitter wraps a Submitter and logs each outcome.
type LoggingSubmitter struct {
	next   htmldrop.Submitter
	logger *slog.Logger
}

// NewLoggingSubmitter creates a new LoggingSubmitter.
func NewLoggingSubmitter(next htmldrop.Submitter, logger *slog.Logger) *LoggingSubmitter {
	return &LoggingSubmitter{next: next, logger: logger}
}

// Submit delegates to the wrapped submitter and logs the outcome.
func (s *LoggingSubmitter) Submit(ctx context.Context, msg *htmldrop.Message) (out *htmldrop.Outcome) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if msg != nil {
			attrs = append(attrs, "author_id", msg.AuthorID, "attachment", msg.Attachment != nil)
		}
		if out != nil {
			attrs = append(attrs, "kind", out.Kind)
			if out.Post != nil {
				attrs = append(attrs, "slug", out.Post.Slug)
			}
			if out.Analysis != nil {
				attrs = append(attrs, "fallback", out.Analysis.Fallback)
			}
		}
		s.logger.Info("submission", attrs...)
	}(time.Now())
	return s.next.Submit(ctx, msg)
}
