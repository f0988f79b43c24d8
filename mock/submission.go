package mock

import (
	"context"

	"github.com/fwojciec/htmldrop"
)

var (
	_ htmldrop.Submitter   = (*Submitter)(nil)
	_ htmldrop.UserLimiter = (*UserLimiter)(nil)
)

// Submitter is a mock implementation of htmldrop.Submitter.
type Submitter struct {
	SubmitFn func(ctx context.Context, msg *htmldrop.Message) *htmldrop.Outcome
}

func (s *Submitter) Submit(ctx context.Context, msg *htmldrop.Message) *htmldrop.Outcome {
	return s.SubmitFn(ctx, msg)
}

// UserLimiter is a mock implementation of htmldrop.UserLimiter.
type UserLimiter struct {
	AllowFn func(userID string) bool
}

func (l *UserLimiter) Allow(userID string) bool {
	return l.AllowFn(userID)
}
