package htmldrop

import "context"

// OutcomeKind is the user-visible class of a submission result.
type OutcomeKind string

// OutcomeKind constants.
const (
	OutcomeHelp     OutcomeKind = "help"
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeSuccess  OutcomeKind = "success"
)

// Outcome is the result of a submission, safe to show to the submitter.
type Outcome struct {
	Kind OutcomeKind

	// Detail is a user-facing message. It never contains internal error
	// text or credentials.
	Detail string

	// Post and Analysis are set for successful submissions.
	Post     *Post
	Analysis *Analysis
}

// Submitter runs the submission pipeline for a chat message.
type Submitter interface {
	// Submit never returns an error: every failure is mapped to an
	// Outcome of kind help or rejected.
	Submit(ctx context.Context, msg *Message) *Outcome
}

// UserLimiter throttles submissions per user.
type UserLimiter interface {
	// Allow reports whether the user may start a submission now.
	Allow(userID string) bool
}
