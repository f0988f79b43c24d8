package mock

import (
	"context"

	"github.com/fwojciec/htmldrop"
)

var (
	_ htmldrop.Analyzer  = (*Analyzer)(nil)
	_ htmldrop.Completer = (*Completer)(nil)
	_ htmldrop.Inspector = (*Inspector)(nil)
	_ htmldrop.Sanitizer = (*Sanitizer)(nil)
)

// Analyzer is a mock implementation of htmldrop.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, req htmldrop.AnalysisRequest) (*htmldrop.Analysis, error)
}

func (a *Analyzer) Analyze(ctx context.Context, req htmldrop.AnalysisRequest) (*htmldrop.Analysis, error) {
	return a.AnalyzeFn(ctx, req)
}

// Completer is a mock implementation of htmldrop.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, req htmldrop.CompletionRequest) (string, error)
}

func (c *Completer) Complete(ctx context.Context, req htmldrop.CompletionRequest) (string, error) {
	return c.CompleteFn(ctx, req)
}

// Inspector is a mock implementation of htmldrop.Inspector.
type Inspector struct {
	InspectFn func(html string) (*htmldrop.Inspection, error)
}

func (i *Inspector) Inspect(html string) (*htmldrop.Inspection, error) {
	return i.InspectFn(html)
}

// Sanitizer is a mock implementation of htmldrop.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string) string
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.SanitizeFn(html)
}
