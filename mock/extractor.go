package mock

import (
	"context"

	"github.com/fwojciec/htmldrop"
)

var _ htmldrop.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of htmldrop.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, msg *htmldrop.Message) (*htmldrop.Extraction, error)
}

func (e *Extractor) Extract(ctx context.Context, msg *htmldrop.Message) (*htmldrop.Extraction, error) {
	return e.ExtractFn(ctx, msg)
}
