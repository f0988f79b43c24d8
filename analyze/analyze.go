// Package analyze derives publishing metadata for submitted HTML through a
// language model, with bounded retries and a local fallback.
package analyze

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/slug"
)

// DefaultMaxPromptChars caps the document sent to the model.
const DefaultMaxPromptChars = 50000

// DefaultRetryDelays returns the backoff delays between attempts: 1s, 2s.
// Three attempts are made in total.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// Ensure Analyzer implements htmldrop.Analyzer at compile time.
var _ htmldrop.Analyzer = (*Analyzer)(nil)

// Analyzer implements htmldrop.Analyzer.
type Analyzer struct {
	Completer htmldrop.Completer
	Inspector htmldrop.Inspector
	Logger    *slog.Logger

	// Delays between attempts. One attempt is made per delay plus the
	// initial one.
	Delays []time.Duration

	// MaxPromptChars caps the document sent to the model, in runes.
	MaxPromptChars int

	// Now returns the current time, used for timestamp slugs.
	Now func() time.Time
}

// NewAnalyzer creates an Analyzer with default retry policy.
func NewAnalyzer(completer htmldrop.Completer, inspector htmldrop.Inspector, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{
		Completer:      completer,
		Inspector:      inspector,
		Logger:         logger,
		Delays:         DefaultRetryDelays(),
		MaxPromptChars: DefaultMaxPromptChars,
		Now:            time.Now,
	}
}

// Analyze derives metadata for sanitized HTML. Failures of the analysis
// service never surface: the result is then computed locally and marked
// Fallback.
func (a *Analyzer) Analyze(ctx context.Context, req htmldrop.AnalysisRequest) (*htmldrop.Analysis, error) {
	if strings.TrimSpace(req.HTML) == "" {
		return nil, htmldrop.Errorf(htmldrop.EINVALID, "content required")
	}

	insp := a.inspect(req.HTML)
	ct := Classify(insp.Text)

	meta, err := a.Request(ctx, htmldrop.CompletionRequest{
		System:  SystemPrompt(ct),
		Content: BuildUserContent(req.HTML, a.MaxPromptChars),
	})
	if err != nil {
		a.logger().Warn("analysis fallback",
			"code", htmldrop.ErrorCode(err),
			"err", err,
			"content_length", len(req.HTML),
		)
		return a.fallback(req, insp, ct), nil
	}

	return a.postprocess(meta, req, insp, ct), nil
}

// Request sends the completion request, retrying EUNAVAILABLE failures
// with backoff, and strictly parses the response. Every returned error is
// EANALYSIS.
func (a *Analyzer) Request(ctx context.Context, req htmldrop.CompletionRequest) (*Metadata, error) {
	attempts := len(a.Delays) + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		raw, err := a.Completer.Complete(ctx, req)
		if err == nil {
			return Parse(raw)
		}
		lastErr = err

		if htmldrop.ErrorCode(err) != htmldrop.EUNAVAILABLE {
			return nil, terminal(err)
		}
		if attempt >= attempts-1 {
			break
		}

		a.logger().Warn("analysis retry", "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return nil, terminal(ctx.Err())
		case <-time.After(a.Delays[attempt]):
		}
	}

	return nil, htmldrop.Errorf(htmldrop.EANALYSIS, "analysis service unavailable after %d attempts: %s",
		attempts, htmldrop.ErrorMessage(lastErr))
}

func terminal(err error) error {
	if htmldrop.ErrorCode(err) == htmldrop.EANALYSIS {
		return err
	}
	return htmldrop.Errorf(htmldrop.EANALYSIS, "analysis request failed: %v", err)
}

func (a *Analyzer) inspect(html string) *htmldrop.Inspection {
	if a.Inspector != nil {
		insp, err := a.Inspector.Inspect(html)
		if err == nil && insp != nil {
			return insp
		}
		a.logger().Warn("inspect failed", "err", err)
	}
	return &htmldrop.Inspection{ReadingTimeMinutes: 1}
}

func (a *Analyzer) postprocess(m *Metadata, req htmldrop.AnalysisRequest, insp *htmldrop.Inspection, ct htmldrop.ContentType) *htmldrop.Analysis {
	title := Truncate(m.Title, htmldrop.MaxTitleLength)

	s := m.Slug
	if len(slug.Validate(s)) > 0 {
		source := title
		if source == "" {
			source = req.FallbackTitle
		}
		s = slug.Normalize(source)
	}

	desc := m.Description
	if desc == "" {
		desc = Describe(insp.Text)
	}

	return newAnalysis(s, title, Truncate(desc, htmldrop.MaxDescriptionLength), insp, ct, false)
}

// fallback computes metadata from local data alone.
func (a *Analyzer) fallback(req htmldrop.AnalysisRequest, insp *htmldrop.Inspection, ct htmldrop.ContentType) *htmldrop.Analysis {
	title := Truncate(req.FallbackTitle, htmldrop.MaxTitleLength)

	var s string
	if title != "" {
		s = slug.Normalize(title)
	} else {
		title = DefaultTitle
		s = TimestampSlug(a.now())
	}

	return newAnalysis(s, title, Describe(insp.Text), insp, ct, true)
}

// TimestampSlug returns a slug of the form post-20060102-150405.
func TimestampSlug(t time.Time) string {
	return "post-" + t.UTC().Format("20060102-150405")
}

func newAnalysis(s, title, desc string, insp *htmldrop.Inspection, ct htmldrop.ContentType, fallback bool) *htmldrop.Analysis {
	return &htmldrop.Analysis{
		Slug:               s,
		Title:              title,
		Description:        desc,
		WordCount:          insp.WordCount,
		ReadingTimeMinutes: insp.ReadingTimeMinutes,
		ContentType:        ct,
		Features:           insp.Features,
		Fallback:           fallback,
	}
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

func (a *Analyzer) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
