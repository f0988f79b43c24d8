// Package submit runs the submission pipeline: extract, sanitize,
// analyze, reserve a slug and store the post.
package submit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/extract"
	"github.com/fwojciec/htmldrop/sanitize"
	"github.com/fwojciec/htmldrop/slug"
)

// DefaultMaxContentBytes caps sanitized HTML accepted for publishing.
const DefaultMaxContentBytes = 5 << 20

// Pipeline stages reported in failure logs.
const (
	StageLimit    = "limit"
	StageExtract  = "extract"
	StageValidate = "validate"
	StageAnalyze  = "analyze"
	StageResolve  = "resolve"
	StageStore    = "store"
)

// User-facing messages.
const (
	HelpMessage = "Send HTML with `!submit`: attach an .html file or paste it in a ```html code block."

	msgRateLimited = "You are submitting too quickly. Please wait a minute and try again."
	msgNoTags      = "Your submission does not contain any HTML tags."
	msgEmpty       = "Nothing publishable remained after removing unsafe content."
	msgDangerous   = "Your HTML contains content that cannot be published safely."
	msgConflict    = "Could not reserve a unique address for your post. Please try again."
	msgGeneric     = "Something went wrong while publishing your post. Please try again later."
)

var _ htmldrop.Submitter = (*Submitter)(nil)

// Submitter sequences the pipeline and translates every failure into an
// Outcome. Internal error text is logged, never returned to the user.
type Submitter struct {
	Extractor htmldrop.Extractor
	Sanitizer htmldrop.Sanitizer
	Inspector htmldrop.Inspector
	Analyzer  htmldrop.Analyzer
	Posts     htmldrop.PostService

	// Limiter is optional. A nil Limiter admits every submission.
	Limiter htmldrop.UserLimiter

	Logger *slog.Logger

	// MaxContentBytes caps sanitized content. Defaults to
	// DefaultMaxContentBytes.
	MaxContentBytes int

	// BaseURL prefixes slugs in success messages.
	BaseURL string
}

// NewSubmitter creates a Submitter with default limits and no rate limiter.
func NewSubmitter(
	extractor htmldrop.Extractor,
	sanitizer htmldrop.Sanitizer,
	inspector htmldrop.Inspector,
	analyzer htmldrop.Analyzer,
	posts htmldrop.PostService,
	logger *slog.Logger,
) *Submitter {
	return &Submitter{
		Extractor:       extractor,
		Sanitizer:       sanitizer,
		Inspector:       inspector,
		Analyzer:        analyzer,
		Posts:           posts,
		Logger:          logger,
		MaxContentBytes: DefaultMaxContentBytes,
	}
}

// Submit runs the pipeline for msg.
func (s *Submitter) Submit(ctx context.Context, msg *htmldrop.Message) *htmldrop.Outcome {
	if msg == nil {
		return help()
	}

	if s.Limiter != nil && !s.Limiter.Allow(msg.AuthorID) {
		s.logFailure(StageLimit, htmldrop.Errorf(htmldrop.ERATELIMIT, "user over submission limit"), msg, 0)
		return rejected(msgRateLimited)
	}

	ext, err := s.Extractor.Extract(ctx, msg)
	if err != nil {
		s.logFailure(StageExtract, err, msg, 0)
		if htmldrop.ErrorCode(err) == htmldrop.EEXTRACT {
			return rejected("Could not read your submission: " + htmldrop.ErrorMessage(err))
		}
		return rejected(msgGeneric)
	}
	if ext == nil || ext.Source == htmldrop.SourceNone {
		return help()
	}

	content, reason := s.clean(ext.Content)
	if reason != "" {
		s.logFailure(StageValidate, htmldrop.Errorf(htmldrop.EINVALID, "%s", reason), msg, len(ext.Content))
		return rejected(reason)
	}

	analysis, err := s.Analyzer.Analyze(ctx, htmldrop.AnalysisRequest{
		HTML:          content,
		FallbackTitle: s.fallbackTitle(ext, content),
	})
	if err != nil {
		s.logFailure(StageAnalyze, err, msg, len(content))
		return rejected(msgGeneric)
	}

	post := &htmldrop.Post{
		Title:       analysis.Title,
		Description: analysis.Description,
		HTMLContent: content,
		AuthorID:    msg.AuthorID,
		AuthorName:  msg.AuthorName,
	}
	if outcome := s.store(ctx, post, analysis.Slug, msg); outcome != nil {
		return outcome
	}
	analysis.Slug = post.Slug

	return &htmldrop.Outcome{
		Kind:     htmldrop.OutcomeSuccess,
		Detail:   s.successDetail(post, analysis),
		Post:     post,
		Analysis: analysis,
	}
}

// clean sanitizes raw content and returns it with an empty reason, or a
// user-facing rejection reason.
func (s *Submitter) clean(raw string) (string, string) {
	if !extract.HasTag(raw) {
		return "", msgNoTags
	}

	content := strings.TrimSpace(s.Sanitizer.Sanitize(raw))
	switch {
	case content == "":
		return "", msgEmpty
	case len(content) > s.maxContentBytes():
		return "", fmt.Sprintf("Your HTML is too large to publish. The limit is %d MB after sanitization.", s.maxContentBytes()>>20)
	case sanitize.ContainsDangerousPatterns(content):
		return "", msgDangerous
	}
	return content, ""
}

// fallbackTitle prefers the attachment filename, then the document's own
// title or first heading.
func (s *Submitter) fallbackTitle(ext *htmldrop.Extraction, content string) string {
	if ext.Filename != "" {
		if t := extract.TitleFromFilename(ext.Filename); t != "" {
			return t
		}
	}
	if s.Inspector == nil {
		return ""
	}
	insp, err := s.Inspector.Inspect(content)
	if err != nil {
		return ""
	}
	return insp.Title
}

// store reserves a unique slug and creates the post. A conflict from a
// concurrent insert triggers one more resolution. It returns nil on
// success.
func (s *Submitter) store(ctx context.Context, post *htmldrop.Post, base string, msg *htmldrop.Message) *htmldrop.Outcome {
	for attempt := 0; ; attempt++ {
		resolved, err := slug.ResolveUnique(ctx, base, s.Posts.SlugExists)
		if err != nil {
			s.logFailure(StageResolve, err, msg, len(post.HTMLContent))
			return rejected(msgGeneric)
		}
		post.Slug = resolved

		err = s.Posts.CreatePost(ctx, post)
		switch {
		case err == nil:
			return nil
		case htmldrop.ErrorCode(err) == htmldrop.ECONFLICT && attempt == 0:
			s.logger().Info("slug claimed concurrently, resolving again", "slug", resolved)
			continue
		case htmldrop.ErrorCode(err) == htmldrop.ECONFLICT:
			s.logFailure(StageStore, err, msg, len(post.HTMLContent))
			return rejected(msgConflict)
		default:
			s.logFailure(StageStore, err, msg, len(post.HTMLContent))
			return rejected(msgGeneric)
		}
	}
}

func (s *Submitter) successDetail(post *htmldrop.Post, a *htmldrop.Analysis) string {
	return fmt.Sprintf("Published %q at %s\n%d words, %d min read, %s",
		post.Title, s.PostURL(post.Slug), a.WordCount, a.ReadingTimeMinutes, a.ContentType)
}

// PostURL returns the public address of a slug.
func (s *Submitter) PostURL(slug string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + slug
}

func (s *Submitter) logFailure(stage string, err error, msg *htmldrop.Message, contentLength int) {
	s.logger().Warn("submission failed",
		"stage", stage,
		"code", htmldrop.ErrorCode(err),
		"author_id", msg.AuthorID,
		"content_length", contentLength,
		"err", err,
	)
}

func (s *Submitter) maxContentBytes() int {
	if s.MaxContentBytes > 0 {
		return s.MaxContentBytes
	}
	return DefaultMaxContentBytes
}

func (s *Submitter) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func help() *htmldrop.Outcome {
	return &htmldrop.Outcome{Kind: htmldrop.OutcomeHelp, Detail: HelpMessage}
}

func rejected(detail string) *htmldrop.Outcome {
	return &htmldrop.Outcome{Kind: htmldrop.OutcomeRejected, Detail: detail}
}
