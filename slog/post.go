package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/htmldrop"
)

// Ensure LoggingPostService implements htmldrop.PostService.
var _ htmldrop.PostService = (*LoggingPostService)(nil)

// LoggingPostService wraps a PostService with logging. Writes log at info
// level, reads at debug.
type LoggingPostService struct {
	next   htmldrop.PostService
	logger *slog.Logger
}

// NewLoggingPostService creates a new LoggingPostService.
func NewLoggingPostService(next htmldrop.PostService, logger *slog.Logger) *LoggingPostService {
	return &LoggingPostService{next: next, logger: logger}
}

func (s *LoggingPostService) CreatePost(ctx context.Context, post *htmldrop.Post) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create post",
			"slug", post.Slug,
			"author_id", post.AuthorID,
			"content_length", len(post.HTMLContent),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreatePost(ctx, post)
}

func (s *LoggingPostService) FindPostByID(ctx context.Context, id int64) (post *htmldrop.Post, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find post by id",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPostByID(ctx, id)
}

func (s *LoggingPostService) FindPostBySlug(ctx context.Context, slug string) (post *htmldrop.Post, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find post by slug",
			"slug", slug,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPostBySlug(ctx, slug)
}

func (s *LoggingPostService) FindPosts(ctx context.Context, filter htmldrop.PostFilter) (posts []*htmldrop.Post, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find posts",
			"offset", filter.Offset,
			"limit", filter.Limit,
			"count", len(posts),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPosts(ctx, filter)
}

func (s *LoggingPostService) SlugExists(ctx context.Context, slug string) (exists bool, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("slug exists",
			"slug", slug,
			"exists", exists,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SlugExists(ctx, slug)
}
