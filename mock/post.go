package mock

import (
	"context"

	"github.com/fwojciec/htmldrop"
)

var _ htmldrop.PostService = (*PostService)(nil)

// PostService is a mock implementation of htmldrop.PostService.
type PostService struct {
	CreatePostFn     func(ctx context.Context, post *htmldrop.Post) error
	FindPostByIDFn   func(ctx context.Context, id int64) (*htmldrop.Post, error)
	FindPostBySlugFn func(ctx context.Context, slug string) (*htmldrop.Post, error)
	FindPostsFn      func(ctx context.Context, filter htmldrop.PostFilter) ([]*htmldrop.Post, error)
	SlugExistsFn     func(ctx context.Context, slug string) (bool, error)
}

func (s *PostService) CreatePost(ctx context.Context, post *htmldrop.Post) error {
	return s.CreatePostFn(ctx, post)
}

func (s *PostService) FindPostByID(ctx context.Context, id int64) (*htmldrop.Post, error) {
	return s.FindPostByIDFn(ctx, id)
}

func (s *PostService) FindPostBySlug(ctx context.Context, slug string) (*htmldrop.Post, error) {
	return s.FindPostBySlugFn(ctx, slug)
}

func (s *PostService) FindPosts(ctx context.Context, filter htmldrop.PostFilter) ([]*htmldrop.Post, error) {
	return s.FindPostsFn(ctx, filter)
}

func (s *PostService) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.SlugExistsFn(ctx, slug)
}
