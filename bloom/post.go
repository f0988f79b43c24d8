package bloom

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fwojciec/htmldrop"
)

// Filter sizing defaults.
const (
	DefaultExpectedPosts = 100_000
	DefaultFPRate        = 0.01
)

// loadPageSize is the number of posts read per page by Load.
const loadPageSize = 500

// Ensure PostService implements htmldrop.PostService at compile time.
var _ htmldrop.PostService = (*PostService)(nil)

// PostService wraps a PostService and answers negative SlugExists
// queries from a Bloom filter. Positive filter hits are confirmed by the
// wrapped store, and the store's unique constraint stays authoritative.
//
// A conflict on CreatePost means another writer stored slugs the filter
// has not seen. The filter is then bypassed until a reload from the store
// succeeds.
type PostService struct {
	next   htmldrop.PostService
	filter *Filter
	stale  atomic.Bool
}

// NewPostService creates a PostService around next. The filter is empty
// until Load is called.
func NewPostService(next htmldrop.PostService, filter *Filter) *PostService {
	if filter == nil {
		filter = NewFilter(DefaultExpectedPosts, DefaultFPRate)
	}
	return &PostService{next: next, filter: filter}
}

// Load adds every stored slug to the filter. It must complete before
// SlugExists is relied upon, otherwise existing slugs read as free.
func (s *PostService) Load(ctx context.Context) error {
	if err := s.load(ctx); err != nil {
		return err
	}
	s.stale.Store(false)
	return nil
}

func (s *PostService) load(ctx context.Context) error {
	for offset := 0; ; offset += loadPageSize {
		posts, err := s.next.FindPosts(ctx, htmldrop.PostFilter{Offset: offset, Limit: loadPageSize})
		if err != nil {
			return fmt.Errorf("load slugs: %w", err)
		}
		for _, p := range posts {
			s.filter.Add(p.Slug)
		}
		if len(posts) < loadPageSize {
			return nil
		}
	}
}

// CreatePost delegates and records the slug on success.
func (s *PostService) CreatePost(ctx context.Context, post *htmldrop.Post) error {
	if err := s.next.CreatePost(ctx, post); err != nil {
		if htmldrop.ErrorCode(err) == htmldrop.ECONFLICT {
			s.filter.Add(post.Slug)
			s.stale.Store(true)
			// On failure the filter stays bypassed; the conflict is what
			// the caller needs to see.
			_ = s.Load(ctx)
		}
		return err
	}
	s.filter.Add(post.Slug)
	return nil
}

func (s *PostService) FindPostByID(ctx context.Context, id int64) (*htmldrop.Post, error) {
	return s.next.FindPostByID(ctx, id)
}

func (s *PostService) FindPostBySlug(ctx context.Context, slug string) (*htmldrop.Post, error) {
	return s.next.FindPostBySlug(ctx, slug)
}

func (s *PostService) FindPosts(ctx context.Context, filter htmldrop.PostFilter) ([]*htmldrop.Post, error) {
	return s.next.FindPosts(ctx, filter)
}

// SlugExists returns false without touching the store when the filter has
// never seen the slug and is known to be current.
func (s *PostService) SlugExists(ctx context.Context, slug string) (bool, error) {
	if !s.stale.Load() && !s.filter.Test(slug) {
		return false, nil
	}
	return s.next.SlugExists(ctx, slug)
}
