package htmldrop

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Length caps applied to analyzer output before a post is stored.
const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 160
)

// Post represents published HTML addressable by its slug.
type Post struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HTMLContent string    `json:"htmlContent"`
	ContentHash string    `json:"contentHash"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the post contains invalid fields.
// Slug format is checked by the store using the slug package.
func (p *Post) Validate() error {
	switch {
	case strings.TrimSpace(p.Slug) == "":
		return Errorf(EINVALID, "post slug required")
	case strings.TrimSpace(p.Title) == "":
		return Errorf(EINVALID, "post title required")
	case strings.TrimSpace(p.Description) == "":
		return Errorf(EINVALID, "post description required")
	case strings.TrimSpace(p.HTMLContent) == "":
		return Errorf(EINVALID, "post content required")
	case strings.TrimSpace(p.AuthorID) == "":
		return Errorf(EINVALID, "post author ID required")
	case strings.TrimSpace(p.AuthorName) == "":
		return Errorf(EINVALID, "post author name required")
	}
	return nil
}

// PostService represents a service for managing posts.
type PostService interface {
	// CreatePost stores a new post and fills in its ID, content hash and
	// timestamps. Returns ECONFLICT if a post with the same slug exists,
	// including when a concurrent insert claims the slug first.
	CreatePost(ctx context.Context, post *Post) error

	// FindPostByID retrieves a post by ID.
	// Returns ENOTFOUND if post does not exist.
	FindPostByID(ctx context.Context, id int64) (*Post, error)

	// FindPostBySlug retrieves a post by slug.
	// Returns ENOTFOUND if post does not exist.
	FindPostBySlug(ctx context.Context, slug string) (*Post, error)

	// FindPosts retrieves posts matching the filter, newest first.
	FindPosts(ctx context.Context, filter PostFilter) ([]*Post, error)

	// SlugExists reports whether a post already uses the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// PostFilter represents a filter for FindPosts.
type PostFilter struct {
	AuthorID *string `json:"authorId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// HashContent returns the hex-encoded xxHash of content. Stores record it
// with each post; nothing looks posts up by it yet.
func HashContent(content string) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(content)))
}
