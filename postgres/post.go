package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/slug"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE for a UNIQUE constraint failure.
const uniqueViolation = "23505"

// Compile-time interface verification.
var _ htmldrop.PostService = (*PostService)(nil)

// PostService implements htmldrop.PostService using PostgreSQL.
type PostService struct {
	db *DB
}

// NewPostService creates a new PostService.
func NewPostService(db *DB) *PostService {
	return &PostService{db: db}
}

const postColumns = "id, slug, title, description, html_content, content_hash, author_id, author_name, created_at, updated_at"

// CreatePost validates and stores a new post. The existence check and the
// insert share a transaction and the UNIQUE constraint on slug is
// authoritative.
func (s *PostService) CreatePost(ctx context.Context, post *htmldrop.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	if err := slug.Check(post.Slug); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	post.ContentHash = htmldrop.HashContent(post.HTMLContent)
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := s.db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)", post.Slug).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return duplicateSlug(post.Slug)
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO posts (slug, title, description, html_content, content_hash, author_id, author_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, post.Slug, post.Title, post.Description, post.HTMLContent, post.ContentHash,
		post.AuthorID, post.AuthorName, post.CreatedAt, post.UpdatedAt).Scan(&id)
	if err != nil {
		return mapConstraintError(err, post.Slug)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConstraintError(err, post.Slug)
	}

	post.ID = id
	return nil
}

func duplicateSlug(s string) error {
	return htmldrop.Errorf(htmldrop.ECONFLICT, "slug %q already exists", s)
}

func mapConstraintError(err error, s string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return duplicateSlug(s)
	}
	return err
}

// FindPostByID retrieves a post by ID.
func (s *PostService) FindPostByID(ctx context.Context, id int64) (*htmldrop.Post, error) {
	post, err := scanPost(s.db.pool.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, htmldrop.Errorf(htmldrop.ENOTFOUND, "post not found")
	}
	return post, err
}

// FindPostBySlug retrieves a post by slug.
func (s *PostService) FindPostBySlug(ctx context.Context, slug string) (*htmldrop.Post, error) {
	post, err := scanPost(s.db.pool.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE slug = $1", slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, htmldrop.Errorf(htmldrop.ENOTFOUND, "post %q not found", slug)
	}
	return post, err
}

// FindPosts retrieves posts matching the filter, newest first.
func (s *PostService) FindPosts(ctx context.Context, filter htmldrop.PostFilter) ([]*htmldrop.Post, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + postColumns + " FROM posts WHERE 1=1")

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		fmt.Fprintf(&query, " AND author_id = $%d", len(args))
	}

	query.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*htmldrop.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// SlugExists reports whether a post uses the slug.
func (s *PostService) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

func scanPost(row pgx.Row) (*htmldrop.Post, error) {
	var post htmldrop.Post
	if err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Description, &post.HTMLContent,
		&post.ContentHash, &post.AuthorID, &post.AuthorName, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return nil, err
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	return &post, nil
}
