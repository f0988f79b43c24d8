package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/slug"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ htmldrop.PostService = (*PostService)(nil)

// PostService implements htmldrop.PostService using SQLite.
type PostService struct {
	db *DB
}

// NewPostService creates a new PostService.
func NewPostService(db *DB) *PostService {
	return &PostService{db: db}
}

const postColumns = "id, slug, title, description, html_content, content_hash, author_id, author_name, created_at, updated_at"

// CreatePost validates and stores a new post. The existence check and the
// insert run in one transaction; the UNIQUE constraint on slug rejects any
// insert that races past the check.
func (s *PostService) CreatePost(ctx context.Context, post *htmldrop.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	if err := slug.Check(post.Slug); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	post.ContentHash = htmldrop.HashContent(post.HTMLContent)
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ?)", post.Slug).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return duplicateSlug(post.Slug)
	}

	id, err := insertPost(ctx, tx, post)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapConstraintError(err, post.Slug)
	}

	post.ID = id
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPost(ctx context.Context, e execer, post *htmldrop.Post) (int64, error) {
	result, err := e.ExecContext(ctx, `
		INSERT INTO posts (slug, title, description, html_content, content_hash, author_id, author_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, post.Slug, post.Title, post.Description, post.HTMLContent, post.ContentHash,
		post.AuthorID, post.AuthorName,
		post.CreatedAt.Format(time.RFC3339), post.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return 0, mapConstraintError(err, post.Slug)
	}
	return result.LastInsertId()
}

func duplicateSlug(s string) error {
	return htmldrop.Errorf(htmldrop.ECONFLICT, "slug %q already exists", s)
}

// mapConstraintError converts a UNIQUE violation into ECONFLICT.
func mapConstraintError(err error, s string) error {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode() == sqlite3.CONSTRAINT_UNIQUE {
		return duplicateSlug(s)
	}
	return err
}

// FindPostByID retrieves a post by ID.
func (s *PostService) FindPostByID(ctx context.Context, id int64) (*htmldrop.Post, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, htmldrop.Errorf(htmldrop.ENOTFOUND, "post not found")
	}
	return post, err
}

// FindPostBySlug retrieves a post by slug.
func (s *PostService) FindPostBySlug(ctx context.Context, slug string) (*htmldrop.Post, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE slug = ?", slug)
	post, err := scanPost(row)
	if err == sql.ErrNoRows {
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
		query.WriteString(" AND author_id = ?")
		args = append(args, *filter.AuthorID)
	}

	query.WriteString(" ORDER BY created_at DESC, id DESC")

	// SQLite requires LIMIT whenever OFFSET is used; -1 means no limit.
	if filter.Limit > 0 || filter.Offset > 0 {
		query.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limitOrAll(filter.Limit), max(filter.Offset, 0))
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
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
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ?)", slug).Scan(&exists)
	return exists, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*htmldrop.Post, error) {
	var post htmldrop.Post
	var createdAt, updatedAt string

	if err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Description, &post.HTMLContent,
		&post.ContentHash, &post.AuthorID, &post.AuthorName, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if post.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("post %d created_at: %w", post.ID, err)
	}
	if post.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("post %d updated_at: %w", post.ID, err)
	}

	return &post, nil
}

func limitOrAll(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}
