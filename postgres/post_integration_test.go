//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := os.Getenv("HTMLDROP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("HTMLDROP_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := postgres.NewDB(dsn)
	require.NoError(t, db.Open(ctx))
	t.Cleanup(func() { db.Close() })
	return db
}

// uniqueSlug keeps tests independent on a shared database.
func uniqueSlug(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func newPost(slug, authorID string) *htmldrop.Post {
	return &htmldrop.Post{
		Slug:        slug,
		Title:       "Title",
		Description: "Description",
		HTMLContent: "<p>" + slug + "</p>",
		AuthorID:    authorID,
		AuthorName:  "Author",
	}
}

func TestPostService_Integration_CreateAndFind(t *testing.T) {
	t.Parallel()

	svc := postgres.NewPostService(setupTestDB(t))
	ctx := context.Background()
	s := uniqueSlug("created")

	post := newPost(s, "u1")
	require.NoError(t, svc.CreatePost(ctx, post))
	assert.Positive(t, post.ID)

	got, err := svc.FindPostBySlug(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, post.ContentHash, got.ContentHash)
	assert.True(t, post.CreatedAt.Equal(got.CreatedAt))

	byID, err := svc.FindPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, s, byID.Slug)

	exists, err := svc.SlugExists(ctx, s)
	require.NoError(t, err)
	assert.True(t, exists)

	author := "u1"
	posts, err := svc.FindPosts(ctx, htmldrop.PostFilter{AuthorID: &author, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostService_Integration_NotFound(t *testing.T) {
	t.Parallel()

	svc := postgres.NewPostService(setupTestDB(t))

	_, err := svc.FindPostBySlug(context.Background(), uniqueSlug("missing"))

	assert.Equal(t, htmldrop.ENOTFOUND, htmldrop.ErrorCode(err))
}

func TestPostService_Integration_ConcurrentDuplicate(t *testing.T) {
	t.Parallel()

	svc := postgres.NewPostService(setupTestDB(t))
	ctx := context.Background()
	s := uniqueSlug("race")

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = svc.CreatePost(ctx, newPost(s, fmt.Sprintf("u%d", i)))
		}()
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch htmldrop.ErrorCode(err) {
		case "":
			ok++
		case htmldrop.ECONFLICT:
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, conflicts)
}
