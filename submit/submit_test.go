package submit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/mock"
	"github.com/fwojciec/htmldrop/sanitize"
	"github.com/fwojciec/htmldrop/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires a Submitter with mocks whose default behavior is a
// successful submission of a code block.
type fixture struct {
	submitter *submit.Submitter
	extractor *mock.Extractor
	analyzer  *mock.Analyzer
	posts     *mock.PostService
	logs      *bytes.Buffer

	taken   map[string]bool
	created []*htmldrop.Post
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		logs:  &bytes.Buffer{},
		taken: map[string]bool{},
	}
	f.extractor = &mock.Extractor{
		ExtractFn: func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return &htmldrop.Extraction{Content: "<h1>Hello</h1><p>World.</p>", Source: htmldrop.SourceCodeBlock}, nil
		},
	}
	f.analyzer = &mock.Analyzer{
		AnalyzeFn: func(context.Context, htmldrop.AnalysisRequest) (*htmldrop.Analysis, error) {
			return &htmldrop.Analysis{
				Slug:               "hello",
				Title:              "Hello",
				Description:        "A greeting.",
				WordCount:          2,
				ReadingTimeMinutes: 1,
				ContentType:        htmldrop.ContentGeneral,
			}, nil
		},
	}
	f.posts = &mock.PostService{
		SlugExistsFn: func(_ context.Context, s string) (bool, error) {
			return f.taken[s], nil
		},
		CreatePostFn: func(_ context.Context, p *htmldrop.Post) error {
			if f.taken[p.Slug] {
				return htmldrop.Errorf(htmldrop.ECONFLICT, "slug %q already exists", p.Slug)
			}
			f.taken[p.Slug] = true
			p.ID = int64(len(f.created) + 1)
			f.created = append(f.created, p)
			return nil
		},
	}
	inspector := &mock.Inspector{
		InspectFn: func(string) (*htmldrop.Inspection, error) {
			return &htmldrop.Inspection{Title: "Hello"}, nil
		},
	}

	f.submitter = submit.NewSubmitter(f.extractor, sanitize.NewSanitizer(), inspector, f.analyzer, f.posts,
		slog.New(slog.NewTextHandler(f.logs, nil)))
	f.submitter.BaseURL = "https://drop.example/"
	return f
}

func message() *htmldrop.Message {
	return &htmldrop.Message{AuthorID: "u1", AuthorName: "Ada", Text: "!submit"}
}

func TestSubmitter_Submit_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	out := f.submitter.Submit(context.Background(), message())

	require.Equal(t, htmldrop.OutcomeSuccess, out.Kind, out.Detail)
	require.NotNil(t, out.Post)
	assert.Equal(t, "hello", out.Post.Slug)
	assert.Equal(t, "hello", out.Analysis.Slug)
	assert.Equal(t, "u1", out.Post.AuthorID)
	assert.Equal(t, "Ada", out.Post.AuthorName)
	assert.Equal(t, "<h1>Hello</h1><p>World.</p>", out.Post.HTMLContent)
	assert.Contains(t, out.Detail, "https://drop.example/hello")
	assert.Contains(t, out.Detail, "2 words")
	assert.Contains(t, out.Detail, "1 min read")
	assert.Contains(t, out.Detail, "general")
	assert.Len(t, f.created, 1)
}

func TestSubmitter_Submit_Help(t *testing.T) {
	t.Parallel()

	t.Run("nil message", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		out := f.submitter.Submit(context.Background(), nil)
		assert.Equal(t, htmldrop.OutcomeHelp, out.Kind)
		assert.Equal(t, submit.HelpMessage, out.Detail)
	})

	t.Run("no content found", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.extractor.ExtractFn = func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return &htmldrop.Extraction{Source: htmldrop.SourceNone}, nil
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeHelp, out.Kind)
		assert.Empty(t, f.created)
	})
}

func TestSubmitter_Submit_Rejected(t *testing.T) {
	t.Parallel()

	t.Run("rate limited user", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.submitter.Limiter = &mock.UserLimiter{AllowFn: func(id string) bool { return id != "u1" }}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.Contains(t, out.Detail, "too quickly")
		assert.Contains(t, f.logs.String(), "stage=limit")
		assert.Empty(t, f.created)
	})

	t.Run("extraction error shows its cause", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.extractor.ExtractFn = func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "attachment download timed out")
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.Contains(t, out.Detail, "attachment download timed out")
	})

	t.Run("internal extraction error is hidden", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.extractor.ExtractFn = func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return nil, errors.New("dial tcp 10.0.0.1:443: secret internals")
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.NotContains(t, out.Detail, "secret")
		assert.Contains(t, f.logs.String(), "stage=extract")
		assert.Contains(t, f.logs.String(), "code=internal")
	})

	t.Run("content without tags", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.extractor.ExtractFn = func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return &htmldrop.Extraction{Content: "just words", Source: htmldrop.SourceAttachment, Filename: "a.txt"}, nil
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.Contains(t, out.Detail, "HTML tags")
	})

	t.Run("nothing left after sanitization", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.extractor.ExtractFn = func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return &htmldrop.Extraction{Content: "<script>alert(1)</script>", Source: htmldrop.SourceCodeBlock}, nil
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.Contains(t, out.Detail, "Nothing publishable")
		assert.Contains(t, f.logs.String(), "stage=validate")
		assert.Contains(t, f.logs.String(), "content_length=25")
		assert.NotContains(t, f.logs.String(), "alert(1)")
	})

	t.Run("sanitized content over the size limit", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.submitter.MaxContentBytes = 1 << 20
		f.extractor.ExtractFn = func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return &htmldrop.Extraction{Content: "<p>" + strings.Repeat("a", 1<<20) + "</p>", Source: htmldrop.SourceAttachment}, nil
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.Contains(t, out.Detail, "1 MB")
	})

	t.Run("dangerous patterns surviving sanitization", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.submitter.Sanitizer = &mock.Sanitizer{SanitizeFn: func(s string) string { return s }}
		f.extractor.ExtractFn = func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return &htmldrop.Extraction{Content: `<img src=x onerror=alert(1)>`, Source: htmldrop.SourceCodeBlock}, nil
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.Contains(t, out.Detail, "safely")
		assert.Empty(t, f.created)
	})

	t.Run("analyzer error is hidden", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.analyzer.AnalyzeFn = func(context.Context, htmldrop.AnalysisRequest) (*htmldrop.Analysis, error) {
			return nil, htmldrop.Errorf(htmldrop.EINVALID, "content required")
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.NotContains(t, out.Detail, "content required")
	})

	t.Run("store failure is hidden", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.posts.CreatePostFn = func(context.Context, *htmldrop.Post) error {
			return errors.New("disk I/O error")
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.NotContains(t, out.Detail, "disk")
		assert.Contains(t, f.logs.String(), "stage=store")
	})

	t.Run("slug lookup failure is hidden", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.posts.SlugExistsFn = func(context.Context, string) (bool, error) {
			return false, errors.New("connection refused")
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.NotContains(t, out.Detail, "refused")
		assert.Contains(t, f.logs.String(), "stage=resolve")
	})
}

func TestSubmitter_Submit_SlugResolution(t *testing.T) {
	t.Parallel()

	t.Run("taken slug gets numbered suffix", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.taken["hello"] = true

		out := f.submitter.Submit(context.Background(), message())
		require.Equal(t, htmldrop.OutcomeSuccess, out.Kind)
		assert.Equal(t, "hello-1", out.Post.Slug)
		assert.Equal(t, "hello-1", out.Analysis.Slug)
	})

	t.Run("concurrent claim triggers one re-resolution", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		create := f.posts.CreatePostFn
		raced := false
		f.posts.CreatePostFn = func(ctx context.Context, p *htmldrop.Post) error {
			if !raced {
				// Another writer claims the slug between check and insert.
				raced = true
				f.taken[p.Slug] = true
			}
			return create(ctx, p)
		}

		out := f.submitter.Submit(context.Background(), message())
		require.Equal(t, htmldrop.OutcomeSuccess, out.Kind)
		assert.Equal(t, "hello-1", out.Post.Slug)
	})

	t.Run("second conflict is rejected", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		calls := 0
		f.posts.CreatePostFn = func(_ context.Context, p *htmldrop.Post) error {
			calls++
			return htmldrop.Errorf(htmldrop.ECONFLICT, "slug %q already exists", p.Slug)
		}

		out := f.submitter.Submit(context.Background(), message())
		assert.Equal(t, htmldrop.OutcomeRejected, out.Kind)
		assert.Contains(t, out.Detail, "unique address")
		assert.Equal(t, 2, calls)
	})
}

func TestSubmitter_Submit_FallbackTitle(t *testing.T) {
	t.Parallel()

	t.Run("uses attachment filename", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.extractor.ExtractFn = func(context.Context, *htmldrop.Message) (*htmldrop.Extraction, error) {
			return &htmldrop.Extraction{Content: "<p>x</p>", Source: htmldrop.SourceAttachment, Filename: "release_notes.html"}, nil
		}
		var got string
		f.analyzer.AnalyzeFn = func(_ context.Context, req htmldrop.AnalysisRequest) (*htmldrop.Analysis, error) {
			got = req.FallbackTitle
			return &htmldrop.Analysis{Slug: "x-post", Title: "X", Description: "d"}, nil
		}

		f.submitter.Submit(context.Background(), message())
		assert.Equal(t, "Release Notes", got)
	})

	t.Run("uses inspected title for code blocks", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		var got string
		f.analyzer.AnalyzeFn = func(_ context.Context, req htmldrop.AnalysisRequest) (*htmldrop.Analysis, error) {
			got = req.FallbackTitle
			return &htmldrop.Analysis{Slug: "x-post", Title: "X", Description: "d"}, nil
		}

		f.submitter.Submit(context.Background(), message())
		assert.Equal(t, "Hello", got)
	})
}

func TestSubmitter_PostURL(t *testing.T) {
	t.Parallel()

	s := &submit.Submitter{BaseURL: "https://drop.example/p/"}
	assert.Equal(t, "https://drop.example/p/hello", s.PostURL("hello"))

	s.BaseURL = ""
	assert.Equal(t, "/hello", s.PostURL("hello"))
}
