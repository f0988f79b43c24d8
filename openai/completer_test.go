package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/analyze"
	"github.com/fwojciec/htmldrop/goquery"
	"github.com/fwojciec/htmldrop/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("sends structured request and returns content", func(t *testing.T) {
		t.Parallel()

		var got struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		var header http.Header
		var path string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header = r.Header.Clone()
			path = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"slug\":\"a-b\"}"}}]}`))
		}))
		defer server.Close()

		c := openai.NewCompleter("sk-test", openai.WithBaseURL(server.URL+"/"), openai.WithModel("test-model"))

		content, err := c.Complete(context.Background(), htmldrop.CompletionRequest{System: "sys", Content: "<p>doc</p>"})

		require.NoError(t, err)
		assert.Equal(t, `{"slug":"a-b"}`, content)
		assert.Equal(t, "/chat/completions", path)
		assert.Equal(t, "Bearer sk-test", header.Get("Authorization"))
		assert.Equal(t, "application/json", header.Get("Content-Type"))
		assert.Equal(t, "htmldrop/1.0", header.Get("User-Agent"))
		assert.Equal(t, "htmldrop", header.Get("X-Title"))
		assert.Equal(t, "test-model", got.Model)
		assert.Equal(t, "json_object", got.ResponseFormat.Type)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, "sys", got.Messages[0].Content)
		assert.Equal(t, "user", got.Messages[1].Role)
		assert.Equal(t, "<p>doc</p>", got.Messages[1].Content)
	})

	statuses := []struct {
		status int
		code   string
	}{
		{http.StatusTooManyRequests, htmldrop.EUNAVAILABLE},
		{http.StatusBadGateway, htmldrop.EUNAVAILABLE},
		{http.StatusServiceUnavailable, htmldrop.EUNAVAILABLE},
		{http.StatusGatewayTimeout, htmldrop.EUNAVAILABLE},
		{http.StatusUnauthorized, htmldrop.EANALYSIS},
		{http.StatusBadRequest, htmldrop.EANALYSIS},
		{http.StatusInternalServerError, htmldrop.EANALYSIS},
	}
	for _, tt := range statuses {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"key sk-secret invalid"}}`))
			}))
			defer server.Close()

			_, err := openai.NewCompleter("sk-test", openai.WithBaseURL(server.URL)).
				Complete(context.Background(), htmldrop.CompletionRequest{})

			require.Error(t, err)
			assert.Equal(t, tt.code, htmldrop.ErrorCode(err))
			assert.NotContains(t, htmldrop.ErrorMessage(err), "sk-secret")
		})
	}

	t.Run("rejects malformed envelope", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>gateway</html>`))
		}))
		defer server.Close()

		_, err := openai.NewCompleter("k", openai.WithBaseURL(server.URL)).
			Complete(context.Background(), htmldrop.CompletionRequest{})

		assert.Equal(t, htmldrop.EANALYSIS, htmldrop.ErrorCode(err))
	})

	t.Run("rejects empty choices", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		_, err := openai.NewCompleter("k", openai.WithBaseURL(server.URL)).
			Complete(context.Background(), htmldrop.CompletionRequest{})

		assert.Equal(t, htmldrop.EANALYSIS, htmldrop.ErrorCode(err))
	})

	t.Run("requires api key", func(t *testing.T) {
		t.Parallel()

		_, err := openai.NewCompleter("").Complete(context.Background(), htmldrop.CompletionRequest{})

		assert.Equal(t, htmldrop.EANALYSIS, htmldrop.ErrorCode(err))
	})

	t.Run("timeout is retryable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		_, err := openai.NewCompleter("k", openai.WithBaseURL(server.URL), openai.WithTimeout(10*time.Millisecond)).
			Complete(context.Background(), htmldrop.CompletionRequest{})

		assert.Equal(t, htmldrop.EUNAVAILABLE, htmldrop.ErrorCode(err))
	})

	t.Run("cancellation is terminal", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := openai.NewCompleter("k", openai.WithBaseURL(server.URL)).
			Complete(ctx, htmldrop.CompletionRequest{})

		assert.Equal(t, htmldrop.EANALYSIS, htmldrop.ErrorCode(err))
	})
}

func TestAnalyzer_WithCompleter_StopsAfterThreeUnavailableResponses(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	a := analyze.NewAnalyzer(openai.NewCompleter("k", openai.WithBaseURL(server.URL)), goquery.NewInspector(), nil)
	a.Delays = []time.Duration{time.Millisecond, time.Millisecond}

	_, err := a.Request(context.Background(), htmldrop.CompletionRequest{System: "s", Content: "c"})

	require.Error(t, err)
	assert.Equal(t, htmldrop.EANALYSIS, htmldrop.ErrorCode(err))
	assert.Equal(t, int32(3), hits.Load())

	res, err := a.Analyze(context.Background(), htmldrop.AnalysisRequest{
		HTML:          "<h1>News</h1><p>Everything that changed this week.</p>",
		FallbackTitle: "Release notes",
	})

	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "release-notes", res.Slug)
	assert.Equal(t, "Everything that changed this week.", res.Description)
	assert.Equal(t, int32(6), hits.Load())
}
