package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/mock"
	htmldropslog "github.com/fwojciec/htmldrop/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("logs sizes without content", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Completer{
			CompleteFn: func(context.Context, htmldrop.CompletionRequest) (string, error) {
				return `{"slug":"a-b"}`, nil
			},
		}

		completer := htmldropslog.NewLoggingCompleter(inner, logger)
		out, err := completer.Complete(context.Background(), htmldrop.CompletionRequest{
			System:  "be helpful",
			Content: "<p>private words</p>",
		})

		require.NoError(t, err)
		assert.Equal(t, `{"slug":"a-b"}`, out)
		output := buf.String()
		assert.Contains(t, output, "completion")
		assert.Contains(t, output, "prompt_chars=20")
		assert.Contains(t, output, "response_chars=14")
		assert.NotContains(t, output, "private words")
		assert.NotContains(t, output, "err=")
	})

	t.Run("logs error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Completer{
			CompleteFn: func(context.Context, htmldrop.CompletionRequest) (string, error) {
				return "", htmldrop.Errorf(htmldrop.EUNAVAILABLE, "analysis service returned HTTP 503")
			},
		}

		completer := htmldropslog.NewLoggingCompleter(inner, logger)
		_, err := completer.Complete(context.Background(), htmldrop.CompletionRequest{})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "code=unavailable")
	})
}
