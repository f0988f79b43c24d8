package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/htmldrop"
	main "github.com/fwojciec/htmldrop/cmd/htmldrop"
	"github.com/fwojciec/htmldrop/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSubmitCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("submits each file as a local attachment", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeFile(t, dir, "a.html", "<h1>A</h1>")
		b := writeFile(t, dir, "b.html", "<h1>B</h1>")

		var calls atomic.Int32
		sub := &mock.Submitter{
			SubmitFn: func(_ context.Context, msg *htmldrop.Message) *htmldrop.Outcome {
				calls.Add(1)
				assert.Equal(t, "me", msg.AuthorID)
				assert.Equal(t, "Me", msg.AuthorName)
				if !assert.NotNil(t, msg.Attachment) {
					return &htmldrop.Outcome{Kind: htmldrop.OutcomeRejected}
				}
				assert.True(t, strings.HasPrefix(msg.Attachment.URL, "file://"))
				assert.Equal(t, int64(10), msg.Attachment.Size)
				return &htmldrop.Outcome{Kind: htmldrop.OutcomeSuccess, Detail: "Published " + msg.Attachment.Name}
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Submitter: sub,
		}

		cmd := &main.SubmitCmd{Files: []string{a, b}, AuthorID: "me", AuthorName: "Me", Concurrency: 2}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, int32(2), calls.Load())
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, a+": Published a.html", lines[0])
		assert.Equal(t, b+": Published b.html", lines[1])
	})

	t.Run("reports rejected files and fails", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ok := writeFile(t, dir, "ok.html", "<p>ok</p>")
		bad := writeFile(t, dir, "bad.html", "plain")

		sub := &mock.Submitter{
			SubmitFn: func(_ context.Context, msg *htmldrop.Message) *htmldrop.Outcome {
				if msg.Attachment.Name == "bad.html" {
					return &htmldrop.Outcome{Kind: htmldrop.OutcomeRejected, Detail: "No HTML tags found."}
				}
				return &htmldrop.Outcome{Kind: htmldrop.OutcomeSuccess, Detail: "Published"}
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    stderr,
			Submitter: sub,
		}

		err := (&main.SubmitCmd{Files: []string{ok, bad}, Concurrency: 1}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, htmldrop.ErrorMessage(err), "1 of 2 submissions rejected")
		assert.Contains(t, stdout.String(), ok+": Published")
		assert.Contains(t, stderr.String(), bad+": No HTML tags found.")
	})

	t.Run("missing file fails before submitting", func(t *testing.T) {
		t.Parallel()

		sub := &mock.Submitter{
			SubmitFn: func(context.Context, *htmldrop.Message) *htmldrop.Outcome {
				t.Error("submit must not be called")
				return nil
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Submitter: sub,
		}

		err := (&main.SubmitCmd{Files: []string{filepath.Join(t.TempDir(), "nope.html")}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, htmldrop.EINVALID, htmldrop.ErrorCode(err))
		assert.Contains(t, stderr.String(), "cannot read")
	})

	t.Run("directory is rejected", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Submitter: &mock.Submitter{},
		}

		err := (&main.SubmitCmd{Files: []string{t.TempDir()}}).Run(deps)

		assert.Equal(t, htmldrop.EINVALID, htmldrop.ErrorCode(err))
	})
}
