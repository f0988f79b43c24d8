// Package openai implements htmldrop.Completer against an OpenAI-compatible
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/htmldrop"
)

// Defaults for the chat completions client.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
)

// ClientName identifies requests to the service.
const ClientName = "htmldrop"

// maxResponseBytes bounds the response body read from the service.
const maxResponseBytes = 1 << 20

// Ensure Completer implements htmldrop.Completer at compile time.
var _ htmldrop.Completer = (*Completer)(nil)

// Completer sends structured-output requests to a chat completions
// endpoint.
type Completer struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

// Option configures a Completer.
type Option func(*Completer)

// WithBaseURL sets the API base URL, e.g. "https://openrouter.ai/api/v1".
func WithBaseURL(u string) Option {
	return func(c *Completer) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithModel sets the model name.
func WithModel(m string) Option {
	return func(c *Completer) {
		c.model = m
	}
}

// WithTimeout sets the per-request timeout.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Completer) {
		c.timeout = d
	}
}

// NewCompleter creates a Completer authenticating with apiKey.
func NewCompleter(apiKey string, opts ...Option) *Completer {
	c := &Completer{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts one chat completion requesting a JSON object and returns
// the content of the first choice.
func (c *Completer) Complete(ctx context.Context, req htmldrop.CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "API key required")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Content},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    0.3,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "invalid API base URL")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("User-Agent", ClientName+"/1.0")
	httpReq.Header.Set("X-Title", ClientName)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", htmldrop.Errorf(htmldrop.StatusErrorCode(resp.StatusCode),
			"language model returned HTTP %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "malformed chat response: %v", err)
	}
	if len(out.Choices) == 0 {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "chat response has no choices")
	}

	return out.Choices[0].Message.Content, nil
}

// transportError classifies failures to reach the service. Timeouts and
// connection failures are EUNAVAILABLE; cancellation by the caller is
// terminal.
func transportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return htmldrop.Errorf(htmldrop.EANALYSIS, "language model request canceled")
	}
	return htmldrop.Errorf(htmldrop.EUNAVAILABLE, "language model unreachable: %v", err)
}
