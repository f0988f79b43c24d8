// Package gemini implements htmldrop.Completer using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/htmldrop"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Ensure Completer implements htmldrop.Completer at compile time.
var _ htmldrop.Completer = (*Completer)(nil)

// Completer implements htmldrop.Completer using Google Gemini.
type Completer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewCompleter creates a new Completer. An empty model selects
// DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model, timeout: DefaultTimeout}
}

// Complete asks the model for a JSON object matching the metadata schema.
func (c *Completer) Complete(ctx context.Context, req htmldrop.CompletionRequest) (string, error) {
	if c.client == nil {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "gemini client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.Content}},
		}},
		BuildConfig(req.System),
	)
	if err != nil {
		return "", ClassifyError(err)
	}
	if result == nil {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "gemini returned nil result")
	}

	text := result.Text()
	if text == "" {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "gemini returned no content")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig requesting a JSON object
// with string slug, title and description.
func BuildConfig(system string) *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"slug":        {Type: genai.TypeString},
				"title":       {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
			},
			Required:         []string{"slug", "title", "description"},
			PropertyOrdering: []string{"slug", "title", "description"},
		},
	}
}

// ClassifyError maps a Gemini client error onto application codes.
// API errors are classified by HTTP status; other failures to reach the
// service are EUNAVAILABLE unless the caller canceled.
func ClassifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return htmldrop.Errorf(htmldrop.StatusErrorCode(apiErr.Code), "gemini returned HTTP %d", apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return htmldrop.Errorf(htmldrop.StatusErrorCode(apiErrPtr.Code), "gemini returned HTTP %d", apiErrPtr.Code)
	}
	if errors.Is(err, context.Canceled) {
		return htmldrop.Errorf(htmldrop.EANALYSIS, "gemini request canceled")
	}
	return htmldrop.Errorf(htmldrop.EUNAVAILABLE, "gemini unreachable: %v", err)
}
