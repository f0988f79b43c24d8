package htmldrop

import "context"

// ContentType is a coarse classification of submitted content used to
// pick a prompt variant.
type ContentType string

// ContentType constants.
const (
	ContentTechnical ContentType = "technical"
	ContentTutorial  ContentType = "tutorial"
	ContentCreative  ContentType = "creative"
	ContentNews      ContentType = "news"
	ContentGeneral   ContentType = "general"
)

// Features records which structural elements appear in content.
type Features struct {
	HasImages bool `json:"hasImages"`
	HasLinks  bool `json:"hasLinks"`
	HasCode   bool `json:"hasCode"`
	HasLists  bool `json:"hasLists"`
}

// Inspection holds locally computed facts about an HTML document.
type Inspection struct {
	// Text is the visible text with tags stripped and blocks separated.
	Text string

	// Title is the document <title> or first <h1>, if any.
	Title string

	WordCount          int
	ReadingTimeMinutes int
	Features           Features
}

// Inspector derives plain text, metrics and features from HTML.
type Inspector interface {
	Inspect(html string) (*Inspection, error)
}

// Sanitizer strips executable and unsafe constructs from HTML.
type Sanitizer interface {
	// Sanitize returns tag-balanced HTML containing only allow-listed
	// elements and attributes. It never fails: on internal error the
	// input is returned unchanged.
	Sanitize(html string) string
}

// Analysis is the publishable metadata derived for a submission.
type Analysis struct {
	Slug               string      `json:"slug"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	WordCount          int         `json:"wordCount"`
	ReadingTimeMinutes int         `json:"readingTimeMinutes"`
	ContentType        ContentType `json:"contentType"`
	Features           Features    `json:"features"`

	// Fallback is true when the metadata was computed locally because
	// the analysis service could not be used.
	Fallback bool `json:"fallback"`
}

// AnalysisRequest is the input to an Analyzer.
type AnalysisRequest struct {
	// HTML is sanitized content.
	HTML string

	// FallbackTitle is used when neither the model nor the content
	// produces a title.
	FallbackTitle string
}

// Analyzer derives slug, title and description for sanitized HTML.
type Analyzer interface {
	// Analyze always produces metadata for valid input: failures of the
	// analysis service degrade to locally computed fallback metadata.
	// Returns EINVALID only for empty input.
	Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error)
}

// CompletionRequest is a single structured-output request to a language
// model.
type CompletionRequest struct {
	System  string
	Content string
}

// Completer sends one request to a language model and returns the raw
// JSON object it produced.
type Completer interface {
	// Complete returns the model's JSON text. Rate limiting and upstream
	// outages are reported as EUNAVAILABLE; every other failure is
	// EANALYSIS.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
