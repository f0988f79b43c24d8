package htmldrop

import "context"

// Message is an inbound chat message as seen by the submission pipeline.
type Message struct {
	AuthorID   string
	AuthorName string
	Text       string

	// Attachment is the first file attached to the message, if any.
	Attachment *Attachment
}

// Attachment describes a file attached to a chat message.
type Attachment struct {
	URL         string
	Name        string
	Size        int64
	ContentType string
}

// ContentSource identifies where submitted content was found.
type ContentSource string

// ContentSource constants for Extraction.
const (
	SourceNone       ContentSource = "none"
	SourceAttachment ContentSource = "attachment"
	SourceCodeBlock  ContentSource = "codeblock"
)

// Extraction holds the raw content pulled from a message.
type Extraction struct {
	Content string
	Source  ContentSource

	// Filename is set when the content came from an attachment.
	Filename string
}

// Extractor pulls raw HTML out of a chat message.
type Extractor interface {
	// Extract returns the attachment body or the first fenced/inline code
	// block containing an HTML tag. A message without usable content
	// yields an Extraction with SourceNone and a nil error.
	// Download failures are reported as EEXTRACT.
	Extract(ctx context.Context, msg *Message) (*Extraction, error)
}

// Downloader retrieves attachment bodies over HTTP.
type Downloader interface {
	// Download fetches the body at url. Implementations enforce a timeout
	// and a byte ceiling, reporting violations as EEXTRACT.
	Download(ctx context.Context, url string) ([]byte, error)
}
