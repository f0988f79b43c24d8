// Package extract pulls submitted HTML out of chat messages, either from a
// downloaded attachment or from a code block in the message text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/htmldrop"
)

// DefaultMaxBytes is the attachment size ceiling (25 MB).
const DefaultMaxBytes = 25 << 20

// Ensure Extractor implements htmldrop.Extractor at compile time.
var _ htmldrop.Extractor = (*Extractor)(nil)

var (
	htmlFenceRe = regexp.MustCompile("(?is)```html[ \\t]*\\r?\\n?(.*?)```")
	anyFenceRe  = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*[ \\t]*\\r?\\n?(.*?)```")
	inlineRe    = regexp.MustCompile("`([^`\\n]+)`")
	htmlTagRe   = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9-]*(\s[^>]*)?/?>`)
)

// supportedExtensions are the attachment file types accepted as HTML.
var supportedExtensions = map[string]bool{
	".html":  true,
	".htm":   true,
	".xhtml": true,
	".txt":   true,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor implements htmldrop.Extractor.
type Extractor struct {
	Downloader htmldrop.Downloader

	// MaxBytes rejects attachments whose declared size is larger.
	MaxBytes int64
}

// NewExtractor creates an Extractor downloading attachments with d.
func NewExtractor(d htmldrop.Downloader) *Extractor {
	return &Extractor{
		Downloader: d,
		MaxBytes:   DefaultMaxBytes,
	}
}

// Extract returns the message attachment when present, otherwise the first
// code block containing an HTML tag.
func (e *Extractor) Extract(ctx context.Context, msg *htmldrop.Message) (*htmldrop.Extraction, error) {
	if msg == nil {
		return &htmldrop.Extraction{Source: htmldrop.SourceNone}, nil
	}
	if msg.Attachment != nil {
		return e.extractAttachment(ctx, msg.Attachment)
	}
	if content, ok := FindCodeBlock(msg.Text); ok {
		return &htmldrop.Extraction{Content: content, Source: htmldrop.SourceCodeBlock}, nil
	}
	return &htmldrop.Extraction{Source: htmldrop.SourceNone}, nil
}

func (e *Extractor) extractAttachment(ctx context.Context, a *htmldrop.Attachment) (*htmldrop.Extraction, error) {
	if e.MaxBytes > 0 && a.Size > e.MaxBytes {
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "attachment %q is %s, the limit is %s",
			a.Name, formatSize(a.Size), formatSize(e.MaxBytes))
	}
	if !Supported(a.Name, a.ContentType) {
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "attachment %q is not an HTML or text file", a.Name)
	}

	body, err := e.Downloader.Download(ctx, a.URL)
	if err != nil {
		if htmldrop.ErrorCode(err) == htmldrop.EEXTRACT {
			return nil, err
		}
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "could not download attachment %q", a.Name)
	}

	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "attachment %q is not UTF-8 text", a.Name)
	}
	content := strings.TrimSpace(string(body))
	if content == "" {
		return nil, htmldrop.Errorf(htmldrop.EEXTRACT, "attachment %q is empty", a.Name)
	}

	return &htmldrop.Extraction{
		Content:  content,
		Source:   htmldrop.SourceAttachment,
		Filename: a.Name,
	}, nil
}

// Supported reports whether an attachment looks like HTML or plain text,
// judged by file extension first and declared media type second.
func Supported(name, contentType string) bool {
	if supportedExtensions[strings.ToLower(path.Ext(name))] {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/xhtml+xml"
}

// FindCodeBlock scans message text for HTML. Blocks fenced as html are
// tried first, then any fenced block, then inline code spans. The first
// candidate containing an HTML tag wins.
func FindCodeBlock(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{htmlFenceRe, anyFenceRe} {
		if content, ok := firstWithTag(re, text); ok {
			return content, true
		}
	}
	// Fence delimiters would otherwise pair up with inline backticks.
	return firstWithTag(inlineRe, anyFenceRe.ReplaceAllString(text, " "))
}

func firstWithTag(re *regexp.Regexp, text string) (string, bool) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		content := strings.TrimSpace(m[1])
		if HasTag(content) {
			return content, true
		}
	}
	return "", false
}

// HasTag reports whether s contains at least one HTML start tag.
func HasTag(s string) bool {
	return htmlTagRe.MatchString(s)
}

// TitleFromFilename derives a human title from an attachment name:
// "my_first-page.html" becomes "My First Page".
func TitleFromFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func formatSize(n int64) string {
	if n >= 1<<20 {
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
	if n >= 1<<10 {
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d bytes", n)
}
