// Package sanitize removes executable and unsafe constructs from
// user-submitted HTML using an allow-list policy.
package sanitize

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/fwojciec/htmldrop"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Sanitizer implements htmldrop.Sanitizer at compile time.
var _ htmldrop.Sanitizer = (*Sanitizer)(nil)

// Sanitizer filters HTML through a fixed allow-list of elements,
// attributes and CSS properties.
type Sanitizer struct {
	logger          *slog.Logger
	allowDataImages bool

	parse func(r io.Reader, context *html.Node) ([]*html.Node, error)
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithLogger sets the logger used to report internal failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sanitizer) {
		s.logger = logger
	}
}

// WithDataImages allows data:image/ URIs (except SVG) in img src.
func WithDataImages() Option {
	return func(s *Sanitizer) {
		s.allowDataImages = true
	}
}

// NewSanitizer creates a new Sanitizer.
func NewSanitizer(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		logger: slog.New(slog.DiscardHandler),
		parse:  html.ParseFragment,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sanitize returns tag-balanced HTML containing only allowed constructs.
// If sanitization fails internally the input is returned unchanged and the
// failure is logged; callers validate the result before use.
func (s *Sanitizer) Sanitize(raw string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sanitize failed", "panic", fmt.Sprint(r), "length", len(raw))
			out = raw
		}
	}()

	clean, err := s.sanitize(raw)
	if err != nil {
		s.logger.Error("sanitize failed", "err", err, "length", len(raw))
		return raw
	}
	return clean
}

func (s *Sanitizer) sanitize(raw string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := s.parse(strings.NewReader(raw), body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range nodes {
		s.render(&b, n)
	}
	return strings.TrimSpace(b.String()), nil
}

func (s *Sanitizer) render(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.DocumentNode:
		s.renderChildren(b, n)
	case html.ElementNode:
		s.renderElement(b, n)
	}
	// Comments, doctypes and raw nodes are dropped.
}

func (s *Sanitizer) renderChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.render(b, c)
	}
}

func (s *Sanitizer) renderElement(b *strings.Builder, n *html.Node) {
	// Foreign content (svg, math) can carry script through its own
	// attribute namespaces.
	if n.Namespace != "" {
		return
	}

	tag := n.Data
	if unwrapTags[tag] {
		s.renderChildren(b, n)
		return
	}
	if !allowedTags[tag] {
		return
	}

	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range s.filterAttrs(tag, n.Attr) {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if voidTags[tag] {
		return
	}

	// The parser drops one leading newline inside pre; restore it so the
	// rendered text round-trips.
	if tag == "pre" {
		if c := n.FirstChild; c != nil && c.Type == html.TextNode && strings.HasPrefix(c.Data, "\n") {
			b.WriteByte('\n')
		}
	}

	s.renderChildren(b, n)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func (s *Sanitizer) filterAttrs(tag string, attrs []html.Attribute) []html.Attribute {
	var out []html.Attribute
	blankTarget := false

	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" || strings.HasPrefix(key, "on") {
			continue
		}
		if !globalAttrs[key] && !tagAttrs[tag][key] {
			continue
		}

		val := a.Val
		if hasBlockedScheme(val, s.allowDataImages && tag == "img" && key == "src") {
			continue
		}

		switch {
		case key == "style":
			val = filterStyle(val)
			if val == "" {
				continue
			}
		case urlAttrs[key]:
			if !safeURL(val) {
				continue
			}
		case key == "target":
			val = strings.ToLower(strings.TrimSpace(val))
			if !allowedTargets[val] {
				continue
			}
			blankTarget = val == "_blank"
		}

		out = append(out, html.Attribute{Key: key, Val: val})
	}

	if tag == "a" && blankTarget {
		out = withNoopener(out)
	}
	return out
}

// withNoopener adds noopener and noreferrer to the rel attribute.
func withNoopener(attrs []html.Attribute) []html.Attribute {
	for i, a := range attrs {
		if a.Key != "rel" {
			continue
		}
		fields := strings.Fields(strings.ToLower(a.Val))
		for _, want := range []string{"noopener", "noreferrer"} {
			if !contains(fields, want) {
				fields = append(fields, want)
			}
		}
		attrs[i].Val = strings.Join(fields, " ")
		return attrs
	}
	return append(attrs, html.Attribute{Key: "rel", Val: "noopener noreferrer"})
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// compact lowercases s and removes whitespace and control characters,
// which browsers ignore inside URL schemes.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// hasBlockedScheme reports whether an attribute value uses a scheme that
// can execute code. data: is allowed only for raster images when
// allowDataImage is set.
func hasBlockedScheme(val string, allowDataImage bool) bool {
	v := compact(val)
	switch {
	case strings.HasPrefix(v, "javascript:"),
		strings.HasPrefix(v, "vbscript:"),
		strings.HasPrefix(v, "livescript:"):
		return true
	case strings.HasPrefix(v, "data:"):
		return !allowDataImage ||
			!strings.HasPrefix(v, "data:image/") ||
			strings.HasPrefix(v, "data:image/svg")
	}
	return false
}

// safeURL accepts relative URLs and a small set of schemes.
func safeURL(val string) bool {
	u, err := url.Parse(strings.TrimSpace(val))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel", "data":
		// data: reaching here was already vetted by hasBlockedScheme.
		return true
	}
	return false
}

// filterStyle keeps allowed properties whose values contain no blocked
// constructs. It returns "" when nothing survives.
func filterStyle(style string) string {
	var kept []string
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if !allowedStyles[prop] || val == "" {
			continue
		}
		if unsafeStyleValue(val) {
			continue
		}
		kept = append(kept, prop+": "+val)
	}
	return strings.Join(kept, "; ")
}

func unsafeStyleValue(val string) bool {
	// CSS escapes can spell any blocked keyword.
	if strings.ContainsAny(val, `\<>`) {
		return true
	}
	v := compact(val)
	for _, blocked := range blockedStyleValues {
		if strings.Contains(v, blocked) {
			return true
		}
	}
	return false
}

var dangerousRe = regexp.MustCompile(`(?i)<\s*(script|iframe|object|embed|style|form|base|meta|link)\b` +
	`|<[^>]*\s[a-z:-]+\s*=\s*["']?\s*(javascript|vbscript)\s*:` +
	`|<[^>]*\son[a-z]+\s*=`)

// ContainsDangerousPatterns reports whether HTML still contains executable
// constructs. Sanitized output never matches; the check guards against
// content that bypassed sanitization.
func ContainsDangerousPatterns(s string) bool {
	return dangerousRe.MatchString(s)
}
