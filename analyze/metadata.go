package analyze

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/fwojciec/htmldrop"
)

// DefaultDescription is used when no sentence in the content is long
// enough to describe it.
const DefaultDescription = "An HTML page shared on htmldrop."

// DefaultTitle is used when neither the model nor the caller supplies a
// title.
const DefaultTitle = "Untitled Post"

// minSentenceLength is the shortest sentence accepted as a description.
const minSentenceLength = 10

// Metadata is the decoded model response.
type Metadata struct {
	Slug        string
	Title       string
	Description string
}

// Parse strictly decodes a model response. The body must be a JSON object
// whose slug and title are non-blank strings; description must be a
// string when present. Other fields are ignored. Every failure is
// EANALYSIS.
func Parse(raw string) (*Metadata, error) {
	body := bytes.TrimSpace([]byte(raw))
	if len(body) == 0 || body[0] != '{' {
		return nil, htmldrop.Errorf(htmldrop.EANALYSIS, "analysis response is not a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, htmldrop.Errorf(htmldrop.EANALYSIS, "analysis response is not valid JSON: %v", err)
	}

	var m Metadata
	var err error
	if m.Slug, err = stringField(fields, "slug", true); err != nil {
		return nil, err
	}
	if m.Title, err = stringField(fields, "title", true); err != nil {
		return nil, err
	}
	if m.Description, err = stringField(fields, "description", false); err != nil {
		return nil, err
	}
	return &m, nil
}

func stringField(fields map[string]json.RawMessage, name string, required bool) (string, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		if required {
			return "", htmldrop.Errorf(htmldrop.EANALYSIS, "analysis response missing %q", name)
		}
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "analysis response field %q is not a string", name)
	}
	s = strings.TrimSpace(s)
	if required && s == "" {
		return "", htmldrop.Errorf(htmldrop.EANALYSIS, "analysis response field %q is blank", name)
	}
	return s, nil
}

// Truncate shortens s to at most n runes. Longer text is cut at a word
// boundary when one falls in the last 30% and ends with "...".
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}

	cut := r[:n-3]
	for i := len(cut) - 1; i >= int(float64(len(cut))*0.7); i-- {
		if unicode.IsSpace(cut[i]) {
			cut = cut[:i]
			break
		}
	}
	out := strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return out + "..."
}

// Describe synthesizes a description from plain text: the first sentence
// longer than ten characters, else DefaultDescription. The result fits
// MaxDescriptionLength.
func Describe(text string) string {
	for _, line := range strings.Split(text, "\n") {
		for _, s := range sentences(line) {
			if len([]rune(s)) > minSentenceLength {
				return Truncate(s, htmldrop.MaxDescriptionLength)
			}
		}
	}
	return DefaultDescription
}

// sentences splits a line after '.', '!' or '?' followed by whitespace.
func sentences(line string) []string {
	var out []string
	r := []rune(line)
	start := 0
	for i := 0; i < len(r); i++ {
		if r[i] != '.' && r[i] != '!' && r[i] != '?' {
			continue
		}
		if i+1 < len(r) && !unicode.IsSpace(r[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(r[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(r[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
