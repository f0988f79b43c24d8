package analyze

import (
	"fmt"
	"strings"

	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/slug"
)

const basePrompt = `You generate publishing metadata for an HTML document.

Respond with a single JSON object and nothing else, with exactly these string fields:
- "slug": a short URL identifier, 3 to %d characters, lowercase letters, digits and single hyphens, starting and ending with a letter or digit.
- "title": a human-readable title of at most %d characters.
- "description": a one or two sentence summary of at most %d characters.

Base the metadata on the document's actual content. Do not invent facts.`

var typeGuidance = map[htmldrop.ContentType]string{
	htmldrop.ContentTechnical: "The document is technical. Prefer precise terminology and name the technology involved in the title.",
	htmldrop.ContentTutorial:  "The document is a tutorial. Phrase the title as what the reader will learn or build.",
	htmldrop.ContentCreative:  "The document is a creative work. Keep its tone and do not summarize it as an article.",
	htmldrop.ContentNews:      "The document is news. Lead the description with what happened.",
	htmldrop.ContentGeneral:   "Describe the document plainly.",
}

// SystemPrompt returns the system instruction for a content type.
func SystemPrompt(ct htmldrop.ContentType) string {
	guidance, ok := typeGuidance[ct]
	if !ok {
		guidance = typeGuidance[htmldrop.ContentGeneral]
	}
	return fmt.Sprintf(basePrompt, slug.MaxLength, htmldrop.MaxTitleLength, htmldrop.MaxDescriptionLength) + "\n\n" + guidance
}

// BuildUserContent wraps the document for the model, cutting it to
// maxChars runes.
func BuildUserContent(html string, maxChars int) string {
	if maxChars > 0 {
		if r := []rune(html); len(r) > maxChars {
			html = string(r[:maxChars])
		}
	}
	var sb strings.Builder
	sb.WriteString("<document>\n")
	sb.WriteString(html)
	sb.WriteString("\n</document>")
	return sb.String()
}
