package analyze

import (
	"strings"
	"unicode"

	"github.com/fwojciec/htmldrop"
)

// minClassifyScore is the number of keyword hits needed before content is
// classified as anything other than general.
const minClassifyScore = 2

// keywords lists indicative words and phrases per content type. Order
// matters: the first type wins a tie.
var keywords = []struct {
	Type  htmldrop.ContentType
	Words []string
}{
	{htmldrop.ContentTutorial, []string{
		"tutorial", "step", "steps", "how to", "guide", "walkthrough",
		"first", "next", "then", "finally", "beginner", "learn",
		"install", "example", "prerequisites", "let's",
	}},
	{htmldrop.ContentTechnical, []string{
		"api", "function", "code", "server", "database", "algorithm",
		"configuration", "deploy", "library", "framework", "http",
		"json", "query", "compile", "runtime", "kubernetes", "docker",
		"javascript", "python", "golang", "css", "html", "endpoint",
	}},
	{htmldrop.ContentNews, []string{
		"announced", "announcement", "today", "yesterday", "reported",
		"breaking", "update", "released", "release", "launch", "press",
		"according to", "officials", "statement",
	}},
	{htmldrop.ContentCreative, []string{
		"poem", "poetry", "story", "chapter", "once upon", "verse",
		"dream", "heart", "love", "night", "fiction", "character",
		"art", "imagine", "sky",
	}},
}

// Classify assigns a coarse content type to plain text by counting
// keyword hits. Text without a clear signal is general.
func Classify(text string) htmldrop.ContentType {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	if len(words) == 0 {
		return htmldrop.ContentGeneral
	}
	padded := " " + strings.Join(words, " ") + " "

	best, bestScore := htmldrop.ContentGeneral, 0
	for _, k := range keywords {
		score := 0
		for _, w := range k.Words {
			score += strings.Count(padded, " "+w+" ")
		}
		if score > bestScore {
			best, bestScore = k.Type, score
		}
	}
	if bestScore < minClassifyScore {
		return htmldrop.ContentGeneral
	}
	return best
}
