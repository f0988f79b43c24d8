// Package slug turns arbitrary text into URL-safe post identifiers and
// checks candidate slugs against format rules and reserved words.
package slug

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Length limits for a valid slug.
const (
	MinLength = 3
	MaxLength = 80
)

// randomLength is the length of slugs produced by Random.
const randomLength = len("post-") + 6

// wordBoundaryRatio is the fraction of the truncated slug after which a
// trailing partial word is dropped instead of being cut.
const wordBoundaryRatio = 0.7

var (
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	separatorRe = regexp.MustCompile(`[\s_]+`)
	invalidRe   = regexp.MustCompile(`[^a-z0-9.~-]+`)
	hyphensRe   = regexp.MustCompile(`-{2,}`)
)

type options struct {
	maxLength int
}

// Option configures Normalize.
type Option func(*options)

// WithMaxLength sets the maximum slug length. Values are clamped so that
// a random "post-xxxxxx" slug still fits and MaxLength is never exceeded.
func WithMaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = min(max(n, randomLength), MaxLength)
	}
}

// Normalize converts text into a slug that always passes Validate.
//
// Tags are stripped, diacritics folded to ASCII, and the result is
// lowercased and hyphenated. Results shorter than MinLength are replaced by
// a random "post-xxxxxx" slug; reserved words get a "-post" suffix.
func Normalize(text string, opts ...Option) string {
	o := options{maxLength: MaxLength}
	for _, opt := range opts {
		opt(&o)
	}

	s := tagRe.ReplaceAllString(text, " ")
	s = html.UnescapeString(s)
	s = Fold(s)
	s = strings.ToLower(s)
	s = separatorRe.ReplaceAllString(s, "-")
	s = invalidRe.ReplaceAllString(s, "")
	// '.' and '~' are URL-safe but not slug characters; treat them as
	// word separators.
	s = strings.NewReplacer(".", "-", "~", "-").Replace(s)
	s = hyphensRe.ReplaceAllString(s, "-")
	s = trimNonAlnum(s)
	s = truncate(s, o.maxLength)

	if len(s) < MinLength {
		return Random()
	}
	if IsReserved(s) {
		s = withSuffix(s, "post", o.maxLength)
	}
	return s
}

// Random returns a slug of the form "post-xxxxxx".
func Random() string {
	return "post-" + randomSuffix(6)
}

// randomSuffix returns n lowercase hex characters.
func randomSuffix(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// truncate shortens s to at most n bytes. When the last hyphen falls in
// the final 30% of the cut, the partial word after it is dropped.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndexByte(cut, '-'); i >= int(float64(n)*wordBoundaryRatio) {
		cut = cut[:i]
	}
	return trimNonAlnum(cut)
}

// withSuffix appends "-suffix" to base, shortening base so the result fits
// within maxLength.
func withSuffix(base, suffix string, maxLength int) string {
	room := maxLength - len(suffix) - 1
	if room < MinLength {
		return Random()
	}
	if len(base) > room {
		base = trimNonAlnum(base[:room])
	}
	if base == "" {
		return Random()
	}
	return base + "-" + suffix
}

func trimNonAlnum(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !isAlnum(r)
	})
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Fold replaces diacritics and ligatures with ASCII equivalents.
// The explicit table covers letters Unicode does not decompose (ß, ø, æ,
// ł, ...); anything else is decomposed and stripped of combining marks.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := foldTable[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, b.String())
	if err != nil {
		return b.String()
	}
	return out
}

var foldTable = map[rune]string{
	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Ä': "A", 'Å': "A", 'Ā': "A", 'Ą': "A",
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a", 'ā': "a", 'ą': "a",
	'Æ': "AE", 'æ': "ae", 'Ç': "C", 'ç': "c", 'Ć': "C", 'ć': "c", 'Č': "C", 'č': "c",
	'Ď': "D", 'ď': "d", 'Đ': "D", 'đ': "d", 'Ð': "D", 'ð': "d",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E", 'Ē': "E", 'Ę': "E", 'Ě': "E",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ē': "e", 'ę': "e", 'ě': "e",
	'Ğ': "G", 'ğ': "g", 'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I", 'İ': "I",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ı': "i",
	'Ł': "L", 'ł': "l", 'Ñ': "N", 'ñ': "n", 'Ń': "N", 'ń': "n", 'Ň': "N", 'ň': "n",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ö': "O", 'Ø': "O", 'Ő': "O",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o", 'ő': "o",
	'Œ': "OE", 'œ': "oe", 'Ř': "R", 'ř': "r", 'Ś': "S", 'ś': "s", 'Š': "S", 'š': "s",
	'Ş': "S", 'ş': "s", 'ß': "ss", 'Ť': "T", 'ť': "t", 'Þ': "TH", 'þ': "th",
	'Ù': "U", 'Ú': "U", 'Û': "U", 'Ü': "U", 'Ů': "U", 'Ű': "U",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u", 'ů': "u", 'ű': "u",
	'Ý': "Y", 'Ÿ': "Y", 'ý': "y", 'ÿ': "y", 'Ź': "Z", 'ź': "z", 'Ż': "Z", 'ż': "z",
	'Ž': "Z", 'ž': "z",
}
