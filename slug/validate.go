package slug

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/htmldrop"
)

// Rule identifies a slug format rule.
type Rule string

// Rule constants reported by Validate.
const (
	RuleEmpty              Rule = "empty"
	RuleTooShort           Rule = "too_short"
	RuleTooLong            Rule = "too_long"
	RuleCharacters         Rule = "characters"
	RuleBoundary           Rule = "boundary"
	RuleConsecutiveHyphens Rule = "consecutive_hyphens"
	RuleReserved           Rule = "reserved"
)

// Violation describes one broken rule.
type Violation struct {
	Rule    Rule
	Message string
}

var allowedRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// Validate returns every rule s breaks. A valid slug yields no violations.
func Validate(s string) []Violation {
	if s == "" {
		return []Violation{{RuleEmpty, "slug is empty"}}
	}

	var vs []Violation
	if len(s) < MinLength {
		vs = append(vs, Violation{RuleTooShort, fmt.Sprintf("slug must be at least %d characters", MinLength)})
	}
	if len(s) > MaxLength {
		vs = append(vs, Violation{RuleTooLong, fmt.Sprintf("slug must be at most %d characters", MaxLength)})
	}
	if !allowedRe.MatchString(s) {
		vs = append(vs, Violation{RuleCharacters, "slug may only contain lowercase letters, digits and hyphens"})
	}
	if !isAlnum(rune(s[0])) || !isAlnum(rune(s[len(s)-1])) {
		vs = append(vs, Violation{RuleBoundary, "slug must start and end with a letter or digit"})
	}
	if strings.Contains(s, "--") {
		vs = append(vs, Violation{RuleConsecutiveHyphens, "slug must not contain consecutive hyphens"})
	}
	if IsReserved(s) {
		vs = append(vs, Violation{RuleReserved, fmt.Sprintf("slug %q is reserved", s)})
	}
	return vs
}

// Check returns an EINVALID error describing the violations of s, or nil.
func Check(s string) error {
	vs := Validate(s)
	if len(vs) == 0 {
		return nil
	}
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Message
	}
	return htmldrop.Errorf(htmldrop.EINVALID, "invalid slug %q: %s", s, strings.Join(msgs, "; "))
}
