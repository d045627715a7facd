// Package text provides light text normalization applied to segments before
// they reach the synthesis engine.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

const whitespaceRegexPattern = `\s+`

// Punctuation and formatting constants.
const (
	emDash       = "—"
	enDash       = "–"
	figureDash   = "‒"
	ellipsisChar = "…"
	ellipsis     = "..."
	dashSpaced   = " - "
)

// Normalizer cleans segment text for synthesis. It never alters semantic
// content: only whitespace, control characters, and typographic variants
// the engine reads poorly.
type Normalizer struct {
	whitespacePattern *regexp.Regexp
	dashReplacer      *strings.Replacer
}

// NewNormalizer creates a normalizer with compiled patterns and replacers.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		whitespacePattern: regexp.MustCompile(whitespaceRegexPattern),
		dashReplacer: strings.NewReplacer(
			emDash, dashSpaced,
			enDash, dashSpaced,
			figureDash, dashSpaced,
			ellipsisChar, ellipsis,
		),
	}
}

// Normalize strips control characters, normalizes typographic dashes and
// ellipses, and collapses whitespace runs into single spaces.
func (n *Normalizer) Normalize(input string) string {
	if input == "" {
		return input
	}

	cleaned := strings.Map(dropControlRunes, input)
	cleaned = n.dashReplacer.Replace(cleaned)
	cleaned = n.whitespacePattern.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}

// dropControlRunes maps control characters to spaces so word boundaries
// survive, leaving tabs and newlines to the whitespace collapse.
func dropControlRunes(r rune) rune {
	if unicode.IsControl(r) {
		return ' '
	}

	return r
}
