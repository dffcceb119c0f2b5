package resolve

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes accented letters and drops the combining marks so
// "Café" compares equal to "Cafe".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRunRe = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a project name for comparison by:
//  1. Coercing the value to a string (nil becomes "")
//  2. Folding accented letters to their ASCII base
//  3. Lower-casing
//  4. Removing every character outside [a-z0-9] and whitespace
//  5. Collapsing whitespace runs into a single space and trimming
//
// The result is only used for matching, never for display.
func NormalizeName(name any) string {
	s := toString(name)
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(foldAccents, s); err == nil {
		s = folded
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
