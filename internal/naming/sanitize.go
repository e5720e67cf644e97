package naming

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/psiborg/namedrop/internal/config"
)

var reUnderscoreRun = regexp.MustCompile(`_{2,}`)

// keptByStrip reports whether punctuation stripping keeps r. Alphanumerics
// are ASCII only, so accented letters count as punctuation. Whitespace is
// Unicode-aware, including the U+001C..U+001F separators.
func keptByStrip(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	case r >= 0x1c && r <= 0x1f:
		return true
	}
	return unicode.IsSpace(r)
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if keptByStrip(r) {
			return r
		}
		return -1
	}, s)
}

// Sanitize makes a candidate stem filesystem-safe. The steps run in a fixed
// order:
//
//  1. strip punctuation (lower/upper modes, when enabled)
//  2. replace each space with '_' (lower/upper modes, when enabled)
//  3. replace special characters with '_' (any mode, when enabled)
//  4. collapse runs of '_' and trim '_' from both ends
//
// Sanitize is idempotent.
func Sanitize(stem string, rules config.RuleConfig) string {
	plainCase := rules.CaseMode == config.CaseLower || rules.CaseMode == config.CaseUpper
	if plainCase && rules.StripPunctuation {
		stem = stripPunctuation(stem)
	}
	if plainCase && rules.ReplaceSpaces {
		stem = strings.ReplaceAll(stem, " ", "_")
	}
	if rules.ReplaceSpecialChars {
		stem = strings.Map(func(r rune) rune {
			if rules.SpecialChars.Has(r) {
				return '_'
			}
			return r
		}, stem)
	}
	stem = reUnderscoreRun.ReplaceAllString(stem, "_")
	return strings.Trim(stem, "_")
}
