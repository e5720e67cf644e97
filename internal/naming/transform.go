package naming

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/lestrrat-go/strftime"
	"github.com/psiborg/namedrop/internal/config"
)

// Transformer rewrites stems according to one RuleConfig. The timestamp
// pattern is compiled once, so a Transformer never fails per file.
type Transformer struct {
	rules  config.RuleConfig
	format *strftime.Strftime
}

// NewTransformer compiles the rules. An invalid timestamp pattern is a
// configuration error and is returned here, before any file is touched.
func NewTransformer(rules config.RuleConfig) (*Transformer, error) {
	t := &Transformer{rules: rules}
	if rules.CaseMode == config.CaseTimestamp {
		f, err := config.CompileTimestampFormat(rules.TimestampFormat)
		if err != nil {
			return nil, err
		}
		t.format = f
	}
	return t, nil
}

// Transform returns the candidate stem for stem. ts is used only in
// timestamp mode, where the original stem is discarded.
func (t *Transformer) Transform(stem string, ts time.Time) string {
	switch t.rules.CaseMode {
	case config.CaseLower:
		return strings.ToLower(stem)
	case config.CaseUpper:
		return strings.ToUpper(stem)
	case config.CaseTimestamp:
		return t.format.FormatString(ts)
	default:
		var minor config.WordSet
		if t.rules.UseMinorWords {
			minor = t.rules.MinorWords
		}
		return TitleCase(stem, minor)
	}
}

func isWordSep(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// TitleCase splits stem on '_', '-' and whitespace and rejoins the words with
// single spaces. Every word is capitalized except interior members of minor,
// which are lower-cased. A stem with no words is returned unchanged.
func TitleCase(stem string, minor config.WordSet) string {
	words := strings.FieldsFunc(stem, isWordSep)
	if len(words) == 0 {
		return stem
	}
	last := len(words) - 1
	for i, w := range words {
		lw := strings.ToLower(w)
		if i != 0 && i != last && minor.Has(lw) {
			words[i] = lw
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(w)
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(w[size:])
}
