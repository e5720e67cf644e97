package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/lestrrat-go/strftime"
	"gopkg.in/yaml.v3"
)

// Configuration errors. They are raised when rules are edited or validated,
// never per file.
var (
	ErrInvalidTimestampFormat = errors.New("invalid timestamp format")
	ErrInvalidCaseMode        = errors.New("invalid case mode (use 'title', 'lower', 'upper' or 'timestamp')")
)

// CaseMode selects how a file stem is rewritten.
type CaseMode string

const (
	CaseTitle     CaseMode = "title"     // Capitalize words, minor words optional (default).
	CaseLower     CaseMode = "lower"     // Lower-case the whole stem.
	CaseUpper     CaseMode = "upper"     // Upper-case the whole stem.
	CaseTimestamp CaseMode = "timestamp" // Replace the stem with a formatted timestamp.
)

// ParseCaseMode maps user input to a CaseMode. "datetime" is accepted as an
// alias for timestamp.
func ParseCaseMode(s string) (CaseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return CaseTitle, nil
	case "lower":
		return CaseLower, nil
	case "upper":
		return CaseUpper, nil
	case "timestamp", "datetime":
		return CaseTimestamp, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCaseMode, s)
}

// UnmarshalYAML accepts the same spellings as [ParseCaseMode].
func (m *CaseMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseCaseMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// DefaultTimestampFormat is the strftime pattern used by timestamp mode.
const DefaultTimestampFormat = "%Y%m%d-%H%M%S"

var defaultMinorWords = []string{
	"a", "an", "the",
	"and", "but", "or", "nor", "for", "yet", "so",
	"as", "at", "by", "from", "in", "into", "of", "off", "on",
	"onto", "out", "over", "to", "up", "via", "with",
	"vs",
}

const defaultSpecialChars = `<>:"/\|?*`

// WordSet is a set of lower-cased words.
type WordSet map[string]struct{}

// NewWordSet builds a WordSet from words, trimming and lower-casing each and
// dropping blanks.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Has reports whether word is a member. word must already be lower-cased.
func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the members in lexical order.
func (s WordSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// UnmarshalYAML reads a sequence of words and normalizes them.
func (s *WordSet) UnmarshalYAML(node *yaml.Node) error {
	var words []string
	if err := node.Decode(&words); err != nil {
		return err
	}
	*s = NewWordSet(words...)
	return nil
}

// CharSet is a set of characters replaced by '_' in special-character mode.
// Sets built by [NewCharSet] always contain the control characters 0x00-0x1F.
type CharSet map[rune]struct{}

// NewCharSet builds a CharSet from every rune of every entry, then adds the
// 32 control characters.
func NewCharSet(entries ...string) CharSet {
	s := make(CharSet, 32+len(entries))
	for _, e := range entries {
		for _, r := range e {
			s[r] = struct{}{}
		}
	}
	for r := rune(0); r < 0x20; r++ {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether r is a member.
func (s CharSet) Has(r rune) bool {
	_, ok := s[r]
	return ok
}

// Printable returns the members at or above 0x20 in code point order.
func (s CharSet) Printable() []string {
	var rs []rune
	for r := range s {
		if r >= 0x20 {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// UnmarshalYAML reads a sequence of strings. Control characters are always
// re-added.
func (s *CharSet) UnmarshalYAML(node *yaml.Node) error {
	var entries []string
	if err := node.Decode(&entries); err != nil {
		return err
	}
	*s = NewCharSet(entries...)
	return nil
}

// RuleConfig is the complete set of renaming rules for one run. It is a plain
// value: the transformer, sanitizer and planner read it and never mutate it.
type RuleConfig struct {
	CaseMode            CaseMode `yaml:"case_mode"`
	UseMinorWords       bool     `yaml:"use_minor_words"`
	MinorWords          WordSet  `yaml:"minor_words"`
	ReplaceSpaces       bool     `yaml:"replace_spaces"`       // Lower/Upper only.
	StripPunctuation    bool     `yaml:"strip_punctuation"`    // Lower/Upper only.
	ReplaceSpecialChars bool     `yaml:"replace_special_chars"` // All modes.
	SpecialChars        CharSet  `yaml:"special_chars"`
	TimestampFormat     string   `yaml:"timestamp_format"`
}

// DefaultRules returns the rules NameDrop starts with: title case with minor
// words, no sanitization toggles, and the default timestamp pattern.
func DefaultRules() RuleConfig {
	return RuleConfig{
		CaseMode:        CaseTitle,
		UseMinorWords:   true,
		MinorWords:      NewWordSet(defaultMinorWords...),
		SpecialChars:    NewCharSet(defaultSpecialChars),
		TimestampFormat: DefaultTimestampFormat,
	}
}

// SetMinorWords replaces the minor-word list. Words are lower-cased.
func (r *RuleConfig) SetMinorWords(words []string) {
	r.MinorWords = NewWordSet(words...)
}

// ResetMinorWords restores the default minor-word list.
func (r *RuleConfig) ResetMinorWords() {
	r.MinorWords = NewWordSet(defaultMinorWords...)
}

// SetSpecialChars replaces the special-character list. Control characters
// are re-added regardless of the input.
func (r *RuleConfig) SetSpecialChars(entries []string) {
	r.SpecialChars = NewCharSet(entries...)
}

// ResetSpecialChars restores the default special-character list.
func (r *RuleConfig) ResetSpecialChars() {
	r.SpecialChars = NewCharSet(defaultSpecialChars)
}

// SetTimestampFormat accepts pattern only if a trial formatting succeeds. On
// failure the previous pattern is kept.
func (r *RuleConfig) SetTimestampFormat(pattern string) error {
	if _, err := CompileTimestampFormat(pattern); err != nil {
		return err
	}
	r.TimestampFormat = pattern
	return nil
}

// ResetTimestampFormat restores [DefaultTimestampFormat].
func (r *RuleConfig) ResetTimestampFormat() {
	r.TimestampFormat = DefaultTimestampFormat
}

// CompileTimestampFormat compiles a strftime pattern and trial-formats the
// current time with it.
func CompileTimestampFormat(pattern string) (*strftime.Strftime, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: pattern is empty", ErrInvalidTimestampFormat)
	}
	f, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimestampFormat, pattern, err)
	}
	if f.FormatString(time.Now()) == "" {
		return nil, fmt.Errorf("%w %q: produces an empty name", ErrInvalidTimestampFormat, pattern)
	}
	return f, nil
}

// Validate checks the case mode and the timestamp pattern. The special
// character set is rebuilt so it always holds the control characters.
func (r *RuleConfig) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.CaseMode, validation.Required,
			validation.In(CaseTitle, CaseLower, CaseUpper, CaseTimestamp).Error(ErrInvalidCaseMode.Error())),
	); err != nil {
		return err
	}
	r.SpecialChars = NewCharSet(r.SpecialChars.Printable()...)
	_, err := CompileTimestampFormat(r.TimestampFormat)
	return err
}

// Summary is a one-line description of the active rules for logs.
func (r *RuleConfig) Summary() string {
	var b strings.Builder
	b.WriteString("mode=" + string(r.CaseMode))
	switch r.CaseMode {
	case CaseTitle:
		fmt.Fprintf(&b, " minor-words=%t(%d)", r.UseMinorWords, len(r.MinorWords))
	case CaseLower, CaseUpper:
		fmt.Fprintf(&b, " replace-spaces=%t strip-punctuation=%t", r.ReplaceSpaces, r.StripPunctuation)
	case CaseTimestamp:
		b.WriteString(" format=" + r.TimestampFormat)
	}
	fmt.Fprintf(&b, " replace-special=%t(%d)", r.ReplaceSpecialChars, len(r.SpecialChars))
	return b.String()
}
