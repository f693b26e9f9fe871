package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// annotationPattern matches parenthetical, bracketed and braced annotations
	// such as "(iPhone)" or "[Host]".
	annotationPattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|\{[^}]*\}`)
	// trailingCodePattern matches "#123" tags and bare numeric codes at the end of a label.
	trailingCodePattern = regexp.MustCompile(`(?:\s*#\s*\d+|\s+\d+)+\s*$`)
	// possessivePattern matches a possessive suffix ("khan's", "khan’s").
	possessivePattern = regexp.MustCompile(`['’]s\b`)
)

// Normalizer canonicalizes raw labels into comparable keys. It is safe for
// concurrent use once constructed.
type Normalizer struct {
	deviceWords map[string]struct{}
	aliases     map[string]string
}

// New builds a Normalizer from the provided vocabulary. Entries are folded the
// same way labels are, so "iPhone" and "iphone" are equivalent device words.
func New(vocab Vocabulary) *Normalizer {
	n := &Normalizer{
		deviceWords: make(map[string]struct{}, len(vocab.DeviceWords)),
		aliases:     make(map[string]string, len(vocab.Aliases)),
	}
	for _, word := range vocab.DeviceWords {
		word = foldWord(word)
		if word == "" {
			continue
		}
		n.deviceWords[word] = struct{}{}
	}
	for alias, canonical := range vocab.Aliases {
		alias = foldWord(alias)
		canonical = foldWord(canonical)
		if alias == "" || canonical == "" || alias == canonical {
			continue
		}
		n.aliases[alias] = canonical
	}
	return n
}

// NewDefault returns a Normalizer using DefaultVocabulary.
func NewDefault() *Normalizer {
	return New(DefaultVocabulary())
}

// Normalize converts a raw label into its normalized key. The result contains
// lowercase letter tokens separated by single spaces and may be empty.
func (n *Normalizer) Normalize(raw string) string {
	tokens := n.tokens(raw)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, " ")
}

// Tokens returns the normalized tokens of raw in order.
func (n *Normalizer) Tokens(raw string) []string {
	return n.tokens(raw)
}

// IsGeneric reports whether a label is too unspecific to attribute to a person:
// empty after normalization, two characters or fewer, or nothing but device
// words. Purely numeric labels normalize to the empty key.
func (n *Normalizer) IsGeneric(raw string) bool {
	key := n.Normalize(raw)
	return key == "" || utf8.RuneCountInString(key) <= 2
}

// NamesMatch normalizes both labels and applies Match.
func (n *Normalizer) NamesMatch(a, b string) bool {
	return Match(n.Normalize(a), n.Normalize(b))
}

func (n *Normalizer) tokens(raw string) []string {
	cleaned := clean(raw)
	if cleaned == "" {
		return nil
	}
	fields := strings.Fields(cleaned)
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, device := n.deviceWords[field]; device {
			continue
		}
		if canonical, ok := n.aliases[field]; ok {
			field = canonical
		}
		out = append(out, field)
	}
	return out
}

// clean applies every vocabulary-independent step: case and diacritic folding,
// annotation, tag and possessive stripping, and removal of non-letters.
func clean(raw string) string {
	s := fold(raw)
	if s == "" {
		return ""
	}
	s = annotationPattern.ReplaceAllString(s, " ")
	s = trailingCodePattern.ReplaceAllString(s, "")
	s = possessivePattern.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

func foldWord(word string) string {
	return strings.Join(strings.Fields(clean(word)), "")
}
