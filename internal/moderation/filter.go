// Package moderation screens chat messages against a banned word list.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Filter matches banned words inside free text. Matching runs over a
// normalized view (lower-cased, leet speak simplified, punctuation and
// spacing stripped) so trivial evasion like "b a d" or "b4d" is caught.
type Filter struct {
	machine *goahocorasick.Machine
}

// New builds the Aho-Corasick automaton from the banned word list. An empty
// list yields a filter that matches nothing.
func New(words []string) (*Filter, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		p := normalizeRunes([]rune(w))
		if len(p) > 0 {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return &Filter{}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{machine: m}, nil
}

// Match reports whether the text contains banned content.
func (f *Filter) Match(text string) bool {
	if f == nil || f.machine == nil {
		return false
	}
	norm := normalizeRunes([]rune(text))
	if len(norm) == 0 {
		return false
	}
	return len(f.machine.MultiPatternSearch(norm, true)) > 0
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common leet speak characters back to their standard
// alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
