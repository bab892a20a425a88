// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sentiment

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// normalize composes to NFC and lower-cases with Vietnamese rules so
// "Tuyệt Vời" typed with combining marks matches the lexicon entry.
func normalize(text string) string {
	// Casers carry state and must not be shared across goroutines.
	lower := cases.Lower(language.Vietnamese)
	return norm.NFC.String(lower.String(norm.NFC.String(text)))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '\''
}

func isClauseBreak(r rune) bool {
	switch r {
	case '.', '!', '?', ';', ',', ':', '\n', '…':
		return true
	}
	return false
}

// words splits s on anything that is not a letter, digit, mark or
// apostrophe. Surrounding apostrophes are dropped.
func words(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return !isWordRune(r) })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'"); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// segments splits normalized text at sentence and clause punctuation and
// tokenizes each piece. Empty pieces are dropped.
func segments(normalized string) [][]string {
	var out [][]string
	for _, piece := range strings.FieldsFunc(normalized, isClauseBreak) {
		if toks := words(piece); len(toks) > 0 {
			out = append(out, toks)
		}
	}
	return out
}

// phrase is a lexicon entry as a token sequence.
type phrase struct {
	words []string
	value int
}

// matcher finds the longest lexicon phrase starting at a token position.
type matcher struct {
	byFirst map[string][]phrase
}

func newMatcher(entries map[string]int) *matcher {
	m := &matcher{byFirst: make(map[string][]phrase, len(entries))}
	for text, value := range entries {
		toks := words(normalize(text))
		if len(toks) == 0 {
			continue
		}
		m.byFirst[toks[0]] = append(m.byFirst[toks[0]], phrase{words: toks, value: value})
	}
	for _, list := range m.byFirst {
		// Longest first; ties ordered by text so matching is deterministic.
		slices.SortFunc(list, func(a, b phrase) int {
			if d := len(b.words) - len(a.words); d != 0 {
				return d
			}
			return strings.Compare(strings.Join(a.words, " "), strings.Join(b.words, " "))
		})
	}
	return m
}

// at returns the longest phrase matching tokens[i:].
func (m *matcher) at(tokens []string, i int) (phrase, bool) {
	for _, p := range m.byFirst[tokens[i]] {
		if i+len(p.words) > len(tokens) {
			continue
		}
		ok := true
		for k, w := range p.words {
			if tokens[i+k] != w {
				ok = false
				break
			}
		}
		if ok {
			return p, true
		}
	}
	return phrase{}, false
}

// each calls fn for every non-overlapping match, scanning left to right.
func (m *matcher) each(tokens []string, fn func(p phrase)) {
	for i := 0; i < len(tokens); {
		if p, ok := m.at(tokens, i); ok {
			fn(p)
			i += len(p.words)
			continue
		}
		i++
	}
}

// splitAt breaks tokens into runs separated by matches of m. The matched
// tokens are dropped.
func (m *matcher) splitAt(tokens []string) [][]string {
	var out [][]string
	start := 0
	for i := 0; i < len(tokens); {
		if p, ok := m.at(tokens, i); ok {
			if i > start {
				out = append(out, tokens[start:i])
			}
			i += len(p.words)
			start = i
			continue
		}
		i++
	}
	if start < len(tokens) {
		out = append(out, tokens[start:])
	}
	return out
}

func set(words []string, value int) map[string]int {
	m := make(map[string]int, len(words))
	for _, w := range words {
		m[w] = value
	}
	return m
}
