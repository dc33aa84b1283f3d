package lexer

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Pattern is one named alternative in a Matcher's pattern set. Patterns
// are tried in the order given; the first one that matches at the
// current position wins (no longest-match tie-breaking).
type Pattern struct {
	Name    string
	Pattern string
}

// Matcher is a regex-set lexer: given an ordered set of named patterns,
// it emits a stream of tokens at successive cursor positions. It is
// value-typed in the sense that constructing one is cheap once built,
// and rebinding it to a new source via Start is O(1) aside from
// resetting the cursor — there is no per-call recompilation.
type Matcher struct {
	names    []string
	combined *regexp.Regexp
	src      string
	pos      int
}

// NewMatcher compiles an ordered set of named patterns into a single
// combined regular expression. Pattern names must be valid Go regexp
// group names (letters, digits, underscore).
func NewMatcher(patterns []Pattern) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("lexer: matcher requires at least one pattern")
	}
	combinedSrc := "^(?:"
	for i, p := range patterns {
		if i > 0 {
			combinedSrc += "|"
		}
		combinedSrc += fmt.Sprintf("(?P<%s>%s)", p.Name, p.Pattern)
	}
	combinedSrc += ")"

	re, err := regexp.Compile(combinedSrc)
	if err != nil {
		return nil, fmt.Errorf("lexer: compiling pattern set: %w", err)
	}

	return &Matcher{names: re.SubexpNames(), combined: re}, nil
}

// Start binds the matcher to a source string at a starting position.
func (m *Matcher) Start(src string, pos int) {
	m.src = src
	m.pos = pos
}

// Position gets the current cursor, or sets it when pos is provided.
func (m *Matcher) Position(pos ...int) int {
	if len(pos) > 0 {
		m.pos = pos[0]
	}
	return m.pos
}

// Next advances the matcher and returns the next token, or nil at end
// of input. If the combined regex fails to match but the cursor is not
// at end of input, a synthetic "unknown" token spanning exactly one
// character is returned so the outer parser can recover.
func (m *Matcher) Next() *Token {
	if m.pos >= len(m.src) {
		return nil
	}

	subject := m.src[m.pos:]
	idx := m.combined.FindStringSubmatchIndex(subject)
	if idx == nil {
		return m.emitUnknown()
	}

	start, end := idx[0], idx[1]
	if start != 0 {
		// "^" anchors the combined pattern, so this should never happen;
		// treat it defensively as no match rather than trust a stray offset.
		return m.emitUnknown()
	}

	kind := ""
	for i := 1; i < len(m.names) && i*2+1 < len(idx); i++ {
		if idx[i*2] != -1 && m.names[i] != "" {
			kind = m.names[i]
			break
		}
	}
	if kind == "" {
		return m.emitUnknown()
	}

	if end == start {
		// A pattern matched the empty string; still make progress.
		return m.emitUnknown()
	}

	text := subject[start:end]
	tok := &Token{
		Kind: kind,
		Text: text,
		Span: Span{Start: m.pos + start, End: m.pos + end},
	}
	m.pos += end
	return tok
}

func (m *Matcher) emitUnknown() *Token {
	r, size := utf8.DecodeRuneInString(m.src[m.pos:])
	if r == utf8.RuneError && size <= 1 {
		size = 1
	}
	tok := &Token{
		Kind: KindUnknown,
		Text: m.src[m.pos : m.pos+size],
		Span: Span{Start: m.pos, End: m.pos + size},
	}
	m.pos += size
	return tok
}
