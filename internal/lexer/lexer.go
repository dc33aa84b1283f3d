package lexer

// frame is one entry in the lexer's matcher/ignore stack.
type frame struct {
	matcher *Matcher
	ignore  map[string]bool
}

// Lexer wraps a token Matcher with an ignore set (kinds suppressed from
// Next, typically whitespace and comments) and a stack of
// matcher/ignore frames so grammars can scope a different token
// vocabulary over a sub-region of the input (see WithMatcher).
type Lexer struct {
	src    string
	frames []frame
}

// New creates a Lexer over src, starting with matcher active from
// position 0 and the given ignore set.
func New(src string, matcher *Matcher, ignore map[string]bool) *Lexer {
	if ignore == nil {
		ignore = map[string]bool{}
	}
	matcher.Start(src, 0)
	return &Lexer{
		src:    src,
		frames: []frame{{matcher: matcher, ignore: ignore}},
	}
}

func (l *Lexer) top() *frame {
	return &l.frames[len(l.frames)-1]
}

// Next emits the next non-ignored token, or nil at end of input.
func (l *Lexer) Next() *Token {
	top := l.top()
	for {
		tok := top.matcher.Next()
		if tok == nil {
			return nil
		}
		if top.ignore[tok.Kind] {
			continue
		}
		return tok
	}
}

// Position gets the current cursor, or sets it when pos is provided.
// Position is always a valid index into the source.
func (l *Lexer) Position(pos ...int) int {
	return l.top().matcher.Position(pos...)
}

// Eof reports whether the active matcher is at the end of input.
func (l *Lexer) Eof() bool {
	return l.Position() >= len(l.src)
}

// WithMatcher scopes acquisition of a child matcher: the current
// matcher is pushed, the new matcher is started at the current
// position, fn runs, and on all exit paths (including panics) the
// outer matcher is restored and re-aligned to the position the inner
// matcher left.
func (l *Lexer) WithMatcher(newMatcher *Matcher, fn func()) {
	pos := l.Position()
	outer := l.top()
	newMatcher.Start(l.src, pos)
	l.frames = append(l.frames, frame{matcher: newMatcher, ignore: outer.ignore})
	defer func() {
		innerPos := l.top().matcher.Position()
		l.frames = l.frames[:len(l.frames)-1]
		l.top().matcher.Position(innerPos)
		_ = outer
	}()
	fn()
}

// WithIgnore scopes acquisition of a new ignore set, leaving the
// matcher untouched. Restoration follows the same push/run/pop shape
// as WithMatcher.
func (l *Lexer) WithIgnore(newIgnore map[string]bool, fn func()) {
	outer := l.top()
	l.frames = append(l.frames, frame{matcher: outer.matcher, ignore: newIgnore})
	defer func() {
		l.frames = l.frames[:len(l.frames)-1]
	}()
	fn()
}
