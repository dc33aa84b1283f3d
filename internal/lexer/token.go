package lexer

import "fmt"

// Span is a half-open character interval [Start, End) into a specific
// source string. All diagnostic positions in this module are spans.
type Span struct {
	Start int
	End   int
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Token is an immutable lexical token: a named kind, its literal text,
// and the span it occupies in the source the matcher was started on.
type Token struct {
	Kind string
	Text string
	Span Span
}

// KindUnknown is the synthetic kind emitted when the combined regex
// fails to match but the cursor is not at end of input.
const KindUnknown = "unknown"

func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, [%d,%d)}", t.Kind, t.Text, t.Span.Start, t.Span.End)
}
