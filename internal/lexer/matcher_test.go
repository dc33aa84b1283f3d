package lexer

import "testing"

func wgslPatterns() []Pattern {
	return []Pattern{
		{Name: "ws", Pattern: `[ \t\r\n]+`},
		{Name: "ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "number", Pattern: `[0-9]+`},
		{Name: "symbol", Pattern: `[(){}\[\]@;,:]`},
	}
}

func TestMatcherOrderedPriority(t *testing.T) {
	// "fn" should lex as an identifier here since there is no keyword
	// pattern ahead of "ident" in this set; this checks first-match
	// priority, not longest match.
	m, err := NewMatcher(wgslPatterns())
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	m.Start("fn foo()", 0)

	var got []Token
	for {
		tok := m.Next()
		if tok == nil {
			break
		}
		got = append(got, *tok)
	}

	want := []string{"fn", " ", "foo", "(", ")"}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("token %d: got %q, want %q", i, got[i].Text, w)
		}
	}
}

func TestMatcherUnknownRecovers(t *testing.T) {
	m, err := NewMatcher(wgslPatterns())
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	m.Start("a$b", 0)

	var kinds []string
	for {
		tok := m.Next()
		if tok == nil {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []string{"ident", "unknown", "ident"}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kind %d: got %q want %q", i, kinds[i], want[i])
		}
	}
}

func TestMatcherEndOfInput(t *testing.T) {
	m, err := NewMatcher(wgslPatterns())
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	m.Start("", 0)
	if tok := m.Next(); tok != nil {
		t.Fatalf("expected nil at end of input, got %v", tok)
	}
}

func TestMatcherSpansAreByteOffsetsIntoSource(t *testing.T) {
	m, err := NewMatcher(wgslPatterns())
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	const src = "foo(bar)"
	m.Start(src, 0)
	tok := m.Next()
	if tok == nil || tok.Kind != "ident" {
		t.Fatalf("expected ident token, got %v", tok)
	}
	if src[tok.Span.Start:tok.Span.End] != tok.Text {
		t.Fatalf("span %v does not index back to text %q", tok.Span, tok.Text)
	}
}

func TestMatcherStartReanchorsInPlace(t *testing.T) {
	m, err := NewMatcher(wgslPatterns())
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	m.Start("foo bar", 4)
	tok := m.Next()
	if tok == nil || tok.Text != "bar" {
		t.Fatalf("expected 'bar' starting at 4, got %v", tok)
	}
}
