package preprocess

import (
	"strings"
	"testing"

	"github.com/sunholo/wgsllink/internal/diag"
)

// TestS5DisabledRegionBlanked is spec.md §8 scenario S5.
func TestS5DisabledRegionBlanked(t *testing.T) {
	src := "#if foo\nfn f(){}\n#endif"
	res := Run("s5.wgsl", src, Params{"foo": false})

	if len(res.Text) != len(src) {
		t.Fatalf("expected preprocessor to preserve length, got %d want %d", len(res.Text), len(src))
	}
	lines := strings.Split(res.Text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if strings.TrimSpace(lines[0]) != "" || strings.TrimSpace(lines[1]) != "" || strings.TrimSpace(lines[2]) != "" {
		t.Fatalf("expected every line blanked, got %q", lines)
	}
	if strings.Contains(res.Text, "fn") {
		t.Fatalf("expected fn text removed from output: %q", res.Text)
	}
}

func TestEnabledRegionPassesThrough(t *testing.T) {
	src := "#if foo\nfn f(){}\n#endif"
	res := Run("t.wgsl", src, Params{"foo": true})
	lines := strings.Split(res.Text, "\n")
	if strings.TrimSpace(lines[1]) != "fn f(){}" {
		t.Fatalf("expected enabled region preserved, got %q", lines[1])
	}
	// Directive lines are always blanked, matched or not.
	if strings.TrimSpace(lines[0]) != "" || strings.TrimSpace(lines[2]) != "" {
		t.Fatalf("expected directive lines blanked, got %q", lines)
	}
}

func TestElseBranch(t *testing.T) {
	src := "#if foo\na\n#else\nb\n#endif"
	res := Run("t.wgsl", src, Params{"foo": false})
	lines := strings.Split(res.Text, "\n")
	if strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected disabled #if branch blanked, got %q", lines[1])
	}
	if strings.TrimSpace(lines[3]) != "b" {
		t.Fatalf("expected #else branch preserved, got %q", lines[3])
	}
}

func TestNegatedIdentifier(t *testing.T) {
	src := "#if !foo\na\n#endif"
	res := Run("t.wgsl", src, Params{"foo": true})
	lines := strings.Split(res.Text, "\n")
	if strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected !foo with foo=true to disable the region, got %q", lines[1])
	}
}

func TestConstantExpressions(t *testing.T) {
	src := "#if true\na\n#endif\n#if false\nb\n#endif"
	res := Run("t.wgsl", src, Params{})
	lines := strings.Split(res.Text, "\n")
	if strings.TrimSpace(lines[1]) != "a" {
		t.Fatalf("expected #if true branch preserved, got %q", lines[1])
	}
	if strings.TrimSpace(lines[3]) != "" {
		t.Fatalf("expected #if false branch blanked, got %q", lines[3])
	}
}

func TestNestedIf(t *testing.T) {
	src := "#if outer\n#if inner\na\n#endif\n#endif"
	res := Run("t.wgsl", src, Params{"outer": true, "inner": false})
	lines := strings.Split(res.Text, "\n")
	if strings.TrimSpace(lines[2]) != "" {
		t.Fatalf("expected inner-disabled line blanked even though outer is active, got %q", lines[2])
	}

	res2 := Run("t.wgsl", src, Params{"outer": false, "inner": true})
	lines2 := strings.Split(res2.Text, "\n")
	if strings.TrimSpace(lines2[2]) != "" {
		t.Fatalf("expected inner branch blanked because outer is disabled, got %q", lines2[2])
	}
}

func TestCommentPrefixedDirective(t *testing.T) {
	src := "// #if foo\na\n// #endif"
	res := Run("t.wgsl", src, Params{"foo": false})
	lines := strings.Split(res.Text, "\n")
	if strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected comment-prefixed #if to still be recognized, got %q", lines[1])
	}
}

func TestUnbalancedEndifEmitsDiagnostic(t *testing.T) {
	cap, sink := diag.NewCapture()
	diag.WithSink(sink, func() {
		Run("t.wgsl", "a\n#endif\n", Params{})
	})
	if len(cap.Diags) != 1 || cap.Diags[0].Code != diag.PreUnbalancedDirective {
		t.Fatalf("expected one PRE001 diagnostic, got %v", cap.Diags)
	}
}

func TestLengthAndLineCountAlwaysPreserved(t *testing.T) {
	src := "#if a\nx\n#else\ny\n#endif\nz"
	res := Run("t.wgsl", src, Params{"a": true})
	if len(res.Text) != len(src) {
		t.Fatalf("length not preserved: got %d want %d", len(res.Text), len(src))
	}
	if strings.Count(res.Text, "\n") != strings.Count(src, "\n") {
		t.Fatalf("line count not preserved")
	}
}
