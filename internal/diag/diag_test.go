package diag

import (
	"strings"
	"testing"

	"github.com/sunholo/wgsllink/internal/lexer"
)

func TestWithSinkRestoresOnExit(t *testing.T) {
	outer, _ := NewCapture()
	WithSink(outer.sink, func() {
		inner, innerSink := NewCapture()
		WithSink(innerSink, func() {
			Emit(Diagnostic{Code: "X", Message: "inner"})
		})
		if len(inner.Diags) != 1 {
			t.Fatalf("expected inner sink to receive 1 diagnostic, got %d", len(inner.Diags))
		}
		Emit(Diagnostic{Code: "Y", Message: "outer again"})
	})
	if len(outer.Diags) != 1 || outer.Diags[0].Code != "Y" {
		t.Fatalf("expected outer sink restored after inner scope, got %+v", outer.Diags)
	}
}

func TestWithSinkRestoresOnPanic(t *testing.T) {
	outer, outerSink := NewCapture()
	WithSink(outerSink, func() {
		func() {
			defer func() { recover() }()
			inner, innerSink := NewCapture()
			WithSink(innerSink, func() {
				panic("boom")
			})
			_ = inner
		}()
		Emit(Diagnostic{Code: "Z", Message: "after panic"})
	})
	if len(outer.Diags) != 1 || outer.Diags[0].Code != "Z" {
		t.Fatalf("expected sink restored after panic, got %+v", outer.Diags)
	}
}

func TestFormatProducesCaret(t *testing.T) {
	ForgetLineStarts("t.wgsl")
	src := "fn foo() {\n  bar();\n}"
	span := lexer.Span{Start: 13, End: 16}
	d := Diagnostic{
		Code: "REF001", Phase: PhaseTraverse, Message: "reference not found: bar",
		Source: src, SourceName: "t.wgsl", Span: &span,
	}
	out := Format(d)
	if !strings.Contains(out, "bar();") {
		t.Fatalf("expected offending line in output, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected caret in output, got:\n%s", out)
	}
}

func TestCaptureOrderIsSourceOrder(t *testing.T) {
	cap, sink := NewCapture()
	WithSink(sink, func() {
		Emit(Diagnostic{Code: "A"})
		Emit(Diagnostic{Code: "B"})
		Emit(Diagnostic{Code: "C"})
	})
	if got := cap.Codes(); got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Fatalf("expected in-order codes, got %v", got)
	}
}
