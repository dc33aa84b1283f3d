package parsec

import (
	"fmt"
	"sync/atomic"

	"github.com/sunholo/wgsllink/internal/diag"
)

// traceEnabled is the process-wide trace flag described in spec.md §5;
// it is the only other piece of cross-cutting state besides the log
// sink and the line-start memoization cache.
var traceEnabled atomic.Bool

// SetTrace enables or disables combinator entry/exit tracing globally.
// Release builds pay only the cost of one atomic load per named
// parser invocation (traceEnabled.Load() short-circuits Traced's body)
// rather than a build-tag-gated no-op, which keeps a single binary
// simple.
func SetTrace(on bool) {
	traceEnabled.Store(on)
}

// TraceOn reports whether tracing is currently enabled.
func TraceOn() bool {
	return traceEnabled.Load()
}

// Traced labels p for tracing purposes: when tracing is enabled, its
// entry and exit (with the current token and cursor) are routed
// through the currently installed diag.Sink as low-severity
// diagnostics. Traced has no effect on matching semantics; it exists
// purely to make backtracking legible while authoring a grammar.
func Traced(label string, p Parser) Parser {
	return func(ctx *Ctx) *Result {
		if !traceEnabled.Load() {
			return p(ctx)
		}
		pos := ctx.Lexer.Position()
		diag.Emit(diag.Diagnostic{
			Code: "TRACE", Phase: diag.PhaseParse,
			Message: fmt.Sprintf("-> %s @%d", label, pos),
		})
		r := p(ctx)
		if r == nil {
			diag.Emit(diag.Diagnostic{
				Code: "TRACE", Phase: diag.PhaseParse,
				Message: fmt.Sprintf("<- %s FAIL @%d", label, pos),
			})
			return nil
		}
		diag.Emit(diag.Diagnostic{
			Code: "TRACE", Phase: diag.PhaseParse,
			Message: fmt.Sprintf("<- %s OK [%d,%d)", label, r.Start, r.End),
		})
		return r
	}
}
