// Package preprocess implements component E of the linker core: a
// line-oriented #if/#else/#endif conditional-compilation pass over a
// parameter map. It never changes line count or byte offsets — disabled
// regions are blanked in place — so every later phase (lexer, parser,
// source maps) can treat its output exactly like hand-written source.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/lexer"
	"github.com/sunholo/wgsllink/internal/srcmap"
)

// Params is the boolean parameter map #if expressions are evaluated
// against. A name absent from the map is treated as false.
type Params map[string]bool

// Result is the preprocessor's output: the derived text (same length as
// the input, byte for byte) and a source map back to it. The map is
// the identity map, since preprocessing never moves text around — it
// only blanks bytes in place — but callers that compose preprocessing
// with later derivations (e.g. template expansion) merge through it
// via srcmap.Merge like any other stage.
type Result struct {
	Text   string
	SrcMap *srcmap.SourceMap
}

var directiveRe = regexp.MustCompile(`^(\s*)(?://\s*)?#(if|else|endif)\b[ \t]*(.*?)\s*$`)

// frame tracks one #if nesting level: whether the enclosing region was
// active, whether this level's current branch is active, and whether
// any branch at this level has already fired (so #else knows to stay
// off once an earlier branch already matched).
type frame struct {
	parentActive bool
	active       bool
	tookBranch   bool
}

type line struct {
	text string
	term string
	pos  int
}

// Run scans src line by line, evaluating #if/#else/#endif against
// params and blanking disabled lines to spaces. Directive lines
// themselves are always blanked, matched or not, since they carry no
// WGSL text of their own.
func Run(sourceName, src string, params Params) Result {
	lines := splitLines(src)
	var out strings.Builder
	out.Grow(len(src))
	stack := []frame{{parentActive: true, active: true, tookBranch: true}}

	for _, ln := range lines {
		if m := directiveRe.FindStringSubmatch(ln.text); m != nil {
			handleDirective(sourceName, ln, m[2], m[3], params, &stack)
			out.WriteString(blank(ln.text))
			out.WriteString(ln.term)
			continue
		}
		if stack[len(stack)-1].active {
			out.WriteString(ln.text)
		} else {
			out.WriteString(blank(ln.text))
		}
		out.WriteString(ln.term)
	}

	text := out.String()
	return Result{Text: text, SrcMap: srcmap.Identity(sourceName, len(text))}
}

func handleDirective(sourceName string, ln line, kind, expr string, params Params, stack *[]frame) {
	switch kind {
	case "if":
		top := (*stack)[len(*stack)-1]
		cond := evalExpr(sourceName, ln, expr, params)
		active := top.active && cond
		*stack = append(*stack, frame{parentActive: top.active, active: active, tookBranch: active})
	case "else":
		if len(*stack) < 2 {
			emitUnbalanced(sourceName, ln, "#else with no matching #if")
			return
		}
		top := &(*stack)[len(*stack)-1]
		top.active = top.parentActive && !top.tookBranch
		top.tookBranch = top.tookBranch || top.active
	case "endif":
		if len(*stack) < 2 {
			emitUnbalanced(sourceName, ln, "#endif with no matching #if")
			return
		}
		*stack = (*stack)[:len(*stack)-1]
	}
}

// evalExpr evaluates a #if expression: a bare identifier, a negated
// identifier, or the constants true/false, all read against params.
func evalExpr(sourceName string, ln line, expr string, params Params) bool {
	expr = strings.TrimSpace(expr)
	neg := false
	if strings.HasPrefix(expr, "!") {
		neg = true
		expr = strings.TrimSpace(expr[1:])
	}
	var v bool
	switch expr {
	case "true":
		v = true
	case "false":
		v = false
	case "":
		emitMissingExpr(sourceName, ln)
	default:
		v = params[expr]
	}
	if neg {
		v = !v
	}
	return v
}

func emitUnbalanced(sourceName string, ln line, msg string) {
	span := lexer.Span{Start: ln.pos, End: ln.pos + len(ln.text)}
	diag.Emit(diag.Diagnostic{
		Code: diag.PreUnbalancedDirective, Phase: diag.PhasePreprocess,
		Message: msg, SourceName: sourceName, Span: &span,
	})
}

func emitMissingExpr(sourceName string, ln line) {
	span := lexer.Span{Start: ln.pos, End: ln.pos + len(ln.text)}
	diag.Emit(diag.Diagnostic{
		Code: diag.PreMissingExpr, Phase: diag.PhasePreprocess,
		Message: "#if with no expression", SourceName: sourceName, Span: &span,
	})
}

// blank replaces every byte of s with a space, preserving its length
// (and therefore every later offset into the line).
func blank(s string) string {
	return strings.Repeat(" ", len(s))
}

// splitLines breaks src into lines, keeping each line's terminator
// ("\n", "\r\n", or "" for a final unterminated line) separate from
// its text so blanking never touches the terminator itself.
func splitLines(src string) []line {
	var lines []line
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] != '\n' {
			continue
		}
		end := i
		term := "\n"
		if end > start && src[end-1] == '\r' {
			end--
			term = "\r\n"
		}
		lines = append(lines, line{text: src[start:end], term: term, pos: start})
		start = i + 1
	}
	if start < len(src) {
		lines = append(lines, line{text: src[start:], term: "", pos: start})
	}
	return lines
}
