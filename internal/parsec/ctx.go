// Package parsec implements component D of the linker core: a
// composable parser-combinator engine with pluggable lexers,
// backtracking, tagged result collection, stack-scoped cross-cutting
// parsers, and a cooperative parse budget.
//
// The engine is dynamically typed (values flow as `any`) in the style
// of the reference recursive-descent engine this package is grounded
// on (`other_examples`'s peg.go, whose Expression.Scan returns
// interface{}); a concrete grammar built on top — see internal/wgsl —
// recovers static types at its own boundary via Map and type
// assertions, the same way a hand-written recursive-descent parser
// would.
package parsec

import (
	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/lexer"
	"github.com/sunholo/wgsllink/internal/srcmap"
)

// AppState is the mutable, per-parse application bag described in
// spec.md §4.C: `state` is where grammar `map` callbacks push elements
// (e.g. the WGSL element list), `Context` is a small stack-scoped
// key/value store for cross-cutting parsers (the enclosing fn name
// while collecting calls, the active #template name, and so on).
type AppState struct {
	State   any
	Context *ContextStack
}

// ContextStack is a stack of named scopes. PushScope/PopScope give
// grammars a disciplined way to thread state like "which fn am I
// inside" through recursive combinators without a global variable.
type ContextStack struct {
	frames []map[string]any
}

// NewContextStack returns an empty context stack with one root frame.
func NewContextStack() *ContextStack {
	return &ContextStack{frames: []map[string]any{{}}}
}

// Push opens a new scope, inheriting nothing from the parent — callers
// that want inheritance look the key up via Get, which searches
// outward.
func (c *ContextStack) Push() {
	c.frames = append(c.frames, map[string]any{})
}

// Pop closes the innermost scope.
func (c *ContextStack) Pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

// Set binds key in the innermost scope.
func (c *ContextStack) Set(key string, val any) {
	c.frames[len(c.frames)-1][key] = val
}

// Get searches from the innermost scope outward for key.
func (c *ContextStack) Get(key string) (any, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if v, ok := c.frames[i][key]; ok {
			return v, true
		}
	}
	return nil, false
}

// WithScope runs fn inside a freshly pushed scope, guaranteeing the
// scope is popped on every exit path including a panic.
func (c *ContextStack) WithScope(fn func()) {
	c.Push()
	defer c.Pop()
	fn()
}

// Ctx is the parse context threaded through every combinator call:
// `ctx = { lexer, app: { state, context }, srcMap?, maxParseCount? }`
// per spec.md §4.C. It is always passed by pointer — combinators that
// scope a cross-cutting resource (the active matcher, the active
// preParse skip parser, the disablePreParse flag) mutate it for the
// duration of a sub-parse and restore it afterward, mirroring the
// lexer's own push/run/pop frame discipline.
type Ctx struct {
	Lexer  *lexer.Lexer
	App    *AppState
	SrcMap *srcmap.SourceMap

	// Source/SourceName are only used to annotate diagnostics.
	Source     string
	SourceName string

	maxParseCount   int
	consumed        int
	budgetExhausted bool

	preParseSkip    Parser
	disablePreParse bool
}

// NewCtx builds a parse context over src using lex as the token
// source. maxParseCount of 0 means unbounded.
func NewCtx(sourceName, src string, lex *lexer.Lexer, app *AppState, maxParseCount int) *Ctx {
	if app == nil {
		app = &AppState{Context: NewContextStack()}
	}
	return &Ctx{
		Lexer:         lex,
		App:           app,
		Source:        src,
		SourceName:    sourceName,
		maxParseCount: maxParseCount,
	}
}

// BudgetExhausted reports whether the parse budget (§4.C) was
// exceeded during this parse. Once true it stays true: the top-level
// parse must treat this as fatal and discard whatever partial result
// was produced.
func (c *Ctx) BudgetExhausted() bool {
	return c.budgetExhausted
}

// countConsumption records one primitive token consumption and
// enforces the parse budget, emitting PAR002 exactly once when the
// budget is first exceeded.
func (c *Ctx) countConsumption() bool {
	if c.budgetExhausted {
		return false
	}
	c.consumed++
	if c.maxParseCount > 0 && c.consumed > c.maxParseCount {
		c.budgetExhausted = true
		span := lexer.Span{Start: c.Lexer.Position(), End: c.Lexer.Position()}
		diag.Emit(diag.Diagnostic{
			Code: diag.ParBudgetExhausted, Phase: diag.PhaseParse,
			Message: "parse budget exhausted", Source: c.Source, SourceName: c.SourceName,
			Span: &span,
		})
		return false
	}
	return true
}

func (c *Ctx) runPreParseSkip() {
	if c.disablePreParse || c.preParseSkip == nil {
		return
	}
	skip := c.preParseSkip
	c.preParseSkip = nil
	for skip(c) != nil {
	}
	c.preParseSkip = skip
}
