package parsec

import (
	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/lexer"
)

func emitExpected(ctx *Ctx, msg string) {
	pos := ctx.Lexer.Position()
	span := lexer.Span{Start: pos, End: pos}
	diag.Emit(diag.Diagnostic{
		Code: diag.ParExpected, Phase: diag.PhaseParse,
		Message: "expected " + msg, Source: ctx.Source, SourceName: ctx.SourceName,
		Span: &span,
	})
}

// Tokens runs p with matcher active on the lexer, scoped via the
// lexer's own WithMatcher push/run/pop frame (spec.md §4.B, §4.C).
func Tokens(matcher *lexer.Matcher, p Parser) Parser {
	return func(ctx *Ctx) *Result {
		var res *Result
		ctx.Lexer.WithMatcher(matcher, func() {
			res = p(ctx)
		})
		return res
	}
}

// Ignore runs p with ignore active on the lexer, scoped via the
// lexer's own WithIgnore push/run/pop frame (spec.md §4.B). Useful
// when a sub-grammar needs a token kind the surrounding grammar
// normally discards — e.g. treating newline as significant while
// scanning a directive's unterminated tail.
func Ignore(ignore map[string]bool, p Parser) Parser {
	return func(ctx *Ctx) *Result {
		var res *Result
		ctx.Lexer.WithIgnore(ignore, func() {
			res = p(ctx)
		})
		return res
	}
}

// PreParse runs p with skip as the active pre-consumption parser:
// before every primitive token consumption inside p, skip is attempted
// (repeatedly, until it stops matching) — the standard way to make
// comment-skipping transparent to a grammar written without comments
// in mind.
func PreParse(skip, p Parser) Parser {
	return func(ctx *Ctx) *Result {
		prev := ctx.preParseSkip
		ctx.preParseSkip = skip
		defer func() { ctx.preParseSkip = prev }()
		return p(ctx)
	}
}

// DisablePreParse suppresses the outer PreParse's skip parser for the
// duration of p — used inside block comments so a nested comment
// opener matches literally instead of being swallowed by the very
// comment-skipper it's nested inside.
func DisablePreParse(p Parser) Parser {
	return func(ctx *Ctx) *Result {
		prev := ctx.disablePreParse
		ctx.disablePreParse = true
		defer func() { ctx.disablePreParse = prev }()
		return p(ctx)
	}
}
