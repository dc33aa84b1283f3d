package parsec

// Named is the tagged-result accumulator carried in every Result: a
// name to an ordered list of values contributed by `tag`-marked
// sub-parsers. Combinators merge child Named maps by concatenating
// each key's value list in source order (spec.md §9) — never by
// mutating a shared map in place, so a failed alternative's tags never
// leak into a sibling's result.
type Named map[string][]any

// Result is what a successful parse produces: the matched value, the
// tagged-result accumulator, and the span (in token-stream terms,
// "Start"/"End" are character offsets of the first and last consumed
// token) the match covered.
type Result struct {
	Value any
	Named Named
	Start int
	End   int
}

// Parser is the core primitive of the engine: parse(ctx) -> Result |
// null. A nil return means "did not match at the current position";
// every combinator that fails restores the lexer position itself (or,
// for combinators built from other combinators, simply never advances
// because the sub-parser already restored it) so callers can try
// alternatives. A non-nil return means the lexer position has already
// advanced past the match.
type Parser func(ctx *Ctx) *Result

func mergeNamed(maps ...Named) Named {
	out := Named{}
	for _, m := range maps {
		for k, vs := range m {
			out[k] = append(out[k], vs...)
		}
	}
	return out
}

func cloneNamed(m Named) Named {
	out := Named{}
	for k, vs := range m {
		out[k] = append(out[k], vs...)
	}
	return out
}

// primitive matches a single token against match, honoring the active
// preParse skip parser and the parse budget. On failure the lexer
// position is restored to where it was before the attempt.
func primitive(ctx *Ctx, match func(kind, text string) bool) *Result {
	if ctx.budgetExhausted {
		return nil
	}
	ctx.runPreParseSkip()
	start := ctx.Lexer.Position()
	if !ctx.countConsumption() {
		return nil
	}
	tok := ctx.Lexer.Next()
	if tok == nil || !match(tok.Kind, tok.Text) {
		ctx.Lexer.Position(start)
		return nil
	}
	return &Result{Value: tok.Text, Named: Named{}, Start: tok.Span.Start, End: tok.Span.End}
}

// Text matches a token whose Text equals s.
func Text(s string) Parser {
	return func(ctx *Ctx) *Result {
		return primitive(ctx, func(_, text string) bool { return text == s })
	}
}

// Kind matches a token whose Kind equals k.
func Kind(k string) Parser {
	return func(ctx *Ctx) *Result {
		return primitive(ctx, func(kind, _ string) bool { return kind == k })
	}
}

// Seq succeeds iff every sub-parser matches in order. Its value is the
// ordered slice of sub-values; named maps are merged in source order.
func Seq(ps ...Parser) Parser {
	return func(ctx *Ctx) *Result {
		start := ctx.Lexer.Position()
		values := make([]any, 0, len(ps))
		nameds := make([]Named, 0, len(ps))
		var first, last *Result
		for _, p := range ps {
			r := p(ctx)
			if r == nil {
				ctx.Lexer.Position(start)
				return nil
			}
			if first == nil {
				first = r
			}
			last = r
			values = append(values, r.Value)
			nameds = append(nameds, r.Named)
		}
		res := &Result{Value: values, Named: mergeNamed(nameds...), Start: start, End: start}
		if first != nil {
			res.Start = first.Start
		}
		if last != nil {
			res.End = last.End
		}
		return res
	}
}

// Or tries each sub-parser in order, backtracking the lexer on every
// failure, and returns the first success. There is no longest-match
// tie-breaking.
func Or(ps ...Parser) Parser {
	return func(ctx *Ctx) *Result {
		start := ctx.Lexer.Position()
		for _, p := range ps {
			if r := p(ctx); r != nil {
				return r
			}
			ctx.Lexer.Position(start)
		}
		return nil
	}
}

// Opt always succeeds. On sub-failure it returns a success with a nil
// value and no lexer advance.
func Opt(p Parser) Parser {
	return func(ctx *Ctx) *Result {
		start := ctx.Lexer.Position()
		if r := p(ctx); r != nil {
			return r
		}
		ctx.Lexer.Position(start)
		return &Result{Value: nil, Named: Named{}, Start: start, End: start}
	}
}

// Repeat matches zero or more occurrences of p; its value is the
// ordered slice of sub-values. It stops on the first sub-failure
// without consuming that failed attempt.
func Repeat(p Parser) Parser {
	return repeatAtLeast(p, 0)
}

// RepeatPlus matches one or more occurrences of p.
func RepeatPlus(p Parser) Parser {
	return repeatAtLeast(p, 1)
}

func repeatAtLeast(p Parser, min int) Parser {
	return func(ctx *Ctx) *Result {
		start := ctx.Lexer.Position()
		var values []any
		var nameds []Named
		end := start
		for {
			pos := ctx.Lexer.Position()
			r := p(ctx)
			if r == nil {
				ctx.Lexer.Position(pos)
				break
			}
			values = append(values, r.Value)
			nameds = append(nameds, r.Named)
			end = r.End
		}
		if len(values) < min {
			ctx.Lexer.Position(start)
			return nil
		}
		return &Result{Value: values, Named: mergeNamed(nameds...), Start: start, End: end}
	}
}

// Req requires p to match. If it fails, a PAR001 diagnostic is logged
// at the current position and parsing continues as if p had matched
// with a nil value — this lets the grammar resynchronize instead of
// aborting the whole parse on one missing token.
func Req(p Parser, msg string) Parser {
	return func(ctx *Ctx) *Result {
		if r := p(ctx); r != nil {
			return r
		}
		emitExpected(ctx, msg)
		pos := ctx.Lexer.Position()
		return &Result{Value: nil, Named: Named{}, Start: pos, End: pos}
	}
}

// WithSep matches `p (sep p)*` with an optional trailing separator
// (a trailing sep with no following p is consumed as part of the match).
func WithSep(sep, p Parser) Parser {
	return func(ctx *Ctx) *Result {
		first := p(ctx)
		if first == nil {
			return nil
		}
		values := []any{first.Value}
		nameds := []Named{first.Named}
		end := first.End
		for {
			pos := ctx.Lexer.Position()
			sepRes := sep(ctx)
			if sepRes == nil {
				ctx.Lexer.Position(pos)
				break
			}
			itemRes := p(ctx)
			if itemRes == nil {
				// trailing separator: keep it consumed
				ctx.Lexer.Position(sepRes.End)
				nameds = append(nameds, sepRes.Named)
				end = sepRes.End
				break
			}
			values = append(values, itemRes.Value)
			nameds = append(nameds, sepRes.Named, itemRes.Named)
			end = itemRes.End
		}
		return &Result{Value: values, Named: mergeNamed(nameds...), Start: first.Start, End: end}
	}
}

// AnyNot consumes a single token unless p would match at the current
// position, in which case AnyNot fails (leaving the lexer position
// unchanged, as with any other primitive failure).
func AnyNot(p Parser) Parser {
	return func(ctx *Ctx) *Result {
		if ctx.budgetExhausted {
			return nil
		}
		ctx.runPreParseSkip()
		start := ctx.Lexer.Position()
		if r := p(ctx); r != nil {
			ctx.Lexer.Position(start)
			return nil
		}
		ctx.Lexer.Position(start)
		return consumeAny(ctx)
	}
}

func consumeAny(ctx *Ctx) *Result {
	if !ctx.countConsumption() {
		return nil
	}
	start := ctx.Lexer.Position()
	tok := ctx.Lexer.Next()
	if tok == nil {
		ctx.Lexer.Position(start)
		return nil
	}
	return &Result{Value: tok.Text, Named: Named{}, Start: tok.Span.Start, End: tok.Span.End}
}

// AnyThrough consumes tokens until (and including) p matches. It fails
// if input runs out first.
func AnyThrough(p Parser) Parser {
	return func(ctx *Ctx) *Result {
		start := ctx.Lexer.Position()
		var values []any
		var nameds []Named
		end := start
		for {
			if r := p(ctx); r != nil {
				values = append(values, r.Value)
				nameds = append(nameds, r.Named)
				end = r.End
				return &Result{Value: values, Named: mergeNamed(nameds...), Start: start, End: end}
			}
			tok := consumeAny(ctx)
			if tok == nil {
				ctx.Lexer.Position(start)
				return nil
			}
			values = append(values, tok.Value)
			end = tok.End
		}
	}
}

// Tag appends the sub-parser's value to named[name] in the enclosing
// result. Tags bubble through Seq, Or, Opt, and Repeat because those
// combinators merge Named maps rather than discarding them.
func Tag(name string, p Parser) Parser {
	return func(ctx *Ctx) *Result {
		r := p(ctx)
		if r == nil {
			return nil
		}
		named := cloneNamed(r.Named)
		named[name] = append(named[name], r.Value)
		return &Result{Value: r.Value, Named: named, Start: r.Start, End: r.End}
	}
}

// MapFn transforms a successful result's value, and is the hook
// grammars use to push elements into ctx.App.State as a side effect.
func MapFn(p Parser, fn func(v any, ctx *Ctx) any) Parser {
	return func(ctx *Ctx) *Result {
		r := p(ctx)
		if r == nil {
			return nil
		}
		return &Result{Value: fn(r.Value, ctx), Named: r.Named, Start: r.Start, End: r.End}
	}
}
