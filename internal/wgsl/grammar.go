package wgsl

import (
	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/importtree"
	"github.com/sunholo/wgsllink/internal/lexer"
	"github.com/sunholo/wgsllink/internal/parsec"
)

// ParseResult is what Parse produces: the module's element list in
// source order (empty when the parse budget was exhausted), plus
// whether the parse budget was exhausted.
type ParseResult struct {
	Elems           []*Elem
	BudgetExhausted bool
}

// NewMatcher builds the token matcher this grammar runs on. Pattern
// order is priority order: comments must be tried before the bare "/"
// symbol, "->"/"::" before their single-character prefixes.
func NewMatcher() (*lexer.Matcher, error) {
	return lexer.NewMatcher([]lexer.Pattern{
		{Name: "blockComment", Pattern: `/\*[\s\S]*?\*/`},
		{Name: "lineComment", Pattern: `//[^\n]*`},
		{Name: "ws", Pattern: `[ \t\r]+`},
		{Name: "newline", Pattern: `\n`},
		{Name: "number", Pattern: `[0-9][0-9a-zA-Z_.]*`},
		{Name: "ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "arrow", Pattern: `->`},
		{Name: "coloncolon", Pattern: `::`},
		{Name: "symbol", Pattern: `[(){}\[\]<>@;,:.=!&|+\-*/%^~#]`},
	})
}

var defaultIgnore = map[string]bool{
	"ws": true, "newline": true, "lineComment": true, "blockComment": true,
}

// hashDirectiveIgnore is scoped over the tail of every `#`-prefixed
// directive (#import, #export, #extends/#importMerge, #template):
// these are line-oriented pragmas with no semicolon terminator in
// general, so a newline must stay significant there even though it is
// ordinary whitespace everywhere else in the grammar.
var hashDirectiveIgnore = map[string]bool{
	"ws": true, "lineComment": true, "blockComment": true,
}

// Parse runs the grammar over src, returning the ordered element list.
// Diagnostics are routed through the currently installed diag.Sink
// (see diag.WithSink); Parse itself returns no error.
func Parse(sourceName, src string, maxParseCount int) *ParseResult {
	matcher, err := NewMatcher()
	if err != nil {
		panic(err) // the pattern set above is a compile-time constant
	}
	lex := lexer.New(src, matcher, defaultIgnore)
	ctx := parsec.NewCtx(sourceName, src, lex, nil, maxParseCount)

	var elems []*Elem
	for !ctx.Lexer.Eof() && !ctx.BudgetExhausted() {
		pos := ctx.Lexer.Position()
		if e := topLevel(ctx); e != nil {
			elems = append(elems, e...)
			continue
		}
		// Nothing recognized this production; skip one token so a
		// malformed construct cannot stall the whole parse.
		if anyToken(ctx) == nil {
			break
		}
		if ctx.Lexer.Position() == pos {
			break
		}
	}
	if ctx.BudgetExhausted() {
		elems = nil
	}
	return &ParseResult{Elems: elems, BudgetExhausted: ctx.BudgetExhausted()}
}

// anyToken consumes a single token of any kind, used to resynchronize
// after an unrecognized top-level construct.
func anyToken(ctx *parsec.Ctx) *parsec.Result {
	return parsec.Or(
		parsec.Kind("ident"), parsec.Kind("number"), parsec.Kind("symbol"),
		parsec.Kind("arrow"), parsec.Kind("coloncolon"), parsec.Kind(lexer.KindUnknown),
	)(ctx)
}

// topLevel tries every recognized top-level production in turn,
// returning the element(s) it produced (an export directive produces
// two: the export wrapper and the wrapped declaration).
func topLevel(ctx *parsec.Ctx) []*Elem {
	if e := globalDirectiveOrAssert(ctx); e != nil {
		return []*Elem{e}
	}
	if e := exportDirective(ctx); e != nil {
		if e.Exported != nil {
			return []*Elem{e, e.Exported}
		}
		return []*Elem{e}
	}
	if e := extendsDirective(ctx); e != nil {
		return []*Elem{e}
	}
	if e := templateDirective(ctx); e != nil {
		return []*Elem{e}
	}
	if e := importDirective(ctx); e != nil {
		return []*Elem{e}
	}
	if e := moduleDirective(ctx); e != nil {
		return []*Elem{e}
	}
	if e := fnDecl(ctx); e != nil {
		return []*Elem{e}
	}
	if e := structDecl(ctx); e != nil {
		return []*Elem{e}
	}
	if e := globalAlias(ctx); e != nil {
		return []*Elem{e}
	}
	if e := globalVar(ctx); e != nil {
		return []*Elem{e}
	}
	return nil
}

// ---- global directives / asserts ----

var globalDirectiveKeywords = map[string]bool{
	"diagnostic": true, "enable": true, "requires": true, "const_assert": true,
}

func globalDirectiveOrAssert(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	nameRes := identIn(ctx, globalDirectiveKeywords)
	if nameRes == nil {
		return nil
	}
	parsec.AnyThrough(parsec.Text(";"))(ctx)
	return &Elem{Kind: KindGlobalDirective, Name: nameRes.Value.(string),
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

// identIn matches an ident token whose text is a member of set.
func identIn(ctx *parsec.Ctx, set map[string]bool) *parsec.Result {
	start := ctx.Lexer.Position()
	r := parsec.Kind("ident")(ctx)
	if r == nil {
		return nil
	}
	if !set[r.Value.(string)] {
		ctx.Lexer.Position(start)
		return nil
	}
	return r
}

// ---- attributes ----

func attrList(ctx *parsec.Ctx) {
	for {
		start := ctx.Lexer.Position()
		if parsec.Text("@")(ctx) == nil {
			return
		}
		if parsec.Kind("ident")(ctx) == nil {
			ctx.Lexer.Position(start)
			return
		}
		skipBalanced(ctx, "(", ")")
	}
}

// skipBalanced consumes a balanced `(...)` (or other open/close pair)
// if one starts at the current position, tolerating arbitrary content
// inside (attribute arguments are not otherwise interpreted).
func skipBalanced(ctx *parsec.Ctx, open, close string) bool {
	start := ctx.Lexer.Position()
	if parsec.Text(open)(ctx) == nil {
		return false
	}
	depth := 1
	for depth > 0 {
		if ctx.Lexer.Eof() {
			ctx.Lexer.Position(start)
			return false
		}
		if parsec.Text(close)(ctx) != nil {
			depth--
			continue
		}
		if parsec.Text(open)(ctx) != nil {
			depth++
			continue
		}
		if anyToken(ctx) == nil {
			ctx.Lexer.Position(start)
			return false
		}
	}
	return true
}

// ---- type specifiers ----

// typeSpecifier parses a possibly-templated type name, recording a
// typeRef element for every non-builtin, non-address-space identifier
// encountered (the type name itself and the leading identifier of each
// template argument, at every nesting level; spec.md §4.F).
func typeSpecifier(ctx *parsec.Ctx, collect *[]*Elem) bool {
	nameRes := parsec.Kind("ident")(ctx)
	if nameRes == nil {
		return false
	}
	name := nameRes.Value.(string)
	if !IsBuiltinType(name) && !IsAddressSpaceKeyword(name) {
		*collect = append(*collect, &Elem{Kind: KindTypeRef, Name: name,
			Span: lexer.Span{Start: nameRes.Start, End: nameRes.End}})
	}
	if parsec.Text("<")(ctx) == nil {
		return true
	}
	for {
		if typeSpecifier(ctx, collect) {
			// matched a nested type/address-space identifier
		} else if parsec.Kind("number")(ctx) != nil {
			// bare numeric template arg, e.g. array<f32, 4>
		} else if parsec.AnyNot(parsec.Or(parsec.Text(">"), parsec.Text(",")))(ctx) != nil {
			// arbitrary token inside the template we don't interpret
		} else {
			break
		}
		if parsec.Text(",")(ctx) != nil {
			continue
		}
		break
	}
	parsec.Req(parsec.Text(">"), "'>'")(ctx)
	return true
}

// ---- fn ----

func fnDecl(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	attrList(ctx)
	if parsec.Text("fn")(ctx) == nil {
		ctx.Lexer.Position(start)
		return nil
	}
	nameRes := parsec.Req(parsec.Kind("ident"), "function name")(ctx)
	name, _ := nameRes.Value.(string)

	var typeRefs []*Elem
	var calls []*Elem

	parsec.Req(parsec.Text("("), "'('")(ctx)
	for {
		if parsec.Text(")")(ctx) != nil {
			break
		}
		if !fnParam(ctx, &typeRefs) {
			// resynchronize: consume a token so malformed params don't loop forever
			if anyToken(ctx) == nil {
				break
			}
			continue
		}
		if parsec.Text(",")(ctx) != nil {
			continue
		}
		parsec.Req(parsec.Text(")"), "')'")(ctx)
		break
	}
	if parsec.Text("->")(ctx) != nil {
		attrList(ctx)
		typeSpecifier(ctx, &typeRefs)
	}
	scanBlock(ctx, name, &calls, &typeRefs)

	return &Elem{
		Kind: KindFn, Name: name, Calls: calls, TypeRefs: typeRefs,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()},
	}
}

func fnParam(ctx *parsec.Ctx, typeRefs *[]*Elem) bool {
	start := ctx.Lexer.Position()
	attrList(ctx)
	if parsec.Kind("ident")(ctx) == nil {
		ctx.Lexer.Position(start)
		return false
	}
	if parsec.Req(parsec.Text(":"), "':'")(ctx) == nil {
		return true
	}
	typeSpecifier(ctx, typeRefs)
	return true
}

// scanBlock linearly scans a `{ ... }` body, recording fn calls and
// variable-declaration type references. It is not a full statement
// grammar: control-flow bodies are entered by the same brace-depth
// counter, so a call or decl at any nesting depth is still found.
func scanBlock(ctx *parsec.Ctx, enclosingFn string, calls, typeRefs *[]*Elem) bool {
	if parsec.Text("{")(ctx) == nil {
		return false
	}
	depth := 1
	for depth > 0 {
		if ctx.Lexer.Eof() {
			break
		}
		if parsec.Text("{")(ctx) != nil {
			depth++
			continue
		}
		if parsec.Text("}")(ctx) != nil {
			depth--
			continue
		}
		if scanVarDecl(ctx, typeRefs) {
			continue
		}
		if scanCall(ctx, enclosingFn, calls) {
			continue
		}
		if anyToken(ctx) == nil {
			break
		}
	}
	return true
}

var varDeclKeywords = map[string]bool{"var": true, "let": true, "const": true}

func scanVarDecl(ctx *parsec.Ctx, typeRefs *[]*Elem) bool {
	if identIn(ctx, varDeclKeywords) == nil {
		return false
	}
	if parsec.Text("<")(ctx) != nil {
		for parsec.AnyNot(parsec.Text(">"))(ctx) != nil {
		}
		parsec.Text(">")(ctx)
	}
	if parsec.Kind("ident")(ctx) == nil {
		return true
	}
	if parsec.Text(":")(ctx) != nil {
		typeSpecifier(ctx, typeRefs)
	}
	return true
}

func scanCall(ctx *parsec.Ctx, enclosingFn string, calls *[]*Elem) bool {
	nameRes := parsec.Kind("ident")(ctx)
	if nameRes == nil {
		return false
	}
	name := nameRes.Value.(string)
	if parsec.Text("(")(ctx) == nil {
		return true
	}
	if name == enclosingFn || IsCallishKeyword(name) || IsBuiltinFn(name) {
		return true
	}
	*calls = append(*calls, &Elem{Kind: KindCall, Name: name,
		Span: lexer.Span{Start: nameRes.Start, End: nameRes.End}})
	return true
}

// ---- struct ----

func structDecl(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	if parsec.Text("struct")(ctx) == nil {
		return nil
	}
	nameRes := parsec.Req(parsec.Kind("ident"), "struct name")(ctx)
	name, _ := nameRes.Value.(string)
	parsec.Req(parsec.Text("{"), "'{'")(ctx)

	var members []*Elem
	for {
		if parsec.Text("}")(ctx) != nil {
			break
		}
		if ctx.Lexer.Eof() {
			break
		}
		m := structMember(ctx)
		if m == nil {
			if anyToken(ctx) == nil {
				break
			}
			continue
		}
		members = append(members, m)
		parsec.Text(",")(ctx)
	}
	return &Elem{Kind: KindStruct, Name: name, Members: members,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

func structMember(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	attrList(ctx)
	nameRes := parsec.Kind("ident")(ctx)
	if nameRes == nil {
		ctx.Lexer.Position(start)
		return nil
	}
	name := nameRes.Value.(string)
	parsec.Req(parsec.Text(":"), "':'")(ctx)
	var typeRefs []*Elem
	typeSpecifier(ctx, &typeRefs)
	return &Elem{Kind: KindMember, Name: name, TypeRefs: typeRefs,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

// ---- global var / alias ----

var globalVarKeywords = map[string]bool{"const": true, "var": true, "override": true, "let": true}

func globalVar(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	attrList(ctx)
	kwRes := identIn(ctx, globalVarKeywords)
	if kwRes == nil {
		ctx.Lexer.Position(start)
		return nil
	}
	if parsec.Text("<")(ctx) != nil {
		for parsec.AnyNot(parsec.Text(">"))(ctx) != nil {
		}
		parsec.Text(">")(ctx)
	}
	nameRes := parsec.Req(parsec.Kind("ident"), "variable name")(ctx)
	name, _ := nameRes.Value.(string)
	var typeRefs []*Elem
	if parsec.Text(":")(ctx) != nil {
		typeSpecifier(ctx, &typeRefs)
	}
	parsec.AnyThrough(parsec.Text(";"))(ctx)
	return &Elem{Kind: KindVar, Name: name, TypeRefs: typeRefs,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

func globalAlias(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	if parsec.Text("alias")(ctx) == nil {
		return nil
	}
	nameRes := parsec.Req(parsec.Kind("ident"), "alias name")(ctx)
	name, _ := nameRes.Value.(string)
	parsec.Req(parsec.Text("="), "'='")(ctx)
	target := ""
	targetStart := ctx.Lexer.Position()
	if r := parsec.Kind("ident")(ctx); r != nil {
		target = r.Value.(string)
	}
	ctx.Lexer.Position(targetStart)
	var typeRefs []*Elem
	typeSpecifier(ctx, &typeRefs)
	parsec.Req(parsec.Text(";"), "';'")(ctx)
	return &Elem{Kind: KindAlias, Name: name, Target: target, TypeRefs: typeRefs,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

// ---- module decl ----

func moduleDirective(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	if parsec.Text("module")(ctx) == nil {
		return nil
	}
	segs := pathSegments(ctx, parsec.Or(parsec.Text("."), parsec.Text("::")))
	if len(segs) == 0 {
		emitExpected(ctx, "module path")
	}
	parsec.Text(";")(ctx)
	return &Elem{Kind: KindModule, PathSegments: segs,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

// pathSegments parses `ident (sep ident)*` and returns the segment
// text list, or nil if no leading ident is present.
func pathSegments(ctx *parsec.Ctx, sep parsec.Parser) []string {
	first := parsec.Kind("ident")(ctx)
	if first == nil {
		return nil
	}
	segs := []string{first.Value.(string)}
	for {
		pos := ctx.Lexer.Position()
		if sep(ctx) == nil {
			break
		}
		next := parsec.Kind("ident")(ctx)
		if next == nil {
			ctx.Lexer.Position(pos)
			break
		}
		segs = append(segs, next.Value.(string))
	}
	return segs
}

// ---- import directive (Gleam-style, hash-style, source-relative) ----

func importDirective(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	hash := parsec.Text("#")(ctx) != nil
	if parsec.Text("import")(ctx) == nil {
		if hash {
			emitExpected(ctx, "'import'")
		}
		ctx.Lexer.Position(start)
		return nil
	}

	if hash {
		var tree *importtree.Tree
		parsec.Ignore(hashDirectiveIgnore, func(ctx *parsec.Ctx) *parsec.Result {
			tree = parseHashImport(ctx, start)
			return &parsec.Result{}
		})(ctx)
		return &Elem{Kind: KindTreeImport, Import: tree,
			Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
	}
	tree := parseGleamImport(ctx, start)
	return &Elem{Kind: KindTreeImport, Import: tree,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

// parseGleamImport handles both `import a::b::leaf;`,
// `import a/b/leaf;`, `import a::b::{c, d::e};`, and the
// args/from/as-bearing blended form exercised by spec.md §8 scenario
// S3 (`import foo(u32) from ./file1;`).
func parseGleamImport(ctx *parsec.Ctx, start int) *importtree.Tree {
	relative := consumeRelativePrefix(ctx)

	prefix := pathSegments(ctx, parsec.Or(parsec.Text("::"), parsec.Text("/")))
	if len(prefix) == 0 {
		emitExpected(ctx, "import path")
	}

	// pathSegments backtracks a trailing separator that isn't followed
	// by another ident (e.g. the "::" right before a brace group), so
	// that separator is still sitting in front of us here.
	parsec.Or(parsec.Text("::"), parsec.Text("/"))(ctx)

	// `{a, b::c}` multi-leaf form: prefix is the common path shared by
	// every child, each of which is parsed fresh from inside the braces.
	if parsec.Text("{")(ctx) != nil {
		children := []importtree.Node{parseBracedItem(ctx)}
		for parsec.Text(",")(ctx) != nil {
			children = append(children, parseBracedItem(ctx))
		}
		parsec.Req(parsec.Text("}"), "'}'")(ctx)
		parsec.Text(";")(ctx)
		return &importtree.Tree{
			Syntax: syntaxFor(relative),
			Root:   &importtree.SegmentList{Prefix: prefix, Children: children},
			Span:   lexer.Span{Start: start, End: ctx.Lexer.Position()},
		}
	}

	// single leaf, with optional (args), as alias, from path, or `;`
	leafName := prefix[len(prefix)-1]
	base := prefix[:len(prefix)-1]
	args := optionalArgs(ctx)
	alias := optionalAsAlias(ctx)
	if parsec.Text("from")(ctx) != nil {
		consumeRelativePrefix(ctx)
		fromSegs := pathSegments(ctx, parsec.Or(parsec.Text("/"), parsec.Text("::")))
		if len(fromSegs) > 0 {
			base = fromSegs
		}
	}
	parsec.Text(";")(ctx)
	leaf := &importtree.SimpleSegment{Name: leafName, Args: args, AsName: alias,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
	return &importtree.Tree{
		Syntax: syntaxFor(relative),
		Root:   &importtree.SegmentList{Prefix: base, Children: []importtree.Node{leaf}},
		Span:   lexer.Span{Start: start, End: ctx.Lexer.Position()},
	}
}

func parseBracedItem(ctx *parsec.Ctx) importtree.Node {
	segs := pathSegments(ctx, parsec.Or(parsec.Text("::"), parsec.Text("/")))
	return leafOrNested(ctx, segs)
}

func leafOrNested(ctx *parsec.Ctx, segs []string) importtree.Node {
	if len(segs) == 0 {
		emitExpected(ctx, "import item")
		return &importtree.SimpleSegment{}
	}
	alias := optionalAsAlias(ctx)
	leaf := segs[len(segs)-1]
	if len(segs) == 1 {
		return &importtree.SimpleSegment{Name: leaf, AsName: alias}
	}
	return &importtree.SegmentList{
		Prefix:   segs[:len(segs)-1],
		Children: []importtree.Node{&importtree.SimpleSegment{Name: leaf, AsName: alias}},
	}
}

// parseHashImport handles `#import name(args?) as alias from path`.
func parseHashImport(ctx *parsec.Ctx, start int) *importtree.Tree {
	nameRes := parsec.Req(parsec.Kind("ident"), "import name")(ctx)
	name, _ := nameRes.Value.(string)
	args := optionalArgs(ctx)
	alias := optionalAsAlias(ctx)
	parsec.Req(parsec.Text("from"), "'from'")(ctx)
	relative := consumeRelativePrefix(ctx)
	pathSegs := pathSegments(ctx, parsec.Or(parsec.Text("/"), parsec.Text("::")))
	parsec.Text(";")(ctx)

	syntax := importtree.SyntaxHash
	if relative {
		syntax = importtree.SyntaxRelative
	}
	leaf := &importtree.SimpleSegment{Name: name, Args: args, AsName: alias,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
	return &importtree.Tree{
		Syntax: syntax,
		Root:   &importtree.SegmentList{Prefix: pathSegs, Children: []importtree.Node{leaf}},
		Span:   lexer.Span{Start: start, End: ctx.Lexer.Position()},
	}
}

func syntaxFor(relative bool) importtree.Syntax {
	if relative {
		return importtree.SyntaxRelative
	}
	return importtree.SyntaxGleam
}

// consumeRelativePrefix eats a leading "./" or "../" run, reporting
// whether one was present.
func consumeRelativePrefix(ctx *parsec.Ctx) bool {
	found := false
	for {
		pos := ctx.Lexer.Position()
		if parsec.Text(".")(ctx) != nil {
			parsec.Text(".")(ctx) // second '.' of "../"
			if parsec.Text("/")(ctx) != nil {
				found = true
				continue
			}
			ctx.Lexer.Position(pos)
			break
		}
		break
	}
	return found
}

func optionalArgs(ctx *parsec.Ctx) []string {
	if parsec.Text("(")(ctx) == nil {
		return nil
	}
	var args []string
	for {
		if parsec.Text(")")(ctx) != nil {
			break
		}
		r := parsec.Or(parsec.Kind("ident"), parsec.Kind("number"))(ctx)
		if r == nil {
			if anyToken(ctx) == nil {
				break
			}
			continue
		}
		args = append(args, r.Value.(string))
		if parsec.Text(",")(ctx) != nil {
			continue
		}
		parsec.Req(parsec.Text(")"), "')'")(ctx)
		break
	}
	return args
}

func optionalAsAlias(ctx *parsec.Ctx) string {
	if parsec.Text("as")(ctx) == nil {
		return ""
	}
	r := parsec.Req(parsec.Kind("ident"), "alias name")(ctx)
	name, _ := r.Value.(string)
	return name
}

// ---- export / extends / template directives ----

func exportDirective(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	if parsec.Text("#")(ctx) == nil {
		return nil
	}
	if parsec.Text("export")(ctx) == nil {
		ctx.Lexer.Position(start)
		return nil
	}
	var params []string
	parsec.Ignore(hashDirectiveIgnore, func(ctx *parsec.Ctx) *parsec.Result {
		if parsec.Text("(")(ctx) == nil {
			return &parsec.Result{}
		}
		for {
			if parsec.Text(")")(ctx) != nil {
				break
			}
			r := parsec.Req(parsec.Kind("ident"), "text ')'")(ctx)
			if name, ok := r.Value.(string); ok && name != "" {
				params = append(params, name)
			}
			if parsec.Text(",")(ctx) != nil {
				continue
			}
			parsec.Req(parsec.Text(")"), "text ')'")(ctx)
			break
		}
		return &parsec.Result{}
	})(ctx)
	var wrapped []*Elem
	if e := fnDecl(ctx); e != nil {
		wrapped = []*Elem{e}
	} else if e := structDecl(ctx); e != nil {
		wrapped = []*Elem{e}
	}
	exp := &Elem{Kind: KindExport, ExportParams: params,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
	if len(wrapped) > 0 {
		exp.Exported = wrapped[0]
		exp.Name = wrapped[0].Name
	}
	return exp
}

func extendsDirective(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	if parsec.Text("#")(ctx) == nil {
		return nil
	}
	if parsec.Or(parsec.Text("extends"), parsec.Text("importMerge"))(ctx) == nil {
		ctx.Lexer.Position(start)
		return nil
	}
	var name string
	var args []string
	var alias string
	var pathSegs []string
	var relative bool
	parsec.Ignore(hashDirectiveIgnore, func(ctx *parsec.Ctx) *parsec.Result {
		nameRes := parsec.Req(parsec.Kind("ident"), "extends target name")(ctx)
		name, _ = nameRes.Value.(string)
		args = optionalArgs(ctx)
		alias = optionalAsAlias(ctx)
		parsec.Req(parsec.Text("from"), "'from'")(ctx)
		relative = consumeRelativePrefix(ctx)
		pathSegs = pathSegments(ctx, parsec.Or(parsec.Text("/"), parsec.Text("::")))
		return &parsec.Result{}
	})(ctx)

	syntax := importtree.SyntaxHash
	if relative {
		syntax = importtree.SyntaxRelative
	}
	tree := &importtree.Tree{
		Syntax: syntax,
		Root: &importtree.SegmentList{Prefix: pathSegs, Children: []importtree.Node{
			&importtree.SimpleSegment{Name: name, Args: args, AsName: alias},
		}},
	}
	return &Elem{Kind: KindGlobalDirective, Name: "extends", Import: tree,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

func templateDirective(ctx *parsec.Ctx) *Elem {
	start := ctx.Lexer.Position()
	if parsec.Text("#")(ctx) == nil {
		return nil
	}
	if parsec.Text("template")(ctx) == nil {
		ctx.Lexer.Position(start)
		return nil
	}
	var name string
	parsec.Ignore(hashDirectiveIgnore, func(ctx *parsec.Ctx) *parsec.Result {
		nameRes := parsec.Req(parsec.Kind("ident"), "template name")(ctx)
		name, _ = nameRes.Value.(string)
		return &parsec.Result{}
	})(ctx)
	return &Elem{Kind: KindGlobalDirective, Name: "template:" + name,
		Span: lexer.Span{Start: start, End: ctx.Lexer.Position()}}
}

func emitExpected(ctx *parsec.Ctx, msg string) {
	pos := ctx.Lexer.Position()
	span := lexer.Span{Start: pos, End: pos}
	diag.Emit(diag.Diagnostic{
		Code: diag.ParExpected, Phase: diag.PhaseParse,
		Message: "expected " + msg, SourceName: ctx.SourceName, Span: &span,
	})
}
