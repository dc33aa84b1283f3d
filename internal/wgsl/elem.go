// Package wgsl implements component F of the linker core: a concrete
// WGSL grammar built on internal/parsec that produces an ordered
// element list per module, plus the import/export/extends/template
// directives component G folds into an ImportTree.
package wgsl

import "github.com/sunholo/wgsllink/internal/lexer"

// Kind discriminates the tagged Elem variants named in spec.md §3.
type Kind string

const (
	KindFn              Kind = "fn"
	KindStruct          Kind = "struct"
	KindVar             Kind = "var"
	KindAlias           Kind = "alias"
	KindCall            Kind = "call"
	KindTypeRef         Kind = "typeRef"
	KindTreeImport      Kind = "treeImport"
	KindModule          Kind = "module"
	KindExport          Kind = "export"
	KindGlobalDirective Kind = "globalDirective"
	KindMember          Kind = "member"
	KindFnName          Kind = "fnName"
	KindTypeName        Kind = "typeName"
	KindVarName         Kind = "varName"
)

// Elem is the flat tagged element every top-level (and nested) WGSL
// construct parses into. Only the fields relevant to Kind are
// populated; this mirrors the "one node shape with a kind tag" style
// of the teacher's ast.Node family, collapsed into a single type
// because the grammar here produces a flat list rather than a nested
// tree.
type Elem struct {
	Kind Kind
	Name string
	Span lexer.Span

	// fn: nested references discovered in its signature and body.
	Calls    []*Elem
	TypeRefs []*Elem

	// struct: one Elem per field, Kind == KindMember.
	Members []*Elem

	// alias: the aliased type name.
	Target string

	// call / typeRef: filled in by internal/link during traversal.
	// Declared as `any` (rather than a concrete *link.FoundRef) so
	// this package never imports internal/link, which depends on
	// wgsl.Elem itself.
	Ref any

	// export: wraps the fn/struct declaration that follows it, plus
	// its declared type-parameter names (`#export (A, B)`).
	ExportParams []string
	Exported     *Elem

	// treeImport: the parsed import tree (internal/importtree.Tree).
	Import any

	// module: canonical path segments, e.g. []string{"foo","bar"}.
	PathSegments []string
}

// IsResolvable reports whether e is a call or typeRef that traversal
// is expected to bind to a FoundRef.
func (e *Elem) IsResolvable() bool {
	return e.Kind == KindCall || e.Kind == KindTypeRef
}
