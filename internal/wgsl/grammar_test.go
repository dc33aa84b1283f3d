package wgsl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/importtree"
)

func findKind(elems []*Elem, k Kind) *Elem {
	for _, e := range elems {
		if e.Kind == k {
			return e
		}
	}
	return nil
}

func TestParseFnDecl(t *testing.T) {
	res := Parse("t.wgsl", "fn main() { foo(); }", 0)
	fn := findKind(res.Elems, KindFn)
	if fn == nil {
		t.Fatalf("expected a fn element, got %+v", res.Elems)
	}
	if fn.Name != "main" {
		t.Fatalf("expected fn name main, got %s", fn.Name)
	}
	if len(fn.Calls) != 1 || fn.Calls[0].Name != "foo" {
		t.Fatalf("expected one call to foo, got %+v", fn.Calls)
	}
}

func TestParseFnExcludesRecursiveSelfCall(t *testing.T) {
	res := Parse("t.wgsl", "fn main() { main(); }", 0)
	fn := findKind(res.Elems, KindFn)
	if fn == nil {
		t.Fatalf("expected a fn element")
	}
	if len(fn.Calls) != 0 {
		t.Fatalf("expected self-call to be excluded, got %+v", fn.Calls)
	}
}

func TestParseFnExcludesBuiltinsAndCallishKeywords(t *testing.T) {
	res := Parse("t.wgsl", "fn main() { if (true) { return; } let x = sin(1.0); }", 0)
	fn := findKind(res.Elems, KindFn)
	if fn == nil {
		t.Fatalf("expected a fn element")
	}
	if len(fn.Calls) != 0 {
		t.Fatalf("expected no user calls collected, got %+v", fn.Calls)
	}
}

func TestParseStructMutualRecursion(t *testing.T) {
	// spec.md §8 scenario S4: mutually-recursive struct types.
	res := Parse("t.wgsl", "struct A { b: B } struct B { a: A }", 0)
	a := findKind(res.Elems, KindStruct)
	if a == nil {
		t.Fatalf("expected at least one struct element")
	}
	var structs []*Elem
	for _, e := range res.Elems {
		if e.Kind == KindStruct {
			structs = append(structs, e)
		}
	}
	if len(structs) != 2 {
		t.Fatalf("expected 2 structs, got %d", len(structs))
	}
	if structs[0].Name != "A" || structs[1].Name != "B" {
		t.Fatalf("expected A then B, got %s then %s", structs[0].Name, structs[1].Name)
	}
	if len(structs[0].Members) != 1 || len(structs[0].Members[0].TypeRefs) != 1 ||
		structs[0].Members[0].TypeRefs[0].Name != "B" {
		t.Fatalf("expected A.b typeRef B, got %+v", structs[0].Members)
	}
	if len(structs[1].Members) != 1 || len(structs[1].Members[0].TypeRefs) != 1 ||
		structs[1].Members[0].TypeRefs[0].Name != "A" {
		t.Fatalf("expected B.a typeRef A, got %+v", structs[1].Members)
	}
}

func TestParseGlobalVarAndAlias(t *testing.T) {
	res := Parse("t.wgsl", "alias Foo = u32; var<private> counter: Foo;", 0)
	alias := findKind(res.Elems, KindAlias)
	if alias == nil || alias.Name != "Foo" || alias.Target != "u32" {
		t.Fatalf("expected alias Foo=u32, got %+v", alias)
	}
	v := findKind(res.Elems, KindVar)
	if v == nil || v.Name != "counter" {
		t.Fatalf("expected var counter, got %+v", v)
	}
	if len(v.TypeRefs) != 1 || v.TypeRefs[0].Name != "Foo" {
		t.Fatalf("expected typeRef Foo on counter, got %+v", v.TypeRefs)
	}
}

func TestParseAttributesAreSkipped(t *testing.T) {
	res := Parse("t.wgsl", "@vertex @workgroup_size(8, 8, 1) fn vs() { }", 0)
	fn := findKind(res.Elems, KindFn)
	if fn == nil || fn.Name != "vs" {
		t.Fatalf("expected fn vs despite attributes, got %+v", res.Elems)
	}
}

func TestParseTemplatedTypeSpecifier(t *testing.T) {
	res := Parse("t.wgsl", "fn f(x: ptr<storage, array<Foo, 4>, read>) { }", 0)
	fn := findKind(res.Elems, KindFn)
	if fn == nil {
		t.Fatalf("expected fn element")
	}
	var names []string
	for _, tr := range fn.TypeRefs {
		names = append(names, tr.Name)
	}
	if !contains(names, "Foo") {
		t.Fatalf("expected Foo collected as typeRef among %v", names)
	}
	if contains(names, "storage") || contains(names, "read") {
		t.Fatalf("address-space keywords must not become typeRefs, got %v", names)
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func TestParseModuleDirective(t *testing.T) {
	res := Parse("t.wgsl", "module bar; #export fn foo() { }", 0)
	mod := findKind(res.Elems, KindModule)
	if mod == nil || len(mod.PathSegments) != 1 || mod.PathSegments[0] != "bar" {
		t.Fatalf("expected module bar, got %+v", mod)
	}
	exp := findKind(res.Elems, KindExport)
	if exp == nil || exp.Exported == nil || exp.Exported.Name != "foo" {
		t.Fatalf("expected export wrapping fn foo, got %+v", exp)
	}
}

// TestS2RootImportsModuleLeaf covers the wgsl-level parse half of
// spec.md §8 scenario S2; the cross-module traversal itself belongs to
// internal/link.
func TestS2RootImportsModuleLeaf(t *testing.T) {
	root := Parse("root.wgsl", "import bar::foo; module main; fn main() { foo(); }", 0)
	imp := findKind(root.Elems, KindTreeImport)
	if imp == nil {
		t.Fatalf("expected a treeImport element")
	}
	tree, ok := imp.Import.(*importtree.Tree)
	if !ok || tree == nil {
		t.Fatalf("expected Import to hold a concrete *importtree.Tree, got %T", imp.Import)
	}
	leaves := tree.Flatten()
	if len(leaves) != 1 || leaves[0].LeafName() != "foo" {
		t.Fatalf("expected one leaf named foo, got %+v", leaves)
	}
}

func TestS3ImportArgsFromAndExportedFnWithLocalSupport(t *testing.T) {
	child := Parse("child.wgsl", `
module lib;
fn support() { }
#export (A)
fn foo() { support(); }
`, 0)
	exp := findKind(child.Elems, KindExport)
	if exp == nil {
		t.Fatalf("expected export element")
	}
	if len(exp.ExportParams) != 1 || exp.ExportParams[0] != "A" {
		t.Fatalf("expected export param A, got %v", exp.ExportParams)
	}
	if exp.Exported == nil || exp.Exported.Name != "foo" {
		t.Fatalf("expected export to wrap fn foo, got %+v", exp.Exported)
	}
	if len(exp.Exported.Calls) != 1 || exp.Exported.Calls[0].Name != "support" {
		t.Fatalf("expected foo to call support, got %+v", exp.Exported.Calls)
	}

	root := Parse("root.wgsl", "import foo(u32) from ./file1; module main; fn main() { foo(); }", 0)
	imp := findKind(root.Elems, KindTreeImport)
	if imp == nil {
		t.Fatalf("expected treeImport element in root")
	}
}

// TestS6UnterminatedHashExportFails covers spec.md §8 scenario S6: a
// multi-line, unterminated #export parameter list must fail instead of
// silently spanning lines to find a later ')'.
func TestS6UnterminatedHashExportFails(t *testing.T) {
	cap, sink := diag.NewCapture()
	var res *ParseResult
	diag.WithSink(sink, func() {
		res = Parse("t.wgsl", "#export (A\n   )\n", 0)
	})
	if findKind(res.Elems, KindExport) != nil && findKind(res.Elems, KindFn) != nil {
		t.Fatalf("expected no fn to be produced from the malformed export")
	}
	if len(cap.Diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	found := false
	for _, msg := range cap.Messages() {
		if strings.Contains(msg, "expected text ')'") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a diagnostic containing %q, got %v", "expected text ')'", cap.Messages())
	}
}

func TestExtendsDirective(t *testing.T) {
	res := Parse("t.wgsl", "#extends Base(u32) as MyBase from ../shared;", 0)
	d := findKind(res.Elems, KindGlobalDirective)
	if d == nil || d.Name != "extends" {
		t.Fatalf("expected extends directive, got %+v", res.Elems)
	}
	if d.Import == nil {
		t.Fatalf("expected extends to carry an import tree")
	}
}

func TestTemplateDirective(t *testing.T) {
	res := Parse("t.wgsl", "#template MyTemplate\nfn f() { }", 0)
	d := findKind(res.Elems, KindGlobalDirective)
	if d == nil || d.Name != "template:MyTemplate" {
		t.Fatalf("expected template directive, got %+v", res.Elems)
	}
	if findKind(res.Elems, KindFn) == nil {
		t.Fatalf("expected fn f to still be parsed after the template directive")
	}
}

func TestImportBracedMultiLeaf(t *testing.T) {
	res := Parse("t.wgsl", "import a::b::{c, d::e};", 0)
	imp := findKind(res.Elems, KindTreeImport)
	if imp == nil {
		t.Fatalf("expected treeImport element")
	}
	tree, ok := imp.Import.(*importtree.Tree)
	if !ok || tree == nil {
		t.Fatalf("expected a concrete *importtree.Tree, got %T", imp.Import)
	}
	leaves := tree.Flatten()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves (a/b/c and a/b/d/e), got %+v", leaves)
	}
	if got := leaves[0].ModulePath(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected module path [a b] for first leaf, got %v", got)
	}
	if leaves[0].LeafName() != "c" {
		t.Fatalf("expected first leaf name c, got %s", leaves[0].LeafName())
	}
	if got := leaves[1].ModulePath(); len(got) != 3 || got[2] != "d" {
		t.Fatalf("expected module path [a b d] for second leaf, got %v", got)
	}
	if leaves[1].LeafName() != "e" {
		t.Fatalf("expected second leaf name e, got %s", leaves[1].LeafName())
	}
}

func TestHashImportBasic(t *testing.T) {
	res := Parse("t.wgsl", "#import foo from bar::baz;", 0)
	imp := findKind(res.Elems, KindTreeImport)
	if imp == nil {
		t.Fatalf("expected treeImport element")
	}
}

// TestParseTopLevelElemKinds diffs the full sequence of top-level
// element kinds/names at once, rather than indexing into each one.
func TestParseTopLevelElemKinds(t *testing.T) {
	res := Parse("t.wgsl", "module main; fn a() { } struct B { x: f32 } alias C = u32;", 0)

	type kindName struct {
		Kind Kind
		Name string
	}
	var got []kindName
	for _, e := range res.Elems {
		got = append(got, kindName{e.Kind, e.Name})
	}
	want := []kindName{
		{KindModule, ""},
		{KindFn, "a"},
		{KindStruct, "B"},
		{KindAlias, "C"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("top-level elem kinds mismatch (-want +got):\n%s", diff)
	}
}
