package module

import (
	"strings"
	"testing"

	"github.com/sunholo/wgsllink/internal/diag"
)

func TestRegistryParsesAndIndexesByModulePath(t *testing.T) {
	reg := New(Config{WGSL: map[string]string{
		"lib.wgsl": "module lib; #export fn foo() { }",
	}})
	m := reg.ModuleByPath([]string{"lib"})
	if m == nil {
		t.Fatalf("expected module lib to be indexed by canonical path")
	}
	if _, ok := m.Exports()["foo"]; !ok {
		t.Fatalf("expected lib to export foo, got %+v", m.Exports())
	}
}

func TestRegistryFallsBackToFilePathWhenNoModuleDirective(t *testing.T) {
	reg := New(Config{WGSL: map[string]string{
		"a/b.wgsl": "fn helper() { }",
	}})
	m := reg.FindTextModule("a/b.wgsl")
	if m == nil {
		t.Fatalf("expected to find module by file path")
	}
	if m.CanonicalPath() != "a/b.wgsl" {
		t.Fatalf("expected canonical path a/b.wgsl, got %s", m.CanonicalPath())
	}
}

// TestS2ResolveImportAcrossModules covers spec.md §8 scenario S2 at the
// module-registry level: root imports bar::foo and calls it.
func TestS2ResolveImportAcrossModules(t *testing.T) {
	reg := New(Config{WGSL: map[string]string{
		"bar.wgsl":  "module bar; #export fn foo() { }",
		"root.wgsl": "import bar::foo; module main; fn main() { foo(); }",
	}})
	root := reg.ModuleByPath([]string{"main"})
	if root == nil {
		t.Fatalf("expected root module main")
	}
	me, _, ok := reg.Lookup(root, "foo")
	if !ok || me == nil || me.Export == nil {
		t.Fatalf("expected foo to resolve via import, got me=%+v ok=%v", me, ok)
	}
	if me.Export.Module.CanonicalPath() != "bar" {
		t.Fatalf("expected foo to resolve to module bar, got %s", me.Export.Module.CanonicalPath())
	}
}

// TestS3ArgCountMismatchEmitsDiagnostic covers the export-parameter
// count check from spec.md §4.G/§8 scenario S3.
func TestS3ArgCountMismatchEmitsDiagnostic(t *testing.T) {
	reg := New(Config{WGSL: map[string]string{
		"lib.wgsl":  "module lib; #export (A) fn foo() { }",
		"root.wgsl": "import foo from lib; module main; fn main() { foo(); }",
	}})
	root := reg.ModuleByPath([]string{"main"})

	cap, sink := diag.NewCapture()
	diag.WithSink(sink, func() {
		reg.ImportResolveMap(root)
	})
	found := false
	for _, msg := range cap.Messages() {
		if strings.Contains(msg, "argument") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an argument-count diagnostic, got %v", cap.Messages())
	}
}

func TestUnknownModuleEmitsDiagnosticWithSuggestions(t *testing.T) {
	reg := New(Config{WGSL: map[string]string{
		"barn.wgsl": "module barn; #export fn foo() { }",
		"root.wgsl": "import bar::foo; module main; fn main() { foo(); }",
	}})
	root := reg.ModuleByPath([]string{"main"})

	cap, sink := diag.NewCapture()
	diag.WithSink(sink, func() {
		reg.ImportResolveMap(root)
	})
	if len(cap.Diags) == 0 {
		t.Fatalf("expected a diagnostic for the unresolved module")
	}
	sugg, _ := cap.Diags[0].Data["suggestions"].([]string)
	if len(sugg) == 0 || sugg[0] != "barn" {
		t.Fatalf("expected barn suggested for bar, got %v", sugg)
	}
}

func TestGeneratorModuleExportResolves(t *testing.T) {
	reg := New(Config{
		WGSL: map[string]string{
			"root.wgsl": "import gen::make; module main; fn main() { make(); }",
		},
		Generators: []GeneratorModule{
			{PathSegments: []string{"gen"}, Name: "make", Fn: func(args []string) string { return "fn make() { }" }},
		},
	})
	root := reg.ModuleByPath([]string{"main"})
	me, _, ok := reg.Lookup(root, "make")
	if !ok || me == nil || me.Export == nil || me.Export.Gen == nil {
		t.Fatalf("expected make to resolve to a generator export, got %+v ok=%v", me, ok)
	}
}

func TestLookupFallsBackToOwnDeclarations(t *testing.T) {
	reg := New(Config{WGSL: map[string]string{
		"root.wgsl": "module main; fn helper() { } fn main() { helper(); }",
	}})
	root := reg.ModuleByPath([]string{"main"})
	_, elem, ok := reg.Lookup(root, "helper")
	if !ok || elem == nil || elem.Name != "helper" {
		t.Fatalf("expected helper to resolve via own declarations, got %+v ok=%v", elem, ok)
	}
}

func TestExtendsMergesStructMembers(t *testing.T) {
	reg := New(Config{WGSL: map[string]string{
		"shared": "module shared; #export () struct Base { x: f32, y: f32 }",
		"root":   "#extends Base from shared;\nmodule main;\nstruct Point { z: f32 }",
	}})
	main := reg.ModuleByPath([]string{"main"})
	point := main.Declarations()["Point"]
	if point == nil {
		t.Fatalf("expected struct Point to be declared")
	}
	if len(point.Members) != 3 {
		t.Fatalf("expected Point to have 3 members after extends merge, got %d: %+v", len(point.Members), point.Members)
	}
	names := []string{point.Members[0].Name, point.Members[1].Name, point.Members[2].Name}
	if names[0] != "x" || names[1] != "y" || names[2] != "z" {
		t.Fatalf("expected merged members x, y, z in order, got %v", names)
	}
}

func TestExtendsNonStructTargetEmitsDiagnostic(t *testing.T) {
	reg := New(Config{WGSL: map[string]string{
		"shared": "module shared; #export fn notAStruct() { }",
		"root":   "#extends notAStruct from shared;\nmodule main;\nstruct Point { z: f32 }",
	}})

	cap, sink := diag.NewCapture()
	diag.WithSink(sink, func() {
		reg.Parsed()
	})
	found := false
	for _, d := range cap.Diags {
		if d.Code == diag.ImpExtendsTargetNotStruct {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an IMP003 diagnostic, got codes %v", cap.Codes())
	}
}
