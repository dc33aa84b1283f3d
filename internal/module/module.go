// Package module implements component H of the linker core: an
// in-memory registry of parsed WGSL modules, plus the per-module
// resolve-map construction that component G's import trees fold into
// (spec.md §4.G, §4.H). Nothing here touches a filesystem — a Registry
// is built entirely from a dictionary of {path: source} the caller
// hands in, mirroring the teacher's loader.Module shape but with
// spec.md §1's "no filesystem loading" boundary respected.
package module

import (
	"strings"

	"github.com/sunholo/wgsllink/internal/srcmap"
	"github.com/sunholo/wgsllink/internal/wgsl"
)

// GeneratorModule contributes a synthetic export backed by a function
// rather than parsed WGSL text. Its output is emitted verbatim and
// never re-parsed (spec.md §4.H).
type GeneratorModule struct {
	PathSegments []string
	Name         string
	Fn           func(args []string) string
}

// Export is one declaration a module makes available to importers: the
// wrapped fn/struct element plus its declared export parameters. Elem
// is nil for a generator-backed export.
type Export struct {
	Name   string
	Elem   *wgsl.Elem
	Params []string
	Module *Module
	Gen    *GeneratorModule
}

// Module is one entry in the registry: either parsed WGSL text or a
// generator module standing in for it.
type Module struct {
	PathSegments    []string
	SourceName      string
	Source          string
	Elems           []*wgsl.Elem
	SrcMap          *srcmap.SourceMap
	BudgetExhausted bool
	Generator       *GeneratorModule

	exports map[string]*Export
}

// CanonicalPath is the slash-joined module path used to index the
// registry (spec.md §4.G: "module foo.bar declares the canonical path
// foo/bar").
func (m *Module) CanonicalPath() string { return strings.Join(m.PathSegments, "/") }

// Exports returns this module's name -> Export table.
func (m *Module) Exports() map[string]*Export { return m.exports }

// Declarations returns every top-level fn/struct/alias/var element the
// module declares directly — the set a name lookup falls back to after
// checking imports (spec.md §4.G step 3).
func (m *Module) Declarations() map[string]*wgsl.Elem {
	out := make(map[string]*wgsl.Elem, len(m.Elems))
	for _, e := range m.Elems {
		switch e.Kind {
		case wgsl.KindFn, wgsl.KindStruct, wgsl.KindAlias, wgsl.KindVar:
			out[e.Name] = e
		}
	}
	return out
}

// buildExports scans a module's parsed element list for export
// directives and returns the name -> Export table they declare. The
// Module back-pointer is filled in by the caller once the owning
// *Module exists.
func buildExports(elems []*wgsl.Elem) map[string]*Export {
	out := make(map[string]*Export)
	for _, e := range elems {
		if e.Kind != wgsl.KindExport || e.Exported == nil {
			continue
		}
		out[e.Exported.Name] = &Export{
			Name:   e.Exported.Name,
			Elem:   e.Exported,
			Params: e.ExportParams,
		}
	}
	return out
}
