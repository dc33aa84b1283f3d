package module

import (
	"fmt"
	"strings"

	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/importtree"
	"github.com/sunholo/wgsllink/internal/wgsl"
)

// applyExtends resolves every `#extends`/`#importMerge` directive
// across all parsed modules and merges the referenced struct's
// members into the struct declaration that follows it in source order
// (spec.md §6's struct member union, §7's error handling for a
// non-struct target). Runs once, after every module in the batch has
// parsed, so a directive in one module can reach a struct exported by
// another.
func (r *Registry) applyExtends() {
	for _, m := range r.modules {
		if m.Generator != nil {
			continue
		}
		for i, e := range m.Elems {
			if e.Kind != wgsl.KindGlobalDirective || e.Name != "extends" {
				continue
			}
			tree, _ := e.Import.(*importtree.Tree)
			if tree == nil {
				continue
			}
			leaves := tree.Flatten()
			if len(leaves) == 0 {
				continue
			}
			target := nextStruct(m.Elems, i+1)
			if target == nil {
				diag.Emit(diag.Diagnostic{
					Code: diag.ImpExtendsTargetNotStruct, Phase: diag.PhaseResolve,
					Message:    "#extends is not followed by a struct declaration",
					Source:     m.Source,
					SourceName: m.SourceName,
					Span:       &e.Span,
					SrcMap:     m.SrcMap,
				})
				continue
			}
			r.mergeExtends(m, e, target, leaves[0])
		}
	}
}

// nextStruct returns the first KindStruct element at or after index
// from, or nil if none follows (spec.md §7: "`#extends` not followed
// by a struct — logs at the directive's position; directive is
// ignored").
func nextStruct(elems []*wgsl.Elem, from int) *wgsl.Elem {
	for i := from; i < len(elems); i++ {
		if elems[i].Kind == wgsl.KindStruct {
			return elems[i]
		}
	}
	return nil
}

// mergeExtends resolves leaf against the already-indexed registry
// (never through Parsed/ModuleByPath, which would re-enter the
// in-progress parse) and prepends the resolved struct's members onto
// target's own.
func (r *Registry) mergeExtends(m *Module, directive, target *wgsl.Elem, leaf importtree.LeafPath) {
	srcMod := r.byPath[strings.Join(leaf.ModulePath(), "/")]
	if srcMod == nil {
		diag.Emit(diag.Diagnostic{
			Code: diag.ImpExportNotFound, Phase: diag.PhaseResolve,
			Message:    fmt.Sprintf("no module %q", strings.Join(leaf.ModulePath(), "/")),
			Source:     m.Source,
			SourceName: m.SourceName,
			Span:       &directive.Span,
			SrcMap:     m.SrcMap,
		})
		return
	}
	exp, ok := srcMod.Exports()[leaf.LeafName()]
	if !ok {
		diag.Emit(diag.Diagnostic{
			Code: diag.ImpExportNotFound, Phase: diag.PhaseResolve,
			Message:    fmt.Sprintf("module %q has no export %q", srcMod.CanonicalPath(), leaf.LeafName()),
			Source:     m.Source,
			SourceName: m.SourceName,
			Span:       &directive.Span,
			SrcMap:     m.SrcMap,
		})
		return
	}
	if exp.Elem == nil || exp.Elem.Kind != wgsl.KindStruct {
		diag.Emit(diag.Diagnostic{
			Code: diag.ImpExtendsTargetNotStruct, Phase: diag.PhaseResolve,
			Message:    fmt.Sprintf("#extends target %q is not a struct", leaf.LeafName()),
			Source:     m.Source,
			SourceName: m.SourceName,
			Span:       &directive.Span,
			SrcMap:     m.SrcMap,
		})
		return
	}
	merged := make([]*wgsl.Elem, 0, len(exp.Elem.Members)+len(target.Members))
	merged = append(merged, exp.Elem.Members...)
	merged = append(merged, target.Members...)
	target.Members = merged
}
