package link

import (
	"fmt"

	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/module"
	"github.com/sunholo/wgsllink/internal/wgsl"
)

// ArgRef marks a call/typeRef child as bound to the current import
// chain's export-parameter substitution rather than a resolvable
// declaration (spec.md §4.G name-lookup step 1: "arg reference, do not
// recurse").
type ArgRef struct {
	Param string
	Value string
}

// Visit is called once per distinct FoundRef, in traversal order. Its
// return value controls whether traversal recurses into that ref's own
// children; a ref already visited under the same refFullName is never
// delivered twice regardless of what a prior call returned.
type Visit func(ref *FoundRef) bool

// TraverseRefs walks every reference reachable from root's top-level
// declarations, resolving each through reg and invoking visit once per
// distinct refFullName (spec.md §4.I).
func TraverseRefs(root *module.Module, reg *module.Registry, visit Visit) {
	t := &traversal{reg: reg, visited: map[string]bool{}, visit: visit}
	var level []*FoundRef
	for _, e := range rootDecls(root) {
		level = append(level, &FoundRef{Mod: root, Name: e.Name, Elem: e})
	}
	for len(level) > 0 {
		level = t.runLevel(level)
	}
}

// rootDecls returns root's top-level fn/struct/alias/var elements, in
// source order (spec.md §4.I step 1).
func rootDecls(m *module.Module) []*wgsl.Elem {
	var out []*wgsl.Elem
	for _, e := range m.Elems {
		switch e.Kind {
		case wgsl.KindFn, wgsl.KindStruct, wgsl.KindAlias, wgsl.KindVar:
			out = append(out, e)
		}
	}
	return out
}

type traversal struct {
	reg     *module.Registry
	visited map[string]bool
	visit   Visit
}

// runLevel processes one BFS level and returns the next, with the next
// level's refs grouped by exporting module so every ref into one
// module resolves in a single sweep before the traversal descends
// further (spec.md §4.I ordering, §5).
func (t *traversal) runLevel(level []*FoundRef) []*FoundRef {
	byModule := map[string][]*FoundRef{}
	var order []string

	for _, ref := range level {
		key := refFullName(ref)
		if t.visited[key] {
			continue
		}
		t.visited[key] = true

		recurse := t.visit(ref)
		// A ref into a generator module terminates traversal at that
		// node regardless of what visit returns (spec.md §4.I step 5).
		if !recurse || ref.IsGenerator() {
			continue
		}

		for _, c := range t.childRefs(ref) {
			mp := c.Mod.CanonicalPath()
			if _, ok := byModule[mp]; !ok {
				order = append(order, mp)
			}
			byModule[mp] = append(byModule[mp], c)
		}
	}

	var next []*FoundRef
	for _, mp := range order {
		next = append(next, byModule[mp]...)
	}
	return next
}

// childRefs computes and resolves every call/typeRef reachable
// directly from ref's element (spec.md §4.I steps 2-3).
func (t *traversal) childRefs(ref *FoundRef) []*FoundRef {
	if ref.Elem == nil {
		return nil
	}
	bindings := map[string]string{}
	for _, a := range ref.ExpImpArgs {
		bindings[a.Param] = a.Value
	}

	var candidates []*wgsl.Elem
	switch ref.Elem.Kind {
	case wgsl.KindFn:
		candidates = append(candidates, ref.Elem.Calls...)
		candidates = append(candidates, ref.Elem.TypeRefs...)
	case wgsl.KindStruct:
		for _, member := range ref.Elem.Members {
			candidates = append(candidates, member.TypeRefs...)
		}
	case wgsl.KindVar, wgsl.KindAlias, wgsl.KindMember:
		candidates = append(candidates, ref.Elem.TypeRefs...)
	}

	var out []*FoundRef
	for _, child := range candidates {
		if v, ok := bindings[child.Name]; ok {
			child.Ref = &ArgRef{Param: child.Name, Value: v}
			continue
		}
		if c := t.resolveChild(ref.Mod, child); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// resolveChild runs the name-lookup procedure (spec.md §4.G steps 2-4)
// for one call/typeRef child and produces the FoundRef it binds to, or
// emits a "reference not found" diagnostic and leaves child.Ref unset.
func (t *traversal) resolveChild(mod *module.Module, child *wgsl.Elem) *FoundRef {
	me, elem, ok := t.reg.Lookup(mod, child.Name)
	if !ok {
		diag.Emit(diag.Diagnostic{
			Code:       diag.RefNotFound,
			Phase:      diag.PhaseTraverse,
			Message:    fmt.Sprintf("reference not found: %s", child.Name),
			Source:     mod.Source,
			SourceName: mod.SourceName,
			Span:       &child.Span,
			SrcMap:     mod.SrcMap,
		})
		return nil
	}

	var ref *FoundRef
	if me != nil {
		exp := me.Export
		ref = &FoundRef{
			Mod:        exp.Module,
			Name:       exp.Name,
			Elem:       exp.Elem,
			Gen:        exp.Gen,
			ExpImpArgs: zipArgs(exp.Params, me.Args),
		}
	} else {
		ref = &FoundRef{Mod: mod, Name: elem.Name, Elem: elem}
	}
	child.Ref = ref
	return ref
}

// zipArgs pairs an export's declared parameter names with the values
// an import supplied, in declaration order. Mismatched counts are
// already diagnosed at resolve-map construction (spec.md §7); here the
// shorter length wins so traversal never indexes out of range.
func zipArgs(params, values []string) []ArgBinding {
	n := len(params)
	if len(values) < n {
		n = len(values)
	}
	out := make([]ArgBinding, n)
	for i := 0; i < n; i++ {
		out[i] = ArgBinding{Param: params[i], Value: values[i]}
	}
	return out
}
