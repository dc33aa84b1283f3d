// Package link implements component I of the linker core: reference
// traversal from a root module outward through its imports, resolving
// every call and type reference to the element it names (spec.md
// §4.I, §5).
package link

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/sunholo/wgsllink/internal/module"
	"github.com/sunholo/wgsllink/internal/wgsl"
)

// ArgBinding is one export-parameter -> argument-value pair captured
// at the point a parameterized export was imported (`import foo(u32)`,
// `#export (A)`). Order matches the export's declared parameter order.
type ArgBinding struct {
	Param string
	Value string
}

// FoundRef is a traversal node: a reference resolved to either a
// parsed text element or a generator module's synthetic export.
type FoundRef struct {
	Mod        *module.Module
	Name       string
	Elem       *wgsl.Elem              // nil for a generator ref
	Gen        *module.GeneratorModule // nil for a text ref
	ExpImpArgs []ArgBinding
}

// IsGenerator reports whether this ref terminates at a generator
// module rather than a parsed element.
func (f *FoundRef) IsGenerator() bool { return f.Gen != nil }

// refFullName is the traversal's deduplication key (spec.md §9): the
// exporting module's canonical path, the element name, and — when
// present — a stable hash of the ref's expImpArgs, so the same
// parameterized export instantiated with different arguments produces
// distinct refs. Hashing follows the teacher's stable-ID idiom
// (internal/sid/sid.go, internal/iface/builder.go): join the parts,
// sha256, keep a short hex prefix.
func refFullName(f *FoundRef) string {
	base := f.Mod.CanonicalPath() + "::" + f.Name
	if len(f.ExpImpArgs) == 0 {
		return base
	}
	var parts []string
	for _, a := range f.ExpImpArgs {
		parts = append(parts, a.Param+"="+a.Value)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return base + "#" + hex.EncodeToString(sum[:])[:12]
}
