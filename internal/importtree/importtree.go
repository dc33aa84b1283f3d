// Package importtree implements the data-structure half of component G:
// the ImportTree that all three import syntaxes (Gleam-style, hash-style,
// source-relative) fold into, independent of how each syntax is parsed.
package importtree

import (
	"strings"

	"github.com/sunholo/wgsllink/internal/lexer"
)

// Syntax records which surface syntax produced a Tree, purely for
// diagnostics — all three canonicalize to the same Flatten output.
type Syntax string

const (
	SyntaxGleam    Syntax = "gleam"
	SyntaxHash     Syntax = "hash"
	SyntaxRelative Syntax = "relative"
)

// Node is one node of an ImportTree: either a SimpleSegment leaf or an
// interior SegmentList.
type Node interface {
	// Flatten appends prefix to this node's own path contribution and
	// returns one LeafPath per leaf reachable from it.
	Flatten(prefix []string) []LeafPath
}

// SimpleSegment is a leaf: a single imported name, optionally carrying
// export arguments and a local rename.
type SimpleSegment struct {
	Name   string
	Args   []string
	AsName string
	Span   lexer.Span
}

// Flatten implements Node.
func (s *SimpleSegment) Flatten(prefix []string) []LeafPath {
	exp := joinCopy(prefix, s.Name)
	impName := s.Name
	if s.AsName != "" {
		impName = s.AsName
	}
	return []LeafPath{{
		ImpSegments: []string{impName},
		ExpSegments: exp,
		Args:        s.Args,
		AsName:      s.AsName,
		Span:        s.Span,
	}}
}

// SegmentList is an interior node: a common path prefix shared by
// every child, e.g. the `a::b::{…}` in `import a::b::{c, d::e}`.
type SegmentList struct {
	Prefix   []string
	Children []Node
	Span     lexer.Span
}

// Flatten implements Node.
func (l *SegmentList) Flatten(prefix []string) []LeafPath {
	full := append(append([]string{}, prefix...), l.Prefix...)
	var out []LeafPath
	for _, c := range l.Children {
		out = append(out, c.Flatten(full)...)
	}
	return out
}

// LeafPath is one flattened entry: the name the importing module uses
// locally (ImpSegments, almost always length 1 — a single local name
// or alias) and the exporter-side canonical path (ExpSegments) that
// names the exporting module plus its exported leaf.
type LeafPath struct {
	ImpSegments []string
	ExpSegments []string
	Args        []string
	AsName      string
	Span        lexer.Span
}

// ImpPath is the slash-joined local name used as a ResolveMap key.
func (p LeafPath) ImpPath() string { return strings.Join(p.ImpSegments, "/") }

// ModulePath returns the exporting module's canonical path (every
// ExpSegments entry but the last, which names the leaf itself).
func (p LeafPath) ModulePath() []string {
	if len(p.ExpSegments) == 0 {
		return nil
	}
	return p.ExpSegments[:len(p.ExpSegments)-1]
}

// LeafName is the final exported name within its module.
func (p LeafPath) LeafName() string {
	if len(p.ExpSegments) == 0 {
		return ""
	}
	return p.ExpSegments[len(p.ExpSegments)-1]
}

// Tree is one parsed import directive, regardless of surface syntax.
type Tree struct {
	Root   Node
	Syntax Syntax
	Span   lexer.Span
}

// Flatten produces every leaf path this tree names.
func (t *Tree) Flatten() []LeafPath {
	if t == nil || t.Root == nil {
		return nil
	}
	return t.Root.Flatten(nil)
}

func joinCopy(prefix []string, last string) []string {
	out := make([]string, 0, len(prefix)+1)
	out = append(out, prefix...)
	out = append(out, last)
	return out
}

// Canonicalize folds `::` and `.` separated logical module-path syntax
// — a Gleam-style `a::b::c` import or an explicit `module a.b.c`
// directive — to a single slash form (spec.md §4.G). Only use this on
// a logical path, where `.` is a path separator; an arbitrary registry
// key (a raw source path) can carry a `.` as a filename extension and
// must go through SplitCanonical instead.
func Canonicalize(path string) string {
	path = strings.ReplaceAll(path, "::", "/")
	path = strings.ReplaceAll(path, ".", "/")
	return path
}

// SplitCanonical splits a path on `::` and `/` into segments, dropping
// empty and "." segments (so a leading "./" contributes nothing); ".."
// segments are kept. Unlike Canonicalize, it
// never folds `.` to `/`: callers use this on registry keys (a
// module's own raw source path), where a `.` is a filename extension,
// not a separator — fallback canonical paths derived this way must
// keep that extension intact.
func SplitCanonical(path string) []string {
	path = strings.ReplaceAll(path, "::", "/")
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		out = append(out, p)
	}
	return out
}
