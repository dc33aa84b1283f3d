package importtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlattenSimpleLeaf(t *testing.T) {
	tree := &Tree{Syntax: SyntaxGleam, Root: &SegmentList{
		Prefix:   []string{"bar"},
		Children: []Node{&SimpleSegment{Name: "foo"}},
	}}
	leaves := tree.Flatten()
	if len(leaves) != 1 {
		t.Fatalf("expected 1 leaf, got %d", len(leaves))
	}
	if got := leaves[0].ModulePath(); len(got) != 1 || got[0] != "bar" {
		t.Fatalf("expected module path [bar], got %v", got)
	}
	if leaves[0].LeafName() != "foo" {
		t.Fatalf("expected leaf name foo, got %s", leaves[0].LeafName())
	}
	if leaves[0].ImpPath() != "foo" {
		t.Fatalf("expected impPath foo, got %s", leaves[0].ImpPath())
	}
}

func TestFlattenBracedMultiLeaf(t *testing.T) {
	// import a::b::{c, d::e}
	tree := &Tree{Syntax: SyntaxGleam, Root: &SegmentList{
		Prefix: []string{"a", "b"},
		Children: []Node{
			&SimpleSegment{Name: "c"},
			&SegmentList{Prefix: []string{"d"}, Children: []Node{&SimpleSegment{Name: "e"}}},
		},
	}}
	leaves := tree.Flatten()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(leaves))
	}
	if got := leaves[0].ModulePath(); len(got) != 2 || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
	if got := leaves[1].ModulePath(); len(got) != 3 || got[2] != "d" {
		t.Fatalf("expected [a b d], got %v", got)
	}
	if leaves[1].LeafName() != "e" {
		t.Fatalf("expected leaf name e, got %s", leaves[1].LeafName())
	}
}

func TestFlattenRename(t *testing.T) {
	tree := &Tree{Root: &SegmentList{
		Prefix:   []string{"bar"},
		Children: []Node{&SimpleSegment{Name: "foo", AsName: "aliased"}},
	}}
	leaves := tree.Flatten()
	if leaves[0].ImpPath() != "aliased" {
		t.Fatalf("expected alias to win for ImpPath, got %s", leaves[0].ImpPath())
	}
	if leaves[0].LeafName() != "foo" {
		t.Fatalf("expected export-side leaf name to stay foo, got %s", leaves[0].LeafName())
	}
}

func TestCanonicalize(t *testing.T) {
	if got := Canonicalize("a::b::c"); got != "a/b/c" {
		t.Fatalf("expected a/b/c, got %s", got)
	}
	if got := Canonicalize("foo.bar"); got != "foo/bar" {
		t.Fatalf("expected foo/bar, got %s", got)
	}
}

func TestSplitCanonical(t *testing.T) {
	got := SplitCanonical("./a/b")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

// TestFlattenBracedMultiLeafModulePaths diffs the full set of flattened
// module paths at once, rather than indexing into individual leaves.
func TestFlattenBracedMultiLeafModulePaths(t *testing.T) {
	tree := &Tree{Syntax: SyntaxGleam, Root: &SegmentList{
		Prefix: []string{"a", "b"},
		Children: []Node{
			&SimpleSegment{Name: "c"},
			&SegmentList{Prefix: []string{"d"}, Children: []Node{&SimpleSegment{Name: "e"}}},
		},
	}}
	leaves := tree.Flatten()

	var got [][]string
	for _, l := range leaves {
		got = append(got, l.ModulePath())
	}
	want := [][]string{{"a", "b"}, {"a", "b", "d"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("module paths mismatch (-want +got):\n%s", diff)
	}
}
