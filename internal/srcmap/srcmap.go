// Package srcmap implements component C of the linker core: a
// reversible mapping from character ranges in a derived text back to
// ranges in one or more original sources.
package srcmap

import (
	"fmt"
	"sort"
)

// Entry maps a contiguous destination range back to a contiguous range
// in a named source. Entries are length-preserving (SrcEnd-SrcStart ==
// DestEnd-DestStart) unless Replacement is set, in which case the
// destination range was substituted wholesale and individual
// character positions inside it cannot be reprojected any finer than
// the entry's bounds.
type Entry struct {
	Src         string
	SrcStart    int
	SrcEnd      int
	DestStart   int
	DestEnd     int
	Replacement bool
}

// SourceMap is an ordered list of non-overlapping (in destination
// coordinates) entries.
type SourceMap struct {
	entries []Entry
}

// New builds a SourceMap from entries, sorting them by destination
// start. It panics if two entries overlap in destination coordinates,
// since that would violate the map's core invariant.
func New(entries []Entry) *SourceMap {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DestStart < sorted[j].DestStart })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].DestStart < sorted[i-1].DestEnd {
			panic(fmt.Sprintf("srcmap: overlapping entries in destination: [%d,%d) and [%d,%d)",
				sorted[i-1].DestStart, sorted[i-1].DestEnd, sorted[i].DestStart, sorted[i].DestEnd))
		}
	}
	return &SourceMap{entries: sorted}
}

// Identity builds a trivial source map that maps every position in
// text back to the same position in a single named source (used by
// components that do not shift text positions, e.g. the preprocessor,
// which blanks disabled regions in place).
func Identity(src string, length int) *SourceMap {
	if length == 0 {
		return New(nil)
	}
	return New([]Entry{{Src: src, SrcStart: 0, SrcEnd: length, DestStart: 0, DestEnd: length}})
}

// Position is a resolved (source name, offset) pair.
type Position struct {
	Src    string
	Offset int
}

// MapPosition maps a destination position back to its original source
// position. If p falls outside every entry, it is returned unchanged
// against an empty source name (the position belongs to text that was
// never derived from anything, e.g. synthetic glue the emitter added).
func (m *SourceMap) MapPosition(p int) Position {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].DestEnd > p })
	if i < len(m.entries) {
		e := m.entries[i]
		if p >= e.DestStart && p < e.DestEnd {
			if e.Replacement {
				return Position{Src: e.Src, Offset: e.SrcStart}
			}
			return Position{Src: e.Src, Offset: e.SrcStart + (p - e.DestStart)}
		}
	}
	return Position{Offset: p}
}

// Merge composes two source maps: if m2's sources reference m1's
// destination text, Merge reprojects m2's entries through m1 so the
// result maps m2's destination directly back to m1's original
// sources. This lets multiple derivation stages (e.g. preprocessor
// then macro-expansion) compose without the traversal caring how many
// stages ran.
func Merge(m1, m2 *SourceMap) *SourceMap {
	var merged []Entry
	for _, e2 := range m2.entries {
		if e2.Replacement {
			merged = append(merged, e2)
			continue
		}
		// Walk the portion of m1 covered by [e2.SrcStart, e2.SrcEnd) in
		// m1's destination coordinates, splitting e2 at each m1 entry
		// boundary so every resulting entry points at a single m1 source.
		start := e2.SrcStart
		for start < e2.SrcEnd {
			i := sort.Search(len(m1.entries), func(i int) bool { return m1.entries[i].DestEnd > start })
			if i >= len(m1.entries) || start < m1.entries[i].DestStart {
				// No m1 entry covers this position; pass it through unmapped.
				end := e2.SrcEnd
				if i < len(m1.entries) && m1.entries[i].DestStart < end {
					end = m1.entries[i].DestStart
				}
				merged = append(merged, Entry{
					Src:       e2.Src,
					SrcStart:  start,
					SrcEnd:    end,
					DestStart: e2.DestStart + (start - e2.SrcStart),
					DestEnd:   e2.DestStart + (end - e2.SrcStart),
				})
				start = end
				continue
			}
			e1 := m1.entries[i]
			end := e2.SrcEnd
			if e1.DestEnd < end {
				end = e1.DestEnd
			}
			destOffset := e2.DestStart + (start - e2.SrcStart)
			destOffsetEnd := e2.DestStart + (end - e2.SrcStart)
			if e1.Replacement {
				merged = append(merged, Entry{
					Src: e1.Src, SrcStart: e1.SrcStart, SrcEnd: e1.SrcEnd,
					DestStart: destOffset, DestEnd: destOffsetEnd, Replacement: true,
				})
			} else {
				srcStart := e1.SrcStart + (start - e1.DestStart)
				srcEnd := e1.SrcStart + (end - e1.DestStart)
				merged = append(merged, Entry{
					Src: e1.Src, SrcStart: srcStart, SrcEnd: srcEnd,
					DestStart: destOffset, DestEnd: destOffsetEnd,
				})
			}
			start = end
		}
	}
	return New(merged)
}

// Entries returns a copy of the map's entries, ordered by destination
// start. Used by tests and diagnostics formatting.
func (m *SourceMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
