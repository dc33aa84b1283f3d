package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// lineStarts memoizes the byte offset of each line start in a source
// string so repeated caret lookups are O(log N) after a first O(N)
// scan. Keyed by source name rather than content, since callers
// consistently reuse one name per source.
var (
	lineStartsMu sync.Mutex
	lineStarts   = map[string][]int{}
)

func lineStartsFor(sourceName, src string) []int {
	lineStartsMu.Lock()
	defer lineStartsMu.Unlock()
	if starts, ok := lineStarts[sourceName]; ok {
		return starts
	}
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	lineStarts[sourceName] = starts
	return starts
}

// ForgetLineStarts clears the memoized line-start index for a source
// name. Tests that reuse a source name across fixtures should call
// this so a stale index from an earlier (differently-sized) source
// can't be returned.
func ForgetLineStarts(sourceName string) {
	lineStartsMu.Lock()
	defer lineStartsMu.Unlock()
	delete(lineStarts, sourceName)
}

// CaretLine is the line, 1-based line number, and in-line column for a
// position in src.
type CaretLine struct {
	Line     string
	LineNum  int
	LinePos  int
}

// Locate returns the line containing pos in src, given a source name
// used to key the memoized line-start index.
func Locate(sourceName, src string, pos int) CaretLine {
	starts := lineStartsFor(sourceName, src)
	// Largest start <= pos.
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
	if i < 0 {
		i = 0
	}
	lineStart := starts[i]
	lineEnd := len(src)
	if i+1 < len(starts) {
		lineEnd = starts[i+1] - 1
	}
	if lineEnd < lineStart {
		lineEnd = lineStart
	}
	line := src[lineStart:lineEnd]
	return CaretLine{Line: line, LineNum: i + 1, LinePos: pos - lineStart}
}

// Format renders a diagnostic as a message, the offending line, and a
// caret aligned under the failing column. When d.SrcMap is set and the
// span lies in derived text, the position is remapped to the original
// source first, per spec.md §4.D.
func Format(d Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Code, d.Message)
	if d.Span == nil {
		return b.String()
	}

	src := d.Source
	name := d.SourceName
	pos := d.Span.Start

	if d.SrcMap != nil {
		mapped := d.SrcMap.MapPosition(pos)
		if mapped.Src != "" {
			name = mapped.Src
			pos = mapped.Offset
			if mappedSrc, ok := d.Sources[name]; ok {
				src = mappedSrc
			}
		}
	}

	cl := Locate(name, src, pos)
	fmt.Fprintf(&b, "\n  --> %s:%d:%d\n", name, cl.LineNum, cl.LinePos+1)
	fmt.Fprintf(&b, "  %s\n", cl.Line)
	fmt.Fprintf(&b, "  %s^\n", strings.Repeat(" ", cl.LinePos))
	return b.String()
}
