package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Color functions for diagnostic output, following the palette
// convention the teacher's REPL uses for its own status output.
var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// NewTerminalSink returns a Sink that writes colorized, caret-indicated
// diagnostics to w: the code and message in bold red, the source
// excerpt unstyled, and the caret line in yellow.
func NewTerminalSink(w io.Writer) Sink {
	return func(d Diagnostic) {
		fmt.Fprintf(w, "%s %s\n", red(d.Code), d.Message)
		if d.Span == nil {
			return
		}
		for _, l := range strings.Split(Format(d), "\n")[1:] {
			switch {
			case l == "":
				continue
			case strings.Contains(l, "^"):
				fmt.Fprintln(w, yellow(l))
			case strings.Contains(strings.TrimSpace(l), "-->"):
				fmt.Fprintln(w, dim(l))
			default:
				fmt.Fprintln(w, l)
			}
		}
	}
}
