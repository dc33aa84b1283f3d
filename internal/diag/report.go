package diag

import (
	"fmt"

	"github.com/sunholo/wgsllink/internal/lexer"
	"github.com/sunholo/wgsllink/internal/srcmap"
)

// Phase names a stage of the pipeline a Diagnostic originated from.
type Phase string

const (
	PhaseLex        Phase = "lex"
	PhaseParse      Phase = "parse"
	PhasePreprocess Phase = "preprocess"
	PhaseImport     Phase = "import"
	PhaseResolve    Phase = "resolve"
	PhaseTraverse   Phase = "traverse"
)

// Diagnostic is the canonical structured diagnostic emitted by every
// phase of the linker core. It carries enough information for a caller
// to render a caret-indicated source excerpt (see CaretLine) or to
// machine-process the Code/Data fields.
type Diagnostic struct {
	Code       string
	Phase      Phase
	Message    string
	Source     string // the source text the span indexes into
	SourceName string
	Span       *lexer.Span
	SrcMap     *srcmap.SourceMap // optional: remap Span into an original source first
	Sources    map[string]string // optional: other named sources a SrcMap entry may point into
	Data       map[string]any
}

func (d Diagnostic) String() string {
	if d.Span == nil {
		return fmt.Sprintf("%s [%s] %s", d.Code, d.Phase, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s at [%d,%d)", d.Code, d.Phase, d.Message, d.Span.Start, d.Span.End)
}
