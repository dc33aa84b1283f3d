package harness

import (
	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/link"
	"github.com/sunholo/wgsllink/internal/module"
	"github.com/sunholo/wgsllink/internal/preprocess"
)

// RunResult is what a scenario run produced: every ref delivered, in
// delivery order, identified as "module::name", and every diagnostic
// emitted during parsing and traversal, formatted.
type RunResult struct {
	Refs        []string
	Diagnostics []string
}

// Run builds a registry from s.Modules, traverses from s.Root, and
// captures every diagnostic emitted along the way. Parsing happens on
// the first registry lookup (FindTextModule), inside the same capture
// scope as the traversal, so parse-time diagnostics (a
// malformed #export, an unresolved #extends target) and traversal-time
// ones (an unresolved reference) land in the same capture.
func Run(s *Scenario) RunResult {
	cap, sink := diag.NewCapture()

	var result RunResult
	diag.WithSink(sink, func() {
		reg := module.New(module.Config{
			WGSL:   s.Modules,
			Params: preprocess.Params(s.Params),
		})
		root := reg.FindTextModule(s.Root)
		if root == nil {
			return
		}
		link.TraverseRefs(root, reg, func(r *link.FoundRef) bool {
			result.Refs = append(result.Refs, r.Mod.CanonicalPath()+"::"+r.Name)
			return true
		})
	})
	result.Diagnostics = cap.Messages()
	return result
}
