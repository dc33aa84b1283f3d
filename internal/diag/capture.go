package diag

import "sync"

// Capture is a test-only capturing sink: it collects every diagnostic
// it receives (formatted and raw) so tests can assert on diagnostic
// content without touching a terminal.
type Capture struct {
	mu    sync.Mutex
	Diags []Diagnostic
}

// NewCapture returns a fresh Capture and the Sink bound to it.
func NewCapture() (*Capture, Sink) {
	c := &Capture{}
	return c, c.sink
}

func (c *Capture) sink(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Diags = append(c.Diags, d)
}

// Messages returns the formatted text of every captured diagnostic, in
// the order they were emitted (diagnostics are always emitted in
// source order per spec.md §5, §7).
func (c *Capture) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.Diags))
	for i, d := range c.Diags {
		out[i] = Format(d)
	}
	return out
}

// Codes returns the Code of every captured diagnostic, in order.
func (c *Capture) Codes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.Diags))
	for i, d := range c.Diags {
		out[i] = d.Code
	}
	return out
}
