// Package replcli is the interactive driver wrapped around the linker
// core: it loads a directory of .wgsl files into a module.Registry and
// lets a user inspect modules, exports, and reference traversals from a
// liner-driven prompt. File I/O and terminal concerns live here,
// deliberately outside internal/module and internal/link, per spec.md
// §1's "no filesystem, no CLI" boundary on the core itself.
package replcli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/wgsllink/internal/diag"
	"github.com/sunholo/wgsllink/internal/link"
	"github.com/sunholo/wgsllink/internal/module"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Shell is a liner-driven REPL over a single module.Registry.
type Shell struct {
	reg     *module.Registry
	history []string
}

// New builds a Shell over a registry constructed from sources (a
// {path → text} dictionary, typically from LoadDir).
func New(sources map[string]string) *Shell {
	return &Shell{reg: module.New(module.Config{WGSL: sources})}
}

// Start runs the read-eval-print loop until the user types :quit (or
// :q) or input hits EOF. Lines are read through liner from the
// process's standard input; the in argument is not read.
func (s *Shell) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	fmt.Fprintf(out, "%s\n", bold("wgsllink shell"))
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit"))

	line.SetCompleter(func(l string) (c []string) {
		if strings.HasPrefix(l, ":") {
			for _, cmd := range []string{":help", ":modules", ":exports", ":refs", ":quit"} {
				if strings.HasPrefix(cmd, l) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt("wgsl> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		s.history = append(s.history, input)

		if input == ":quit" || input == ":q" {
			fmt.Fprintln(out, green("Goodbye!"))
			return
		}
		s.Handle(input, out)
	}
}

// Handle dispatches one command line. Exported so a non-interactive
// caller (cmd/wgsllink's "refs" subcommand) can reuse the same command
// set without going through Start's liner loop.
func (s *Shell) Handle(input string, out io.Writer) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case ":help":
		s.printHelp(out)
	case ":modules":
		s.listModules(out)
	case ":exports":
		s.listExports(args, out)
	case ":refs":
		s.traverse(args, out)
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", yellow("warn"), cmd)
	}
}

func (s *Shell) printHelp(out io.Writer) {
	fmt.Fprintln(out, ":help              show this message")
	fmt.Fprintln(out, ":modules           list every indexed module's canonical path")
	fmt.Fprintln(out, ":exports <path>    list a module's exports")
	fmt.Fprintln(out, ":refs <path>       traverse every reference reachable from a module's declarations")
	fmt.Fprintln(out, ":quit              exit")
}

func (s *Shell) withDiagnostics(out io.Writer, fn func()) {
	diag.WithSink(func(d diag.Diagnostic) {
		fmt.Fprintf(out, "%s %s\n", red(d.Code+":"), diag.Format(d))
	}, fn)
}

func (s *Shell) listModules(out io.Writer) {
	s.withDiagnostics(out, func() {
		for _, m := range s.reg.Parsed() {
			fmt.Fprintf(out, "  %s\n", cyan(m.CanonicalPath()))
		}
	})
}

func (s *Shell) listExports(args []string, out io.Writer) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: :exports <path>")
		return
	}
	s.withDiagnostics(out, func() {
		m := s.reg.ModuleByPath(strings.Split(args[0], "/"))
		if m == nil {
			fmt.Fprintf(out, "%s: no module %q\n", red("error"), args[0])
			return
		}
		for name, exp := range m.Exports() {
			if exp.Gen != nil {
				fmt.Fprintf(out, "  %s (generator)\n", name)
				continue
			}
			fmt.Fprintf(out, "  %s(%s)\n", name, strings.Join(exp.Params, ", "))
		}
	})
}

func (s *Shell) traverse(args []string, out io.Writer) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: :refs <path>")
		return
	}
	s.withDiagnostics(out, func() {
		root := s.reg.ModuleByPath(strings.Split(args[0], "/"))
		if root == nil {
			fmt.Fprintf(out, "%s: no module %q\n", red("error"), args[0])
			return
		}
		link.TraverseRefs(root, s.reg, func(r *link.FoundRef) bool {
			tag := ""
			if r.IsGenerator() {
				tag = " (generator)"
			}
			fmt.Fprintf(out, "  %s::%s%s\n", r.Mod.CanonicalPath(), r.Name, tag)
			return true
		})
	})
}
