// Command wgsllink loads a directory of WGSL source files, links them,
// and either prints the reference traversal from a chosen root module
// or drops into an interactive shell over the resulting registry.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sunholo/wgsllink/internal/replcli"
)

var (
	red  = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}

	command := flag.Arg(0)
	switch command {
	case "repl":
		dir := "."
		if flag.NArg() >= 2 {
			dir = flag.Arg(1)
		}
		runRepl(dir)

	case "refs":
		if flag.NArg() < 3 {
			fmt.Fprintf(os.Stderr, "%s: missing arguments\n", red("error"))
			fmt.Fprintln(os.Stderr, "Usage: wgsllink refs <dir> <module-path>")
			os.Exit(1)
		}
		runRefs(flag.Arg(1), flag.Arg(2))

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("wgsllink"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  wgsllink <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s [dir]              start the interactive shell over a directory of .wgsl files\n", cyan("repl"))
	fmt.Printf("  %s <dir> <module>     print the reference traversal from one module\n", cyan("refs"))
}

func runRepl(dir string) {
	sources, err := replcli.LoadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}
	s := replcli.New(sources)
	s.Start(bufio.NewReader(os.Stdin), os.Stdout)
}

func runRefs(dir, modulePath string) {
	sources, err := replcli.LoadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}
	s := replcli.New(sources)
	s.Handle(":refs "+modulePath, os.Stdout)
}
