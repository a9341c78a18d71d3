// Optscan extracts command-line options from the help output of a program and
// its subcommands, and generates shell completions for them.
package main

import (
	"os"

	"src.optscan.sh/pkg/buildinfo"
	"src.optscan.sh/pkg/gen"
	"src.optscan.sh/pkg/lsp"
	"src.optscan.sh/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&buildinfo.Program{}, &lsp.Program{},
			&gen.QueryProgram{}, &gen.Program{})))
}
