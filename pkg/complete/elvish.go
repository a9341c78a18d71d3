package complete

import (
	"fmt"
	"io"
	"strings"

	"src.optscan.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[complete] ")

// Elvish renders specs as option specs for Elvish's edit:complete-getopt, and
// installs an argument completer that picks the specs of the subcommand being
// typed. Old-style aliases cannot be expressed and are skipped.
//
// Output is buffered until End, since the completer needs all subcommands.
type Elvish struct {
	scopes []string
	specs  map[string][]string
}

func (e *Elvish) Begin(w io.Writer, program string) error {
	e.scopes = []string{""}
	e.specs = map[string][]string{}
	_, err := fmt.Fprintf(w, "# elvish completions for %s\n", program)
	return err
}

func (e *Elvish) Subcommand(w io.Writer, program, name string) error {
	e.scopes = append(e.scopes, name)
	return nil
}

func (e *Elvish) Spec(w io.Writer, program string, spec Spec) error {
	if len(spec.Olds) > 0 {
		logger.Printf("%s: old-style options %v skipped", program, spec.Olds)
	}
	var arg string
	switch {
	case spec.Args.ArgRequired():
		arg = " &arg-required=$true"
	case spec.Args.TakesArg():
		arg = " &arg-optional=$true"
	}
	desc := " &desc=" + elvishQuote(spec.Description)

	key := spec.Scope.Subcommand
	add := func(fields string) {
		e.specs[key] = append(e.specs[key], "["+fields+desc+arg+"]")
	}
	for i, long := range spec.Longs {
		if i == 0 && spec.Short != 0 {
			add("&short=" + elvishQuote(string(spec.Short)) + " &long=" + elvishQuote(long))
		} else {
			add("&long=" + elvishQuote(long))
		}
	}
	if len(spec.Longs) == 0 && spec.Short != 0 {
		add("&short=" + elvishQuote(string(spec.Short)))
	}
	return nil
}

func (e *Elvish) End(w io.Writer, program string) error {
	var sb strings.Builder
	sb.WriteString("var optscan-specs = [\n")
	for _, scope := range e.scopes {
		fmt.Fprintf(&sb, "  &%s=[\n", elvishQuote(scope))
		for _, spec := range e.specs[scope] {
			sb.WriteString("    " + spec + "\n")
		}
		sb.WriteString("  ]\n")
	}
	sb.WriteString("]\n")

	subcommands := make([]string, 0, len(e.scopes)-1)
	for _, scope := range e.scopes[1:] {
		subcommands = append(subcommands, elvishQuote(scope))
	}
	handlers := "[]"
	if len(subcommands) > 0 {
		handlers = "[{|_| put " + strings.Join(subcommands, " ") + " } {|_| } ...]"
	}
	fmt.Fprintf(&sb, "set edit:completion:arg-completer[%s] = {|@words|\n", elvishQuote(program))
	sb.WriteString("  var specs = $optscan-specs['']\n")
	sb.WriteString("  var args = $words[1..]\n")
	sb.WriteString("  if (and (> (count $args) 1) (has-key $optscan-specs $args[0])) {\n")
	sb.WriteString("    set specs = $optscan-specs[$args[0]]\n")
	sb.WriteString("    set args = $args[1..]\n")
	sb.WriteString("  }\n")
	fmt.Fprintf(&sb, "  edit:complete-getopt $args $specs %s\n", handlers)
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func elvishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
