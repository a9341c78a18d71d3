package complete

import (
	"fmt"
	"io"
	"strings"
)

// Fish renders specs as fish "complete" commands, one per long or old alias.
type Fish struct{}

func (Fish) Begin(w io.Writer, program string) error {
	_, err := fmt.Fprintf(w, "# fish completions for %s\n", program)
	return err
}

func (Fish) Subcommand(w io.Writer, program, name string) error {
	_, err := fmt.Fprintf(w, "\n# %s\ncomplete -c %s -n __fish_use_subcommand -a %s\n",
		name, program, name)
	return err
}

func (Fish) Spec(w io.Writer, program string, spec Spec) error {
	common := []string{"complete", "-c", program, "-n", fishCondition(spec.Scope)}
	if spec.Short != 0 {
		common = append(common, "-s", string(spec.Short))
	}
	var tail []string
	if spec.Args.ArgRequired() {
		tail = append(tail, "-r")
	}
	tail = append(tail, "-d", fishQuote(spec.Description))

	var lines [][]string
	for _, long := range spec.Longs {
		lines = append(lines, []string{"-l", long})
	}
	for _, old := range spec.Olds {
		lines = append(lines, []string{"-o", old})
	}
	if len(lines) == 0 && spec.Short != 0 {
		lines = append(lines, nil)
	}
	for _, alias := range lines {
		words := append(append(append([]string(nil), common...), alias...), tail...)
		if _, err := fmt.Fprintln(w, strings.Join(words, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (Fish) End(io.Writer, string) error { return nil }

func fishCondition(s Scope) string {
	if s.Global() {
		return "__fish_use_subcommand"
	}
	return "'__fish_seen_subcommand_from " + s.Subcommand + "'"
}

var fishEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)

func fishQuote(s string) string {
	return `"` + fishEscaper.Replace(s) + `"`
}
