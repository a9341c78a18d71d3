// Package complete turns parsed help lines into completion specs and renders
// them for shells.
package complete

import (
	"src.optscan.sh/pkg/helpparse"
)

// Scope restricts a spec to a subcommand. The zero value is the global scope,
// used before any subcommand is typed.
type Scope struct {
	Subcommand string
}

// Global reports whether the scope is the global one.
func (s Scope) Global() bool { return s.Subcommand == "" }

// Spec is one logical option with all its aliases.
type Spec struct {
	// The short alias, or 0 if there is none.
	Short rune
	// Long aliases, without the leading dashes.
	Longs []string
	// Old-style aliases, without the leading dash.
	Olds []string
	// Argument cardinality, taken from the first alias.
	Args        helpparse.ArgsNumType
	Description string
	Scope       Scope
}

// Group folds the declarations of one help line into a Spec. A line declaring
// two short aliases breaks the convention that one option has at most one
// short form, and Group panics with an *helpparse.InvariantViolation.
func Group(line helpparse.Line, scope Scope) Spec {
	spec := Spec{Description: line.Description, Scope: scope}
	for i, decl := range line.Decls {
		if i == 0 {
			spec.Args = decl.Args
		}
		switch token := decl.Token.(type) {
		case helpparse.ShortOption:
			if spec.Short != 0 {
				panic(&helpparse.InvariantViolation{
					Reason: "more than one short option in one declaration group"})
			}
			spec.Short = token.Char
		case helpparse.LongOption:
			spec.Longs = append(spec.Longs, token.Name)
		case helpparse.OldOption:
			spec.Olds = append(spec.Olds, token.Name)
		}
	}
	return spec
}
