package complete

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Renderer writes completion directives for one program. Methods are called
// in this order: Begin, then Spec for global specs, then Subcommand followed
// by Spec for each subcommand's specs, and finally End.
type Renderer interface {
	Begin(w io.Writer, program string) error
	Subcommand(w io.Writer, program, name string) error
	Spec(w io.Writer, program string, spec Spec) error
	End(w io.Writer, program string) error
}

var renderers = map[string]func() Renderer{
	"fish":   func() Renderer { return Fish{} },
	"elvish": func() Renderer { return &Elvish{} },
	"json":   func() Renderer { return JSON{} },
}

// Names returns the names accepted by ByName, sorted.
func Names() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns a new Renderer for the named shell or format.
func ByName(name string) (Renderer, error) {
	if f, ok := renderers[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown shell %q, should be one of %s",
		name, strings.Join(Names(), ", "))
}
