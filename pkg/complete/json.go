package complete

import (
	"encoding/json"
	"io"
)

// JSON renders each spec as one JSON object per line.
type JSON struct{}

type jsonSpec struct {
	Program     string   `json:"program"`
	Subcommand  string   `json:"subcommand,omitempty"`
	Short       string   `json:"short,omitempty"`
	Longs       []string `json:"longs,omitempty"`
	Olds        []string `json:"olds,omitempty"`
	Args        string   `json:"args"`
	Description string   `json:"description"`
}

func (JSON) Begin(io.Writer, string) error              { return nil }
func (JSON) Subcommand(io.Writer, string, string) error { return nil }
func (JSON) End(io.Writer, string) error                { return nil }

func (JSON) Spec(w io.Writer, program string, spec Spec) error {
	js := jsonSpec{
		Program:     program,
		Subcommand:  spec.Scope.Subcommand,
		Longs:       spec.Longs,
		Olds:        spec.Olds,
		Args:        spec.Args.String(),
		Description: spec.Description,
	}
	if spec.Short != 0 {
		js.Short = string(spec.Short)
	}
	return json.NewEncoder(w).Encode(js)
}
