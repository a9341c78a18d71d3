package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"src.optscan.sh/pkg/complete"
	"src.optscan.sh/pkg/config"
	"src.optscan.sh/pkg/diag"
	"src.optscan.sh/pkg/getopt"
	"src.optscan.sh/pkg/prog"
)

// Program is the generator subprogram. It always runs, so it should come
// last in a composite program.
type Program struct {
	// Source of help texts. If nil, an ExecSource configured by the flags is
	// used.
	Source Source

	config *config.Flags
	json   *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	p.config = fs.Config()
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed without -query")
	}
	cfg, err := p.config.Resolve()
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	r, err := complete.ByName(cfg.Shell)
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	if *p.json {
		r = complete.JSON{}
	}
	skipped, err := Generate(context.Background(), cfg, source(p.Source, &cfg), fds[1], r)
	complainSkipped(fds[2], skipped)
	return err
}

// QueryProgram prints the option spellings that complete a partial command
// line. It is selected by -query; the arguments are the words typed after the
// program name, the last of which is being completed.
type QueryProgram struct {
	// Source of help texts. If nil, an ExecSource configured by the flags is
	// used.
	Source Source

	run    bool
	config *config.Flags
	json   *bool
}

func (p *QueryProgram) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "query", false,
		"Print the options completing the words given as arguments")
	p.config = fs.Config()
	p.json = fs.JSON()
}

func (p *QueryProgram) Run(fds [3]*os.File, args []string) error {
	if !p.run {
		return prog.ErrNextProgram
	}
	cfg, err := p.config.Resolve()
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	result, err := Collect(context.Background(), cfg, source(p.Source, &cfg))
	if err != nil {
		return err
	}
	complainSkipped(fds[2], result.Skipped)
	cands := Query(result, args)
	if *p.json {
		if cands == nil {
			cands = []string{}
		}
		return json.NewEncoder(fds[1]).Encode(cands)
	}
	for _, cand := range cands {
		fmt.Fprintln(fds[1], cand)
	}
	return nil
}

// Query returns the candidates completing the last of words, given the specs
// extracted for a program. If the first word names an extracted subcommand,
// that subcommand's specs apply in addition to the global ones. While no
// subcommand has been typed, matching subcommand names are also candidates.
func Query(result *Result, words []string) []string {
	if len(words) == 0 {
		words = []string{""}
	}
	sub := ""
	if len(words) > 1 {
		for _, s := range result.Subcommands {
			if s.Name == words[0] {
				sub = s.Name
				words = words[1:]
				break
			}
		}
	}
	specs := getopt.FromSpecs(result.SpecsFor(sub))
	_, nonOptArgs, ctx := getopt.Complete(words, specs, getopt.GNU)
	cands := getopt.Candidates(ctx, specs)
	if sub == "" && len(nonOptArgs) == 0 &&
		(ctx.Type == getopt.OptionOrArgument || ctx.Type == getopt.Argument) {
		for _, s := range result.Subcommands {
			if strings.HasPrefix(s.Name, ctx.Text) {
				cands = append(cands, s.Name)
			}
		}
	}
	return cands
}

func source(src Source, cfg *config.Config) Source {
	if src != nil {
		return src
	}
	return NewExecSource(cfg)
}

func complainSkipped(w io.Writer, skipped []*SkipError) {
	for _, err := range skipped {
		diag.Complain(w, "warning: "+err.Error())
	}
}
