// Package getopt parses command lines against option specs extracted from
// help text, and provides context information when given a partial command
// line. It is mainly useful for checking the extracted specs by completing
// against them.
//
// Besides short and long options, it understands old-style options like
// -help, which are matched before a word is treated as a chain of short
// options.
package getopt

import (
	"fmt"
	"sort"
	"strings"

	"src.optscan.sh/pkg/complete"
	"src.optscan.sh/pkg/errutil"
	"src.optscan.sh/pkg/helpparse"
)

// Config configures the parsing behavior.
type Config uint

const (
	// Stop parsing options after "--".
	StopAfterDoubleDash Config = 1 << iota
	// Stop parsing options before the first non-option argument.
	StopBeforeFirstNonOption

	// Config to replicate the behavior of GNU's getopt_long.
	GNU = StopAfterDoubleDash
	// Config to replicate the behavior of BSD's getopt_long.
	BSD = StopAfterDoubleDash | StopBeforeFirstNonOption
)

// Tests whether a configuration has all specified flags set.
func (c Config) has(bits Config) bool { return c&bits == bits }

// Arity indicates whether an option takes an argument, and whether it is
// required.
type Arity uint

const (
	// The option takes no argument.
	NoArgument Arity = iota
	// The option requires an argument. The argument can come either directly
	// after a short option (-oarg), after a long or old option followed by an
	// equal sign (--long=arg), or as a separate argument after the option.
	RequiredArgument
	// The option takes an optional argument. The argument can come either
	// directly after a short option (-oarg) or after a long or old option
	// followed by an equal sign (--long=arg).
	OptionalArgument
)

// ArityOf converts an argument cardinality to an Arity. Options taking more
// than one argument are treated as taking one, since the extra arguments are
// indistinguishable from non-option arguments.
func ArityOf(t helpparse.ArgsNumType) Arity {
	switch {
	case t.ArgRequired():
		return RequiredArgument
	case t.TakesArg():
		return OptionalArgument
	default:
		return NoArgument
	}
}

// OptionSpec is a command-line option with all its aliases.
type OptionSpec struct {
	// Short alias. 0 if there is none.
	Short rune
	// Long and old-style aliases, without leading dashes.
	Longs, Olds []string
	Arity       Arity
	Description string
}

// FromSpecs converts completion specs to option specs.
func FromSpecs(specs []complete.Spec) []*OptionSpec {
	opts := make([]*OptionSpec, len(specs))
	for i, spec := range specs {
		opts[i] = &OptionSpec{
			Short: spec.Short, Longs: spec.Longs, Olds: spec.Olds,
			Arity: ArityOf(spec.Args), Description: spec.Description}
	}
	return opts
}

// Option represents a parsed option.
type Option struct {
	Spec    *OptionSpec
	Unknown bool
	// How the option was spelled, including leading dashes but not any
	// argument.
	Name     string
	Argument string
}

// Context describes the context of the last argument.
type Context struct {
	// The nature of the context.
	Type ContextType
	// Current option, with a likely incomplete Argument. Non-nil when Type is
	// OptionArgument.
	Option *Option
	// Current partial option name or argument. Non-empty when Type is
	// LongOption, OldOption or Argument.
	Text string
}

// ContextType encodes how the last argument can be completed.
type ContextType uint

const (
	// OptionOrArgument indicates that the last element may be either a new
	// option or a new argument. Returned when it is an empty string.
	OptionOrArgument ContextType = iota
	// AnyOption indicates that the last element must be new option, short,
	// long or old. Returned when it is "-".
	AnyOption
	// LongOption indicates that the last element is a long option (but not its
	// argument). The partial name of the long option is stored in Context.Text.
	LongOption
	// OldOption indicates that the last element is a prefix of an old-style
	// option. The partial name is stored in Context.Text.
	OldOption
	// ChainShortOption indicates that a new short option may be chained.
	// Returned when the last element consists of a chain of options that take
	// no arguments.
	ChainShortOption
	// OptionArgument indicates that the last element list must be an argument
	// to an option. The option in question is stored in Context.Option.
	OptionArgument
	// Argument indicates that the last element is a non-option argument. The
	// partial argument is stored in Context.Text.
	Argument
)

// Parse parses an argument list. It returns the parsed options, the non-option
// arguments, and any error.
func Parse(args []string, specs []*OptionSpec, cfg Config) ([]*Option, []string, error) {
	opts, nonOptArgs, opt, _ := parse(args, specs, cfg)
	var err error
	if opt != nil {
		err = fmt.Errorf("missing argument for %s", opt.Name)
	}
	for _, opt := range opts {
		if opt.Unknown {
			err = errutil.Multi(err, fmt.Errorf("unknown option %s", opt.Name))
		}
	}
	return opts, nonOptArgs, err
}

// Complete parses an argument list for completion. It returns the parsed
// options, the non-option arguments, and the context of the last argument. It
// tolerates unknown options, assuming that they take optional arguments.
func Complete(args []string, specs []*OptionSpec, cfg Config) ([]*Option, []string, Context) {
	if len(args) == 0 {
		return nil, nil, Context{Type: OptionOrArgument}
	}
	opts, nonOptArgs, opt, stopOpt := parse(args[:len(args)-1], specs, cfg)

	arg := args[len(args)-1]
	var ctx Context
	switch {
	case opt != nil:
		opt.Argument = arg
		ctx = Context{Type: OptionArgument, Option: opt}
	case stopOpt:
		ctx = Context{Type: Argument, Text: arg}
	case arg == "":
		ctx = Context{Type: OptionOrArgument}
	case arg == "-":
		ctx = Context{Type: AnyOption}
	case strings.HasPrefix(arg, "--"):
		if !strings.ContainsRune(arg, '=') {
			ctx = Context{Type: LongOption, Text: arg[2:]}
		} else {
			newopt, _ := parseLong(arg[2:], specs)
			ctx = Context{Type: OptionArgument, Option: newopt}
		}
	case strings.HasPrefix(arg, "-"):
		if name := arg[1:]; !strings.ContainsRune(name, '=') && hasOldPrefix(name, specs) {
			ctx = Context{Type: OldOption, Text: name}
			break
		}
		if newopt, _, ok := parseOld(arg[1:], specs); ok {
			ctx = Context{Type: OptionArgument, Option: newopt}
			break
		}
		newopts, _ := parseShort(arg[1:], specs)
		if last := newopts[len(newopts)-1]; last.Spec.Arity == NoArgument {
			opts = append(opts, newopts...)
			ctx = Context{Type: ChainShortOption}
		} else {
			opts = append(opts, newopts[:len(newopts)-1]...)
			ctx = Context{Type: OptionArgument, Option: last}
		}
	default:
		ctx = Context{Type: Argument, Text: arg}
	}
	return opts, nonOptArgs, ctx
}

// Candidates returns the option spellings that can complete the last argument
// in the given context, sorted. It returns nil for contexts that call for
// arguments, since specs carry no knowledge of argument values.
func Candidates(ctx Context, specs []*OptionSpec) []string {
	var cands []string
	add := func(prefix string, names []string, partial string) {
		for _, name := range names {
			if strings.HasPrefix(name, partial) {
				cands = append(cands, prefix+name)
			}
		}
	}
	for _, spec := range specs {
		switch ctx.Type {
		case OptionOrArgument, AnyOption:
			if spec.Short != 0 {
				cands = append(cands, "-"+string(spec.Short))
			}
			add("--", spec.Longs, "")
			add("-", spec.Olds, "")
		case LongOption:
			add("--", spec.Longs, ctx.Text)
		case OldOption:
			add("-", spec.Olds, ctx.Text)
		}
	}
	sort.Strings(cands)
	return cands
}

func parse(args []string, spec []*OptionSpec, cfg Config) ([]*Option, []string, *Option, bool) {
	var (
		opts       []*Option
		nonOptArgs []string
		// Non-nil only when the last argument was an option with required
		// argument, but the argument has not been seen.
		opt *Option
		// Whether option parsing has been stopped. The condition is controlled
		// by the StopAfterDoubleDash and StopBeforeFirstNonOption bits in cfg.
		stopOpt bool
	)
	for _, arg := range args {
		switch {
		case opt != nil:
			opt.Argument = arg
			opts = append(opts, opt)
			opt = nil
		case stopOpt:
			nonOptArgs = append(nonOptArgs, arg)
		case cfg.has(StopAfterDoubleDash) && arg == "--":
			stopOpt = true
		case strings.HasPrefix(arg, "--") && arg != "--":
			newopt, needArg := parseLong(arg[2:], spec)
			if needArg {
				opt = newopt
			} else {
				opts = append(opts, newopt)
			}
		case strings.HasPrefix(arg, "-") && arg != "--" && arg != "-":
			if newopt, needArg, ok := parseOld(arg[1:], spec); ok {
				if needArg {
					opt = newopt
				} else {
					opts = append(opts, newopt)
				}
				break
			}
			newopts, needArg := parseShort(arg[1:], spec)
			if needArg {
				opts = append(opts, newopts[:len(newopts)-1]...)
				opt = newopts[len(newopts)-1]
			} else {
				opts = append(opts, newopts...)
			}
		default:
			nonOptArgs = append(nonOptArgs, arg)
			if cfg.has(StopBeforeFirstNonOption) {
				stopOpt = true
			}
		}
	}
	return opts, nonOptArgs, opt, stopOpt
}

// Parses short options, without the leading dash. Returns the parsed options
// and whether an argument is still to be seen.
func parseShort(s string, specs []*OptionSpec) ([]*Option, bool) {
	var opts []*Option
	var needArg bool
	for i, r := range s {
		rest := s[i+len(string(r)):]
		opt := findShort(r, specs)
		if opt == nil {
			// Unknown option, treat as taking an optional argument
			opts = append(opts, &Option{
				Spec:    &OptionSpec{Short: r, Arity: OptionalArgument},
				Unknown: true, Name: "-" + string(r), Argument: rest})
			break
		}
		if opt.Arity == NoArgument {
			opts = append(opts, &Option{Spec: opt, Name: "-" + string(r)})
			continue
		}
		opts = append(opts, &Option{Spec: opt, Name: "-" + string(r), Argument: rest})
		needArg = rest == "" && opt.Arity == RequiredArgument
		break
	}
	return opts, needArg
}

func findShort(r rune, specs []*OptionSpec) *OptionSpec {
	for _, opt := range specs {
		if r == opt.Short {
			return opt
		}
	}
	return nil
}

// Parses a long option, without the leading dashes. Returns the parsed option
// and whether an argument is still to be seen.
func parseLong(s string, specs []*OptionSpec) (*Option, bool) {
	name, arg, hasArg := strings.Cut(s, "=")
	for _, spec := range specs {
		if contains(spec.Longs, name) {
			opt := &Option{Spec: spec, Name: "--" + name, Argument: arg}
			return opt, !hasArg && spec.Arity == RequiredArgument
		}
	}
	// Unknown option, treat as taking an optional argument
	return &Option{
		Spec:    &OptionSpec{Longs: []string{name}, Arity: OptionalArgument},
		Unknown: true, Name: "--" + name, Argument: arg}, false
}

// Parses an old-style option, without the leading dash. Returns the parsed
// option, whether an argument is still to be seen, and whether s names an old
// option at all.
func parseOld(s string, specs []*OptionSpec) (*Option, bool, bool) {
	name, arg, hasArg := strings.Cut(s, "=")
	for _, spec := range specs {
		if contains(spec.Olds, name) {
			opt := &Option{Spec: spec, Name: "-" + name, Argument: arg}
			return opt, !hasArg && spec.Arity == RequiredArgument, true
		}
	}
	return nil, false, false
}

func hasOldPrefix(partial string, specs []*OptionSpec) bool {
	for _, spec := range specs {
		for _, old := range spec.Olds {
			if len(partial) > 1 && strings.HasPrefix(old, partial) {
				return true
			}
		}
	}
	return false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
