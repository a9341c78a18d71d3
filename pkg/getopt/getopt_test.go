package getopt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.optscan.sh/pkg/complete"
	"src.optscan.sh/pkg/helpparse"
	"src.optscan.sh/pkg/tt"
)

var (
	vSpec    = &OptionSpec{Short: 'v', Longs: []string{"verbose"}, Arity: NoArgument}
	jSpec    = &OptionSpec{Short: 'j', Longs: []string{"jobs"}, Olds: []string{"jobs"}, Arity: OptionalArgument}
	oSpec    = &OptionSpec{Short: 'o', Longs: []string{"output"}, Arity: RequiredArgument}
	helpSpec = &OptionSpec{Olds: []string{"help"}, Arity: NoArgument}
	specs    = []*OptionSpec{vSpec, jSpec, oSpec, helpSpec}
)

var parseTests = []struct {
	name           string
	args           []string
	cfg            Config
	wantOpts       []*Option
	wantNonOptArgs []string
	wantErr        error
}{
	{
		name: "mixed options and arguments",
		args: []string{"-v", "-jobs=4", "a", "--output", "f", "b"},
		cfg:  GNU,
		wantOpts: []*Option{
			{Spec: vSpec, Name: "-v"},
			{Spec: jSpec, Name: "-jobs", Argument: "4"},
			{Spec: oSpec, Name: "--output", Argument: "f"},
		},
		wantNonOptArgs: []string{"a", "b"},
	},
	{
		name: "chained short options with separate argument",
		args: []string{"-vo", "f"},
		wantOpts: []*Option{
			{Spec: vSpec, Name: "-v"},
			{Spec: oSpec, Name: "-o", Argument: "f"},
		},
	},
	{
		name: "chained short options with attached argument",
		args: []string{"-vof"},
		wantOpts: []*Option{
			{Spec: vSpec, Name: "-v"},
			{Spec: oSpec, Name: "-o", Argument: "f"},
		},
	},
	{
		name:     "old option wins over short chain",
		args:     []string{"-help"},
		wantOpts: []*Option{{Spec: helpSpec, Name: "-help"}},
	},
	{
		name:     "long option with attached argument",
		args:     []string{"--jobs=8"},
		wantOpts: []*Option{{Spec: jSpec, Name: "--jobs", Argument: "8"}},
	},
	{
		name: "unknown short option",
		args: []string{"-h"},
		wantOpts: []*Option{{
			Spec:    &OptionSpec{Short: 'h', Arity: OptionalArgument},
			Unknown: true, Name: "-h"}},
		wantErr: errors.New("unknown option -h"),
	},
	{
		name:           "BSD stops before first non-option",
		args:           []string{"a", "-v"},
		cfg:            BSD,
		wantNonOptArgs: []string{"a", "-v"},
	},
	{
		name:           "stop after double dash",
		args:           []string{"--", "-v"},
		cfg:            GNU,
		wantNonOptArgs: []string{"-v"},
	},
	{
		name:    "missing argument",
		args:    []string{"--output"},
		wantErr: errors.New("missing argument for --output"),
	},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			opts, nonOptArgs, err := Parse(test.args, specs, test.cfg)
			if diff := cmp.Diff(test.wantOpts, opts); diff != "" {
				t.Errorf("opts (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantNonOptArgs, nonOptArgs); diff != "" {
				t.Errorf("non-option args (-want +got):\n%s", diff)
			}
			if errString(err) != errString(test.wantErr) {
				t.Errorf("got error %v, want %v", err, test.wantErr)
			}
		})
	}
}

var completeTests = []struct {
	name           string
	args           []string
	cfg            Config
	wantOpts       []*Option
	wantNonOptArgs []string
	wantCtx        Context
}{
	{
		name:    "no argument",
		args:    nil,
		wantCtx: Context{Type: OptionOrArgument},
	},
	{
		name:     "empty last argument",
		args:     []string{"-v", ""},
		wantOpts: []*Option{{Spec: vSpec, Name: "-v"}},
		wantCtx:  Context{Type: OptionOrArgument},
	},
	{
		name:    "lone dash",
		args:    []string{"-"},
		wantCtx: Context{Type: AnyOption},
	},
	{
		name:    "partial long option",
		args:    []string{"--ver"},
		wantCtx: Context{Type: LongOption, Text: "ver"},
	},
	{
		name: "long option argument after equal sign",
		args: []string{"--output=fi"},
		wantCtx: Context{Type: OptionArgument,
			Option: &Option{Spec: oSpec, Name: "--output", Argument: "fi"}},
	},
	{
		name:    "partial old option",
		args:    []string{"-jo"},
		wantCtx: Context{Type: OldOption, Text: "jo"},
	},
	{
		name:     "short option chain",
		args:     []string{"-v"},
		wantOpts: []*Option{{Spec: vSpec, Name: "-v"}},
		wantCtx:  Context{Type: ChainShortOption},
	},
	{
		name:     "short option needing argument",
		args:     []string{"-vo"},
		wantOpts: []*Option{{Spec: vSpec, Name: "-v"}},
		wantCtx: Context{Type: OptionArgument,
			Option: &Option{Spec: oSpec, Name: "-o"}},
	},
	{
		name: "separate option argument",
		args: []string{"--output", "fi"},
		wantCtx: Context{Type: OptionArgument,
			Option: &Option{Spec: oSpec, Name: "--output", Argument: "fi"}},
	},
	{
		name:    "after double dash",
		args:    []string{"--", "-v"},
		cfg:     GNU,
		wantCtx: Context{Type: Argument, Text: "-v"},
	},
	{
		name:           "plain argument",
		args:           []string{"x", "a"},
		wantNonOptArgs: []string{"x"},
		wantCtx:        Context{Type: Argument, Text: "a"},
	},
}

func TestComplete(t *testing.T) {
	for _, test := range completeTests {
		t.Run(test.name, func(t *testing.T) {
			opts, nonOptArgs, ctx := Complete(test.args, specs, test.cfg)
			if diff := cmp.Diff(test.wantOpts, opts); diff != "" {
				t.Errorf("opts (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantNonOptArgs, nonOptArgs); diff != "" {
				t.Errorf("non-option args (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantCtx, ctx); diff != "" {
				t.Errorf("context (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	tt.Test(t, tt.Fn("Candidates", Candidates), tt.Table{
		tt.Args(Context{Type: AnyOption}, specs).Rets([]string{
			"--jobs", "--output", "--verbose",
			"-help", "-j", "-jobs", "-o", "-v"}),
		tt.Args(Context{Type: LongOption, Text: "o"}, specs).
			Rets([]string{"--output"}),
		tt.Args(Context{Type: OldOption, Text: "he"}, specs).
			Rets([]string{"-help"}),
		tt.Args(Context{Type: Argument, Text: "a"}, specs).
			Rets([]string(nil)),
	})
}

func TestFromSpecs(t *testing.T) {
	line, err := helpparse.ParseLine("--jobs [N], -j [N], -jobs NUM  Jobs.")
	if err != nil {
		t.Fatal(err)
	}
	got := FromSpecs([]complete.Spec{complete.Group(line, complete.Scope{})})
	want := []*OptionSpec{{
		Short: 'j', Longs: []string{"jobs"}, Olds: []string{"jobs"},
		Arity: OptionalArgument, Description: "Jobs."}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromSpecs (-want +got):\n%s", diff)
	}
}

func TestArityOf(t *testing.T) {
	tt.Test(t, tt.Fn("ArityOf", ArityOf), tt.Table{
		tt.Args(helpparse.Zero).Rets(NoArgument),
		tt.Args(helpparse.One).Rets(RequiredArgument),
		tt.Args(helpparse.OneOrMore).Rets(RequiredArgument),
		tt.Args(helpparse.ZeroOrOne).Rets(OptionalArgument),
		tt.Args(helpparse.Any).Rets(OptionalArgument),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
