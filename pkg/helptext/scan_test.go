package helptext

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.optscan.sh/pkg/helpparse"
	"src.optscan.sh/pkg/testutil"
	"src.optscan.sh/pkg/tt"
)

func TestUnwrap(t *testing.T) {
	tt.Test(t, tt.Fn("Unwrap", Unwrap), tt.Table{
		tt.Args("  --foo  Do foo and\n          bar.", 8).Rets("  --foo  Do foo and bar."),
		tt.Args("  --foo  Do foo.\n  --bar  Do bar.", 8).Rets("  --foo  Do foo.\n  --bar  Do bar."),
		tt.Args("a\n    b", 4).Rets("a b"),
		tt.Args("a\n    b", 0).Rets("a\n    b"),
		tt.Args("a\n        b", 0).Rets("a b"),
	})
}

var catkinBuildHelp = testutil.Dedent(`
	usage: catkin build [-h] [--workspace WORKSPACE]

	Build one or more packages in a catkin workspace.

	optional arguments:
	  -h, --help            show this help message and exit
	  --workspace WORKSPACE, -w WORKSPACE
	                        The path to the catkin_tools workspace.
	  --this                Build the package containing the current working
	                        directory.
	  --cmake-args ARG [ARG ...]
	                        Arbitrary arguments which are passed to CMake.
	  --no-deps             Only build specified packages.
	`)

func TestScan(t *testing.T) {
	entries := Scan(Unwrap(catkinBuildHelp, 8))

	want := []Entry{
		{
			LineNo: 6,
			Text:   "  -h, --help            show this help message and exit",
			Line: helpparse.Line{
				Decls: []helpparse.Decl{
					{Token: helpparse.ShortOption{Char: 'h'}, Args: helpparse.Zero},
					{Token: helpparse.LongOption{Name: "help"}, Args: helpparse.Zero},
				},
				Description: "show this help message and exit",
			},
		},
		{
			LineNo: 7,
			Text:   "  --workspace WORKSPACE, -w WORKSPACE The path to the catkin_tools workspace.",
			Line: helpparse.Line{
				Decls: []helpparse.Decl{
					{Token: helpparse.LongOption{Name: "workspace"}, Args: helpparse.One},
					{Token: helpparse.ShortOption{Char: 'w'}, Args: helpparse.One},
				},
				Description: "The path to the catkin_tools workspace.",
			},
		},
		{
			LineNo: 8,
			Text:   "  --this                Build the package containing the current working directory.",
			Line: helpparse.Line{
				Decls:       []helpparse.Decl{{Token: helpparse.LongOption{Name: "this"}, Args: helpparse.Zero}},
				Description: "Build the package containing the current working directory.",
			},
		},
		{
			LineNo: 9,
			Text:   "  --cmake-args ARG [ARG ...] Arbitrary arguments which are passed to CMake.",
			Line: helpparse.Line{
				Decls:       []helpparse.Decl{{Token: helpparse.LongOption{Name: "cmake-args"}, Args: helpparse.OneOrMore}},
				Description: "Arbitrary arguments which are passed to CMake.",
			},
		},
		{
			LineNo: 10,
			Text:   "  --no-deps             Only build specified packages.",
			Line: helpparse.Line{
				Decls:       []helpparse.Decl{{Token: helpparse.LongOption{Name: "no-deps"}, Args: helpparse.Zero}},
				Description: "Only build specified packages.",
			},
		},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("Scan (-want +got):\n%s", diff)
	}
}

func TestScan_CRLF(t *testing.T) {
	entries := Scan("usage: x\r\n  --foo  Foo.\r\n")
	if len(entries) != 1 || entries[0].Line.Description != "Foo." {
		t.Errorf("Scan with CRLF -> %v", entries)
	}
}

func TestScan_InvariantViolationPanics(t *testing.T) {
	r := testutil.Recover(func() { Scan("  --foo ARG [ARG]  Bad.") })
	if _, ok := r.(*helpparse.InvariantViolation); !ok {
		t.Errorf("Scan panicked with %v, want *InvariantViolation", r)
	}
}

func TestLooksLikeOption(t *testing.T) {
	tt.Test(t, tt.Fn("LooksLikeOption", LooksLikeOption), tt.Table{
		tt.Args("  --foo").Rets(true),
		tt.Args("\t-1").Rets(true),
		tt.Args("usage: -x").Rets(false),
		tt.Args("").Rets(false),
	})
}
