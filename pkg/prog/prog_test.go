package prog_test

import (
	"os"
	"path/filepath"
	"testing"

	. "src.optscan.sh/pkg/prog"
	"src.optscan.sh/pkg/prog/progtest"
	"src.optscan.sh/pkg/testutil"
)

var (
	Test        = progtest.Test
	ThatOptscan = progtest.ThatOptscan
)

func TestCommonFlagHandling(t *testing.T) {
	dir := testutil.InTempDir(t)

	Test(t, testProgram{},
		ThatOptscan("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatOptscan("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatOptscan("-help").
			WritesStdoutContaining("Usage: optscan [flags]"),

		ThatOptscan("-log", "debug.log").DoesNothing(),
		ThatOptscan("-log", "/a/bad/path/debug.log").
			WritesStderrContaining("/a/bad/path/debug.log"),
	)

	if _, err := os.Stat(filepath.Join(dir, "debug.log")); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestSharedFlags(t *testing.T) {
	var json *bool
	Test(t, flagProgram{func(fs *FlagSet) {
		json = fs.JSON()
		// Registering again is a no-op.
		fs.JSON()
		fs.Config()
		fs.Config()
	}},
		ThatOptscan("-json", "-program", "ls").DoesNothing(),
	)
	if !*json {
		t.Errorf("-json not set")
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatOptscan().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatOptscan().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatOptscan().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatOptscan().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatOptscan().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatOptscan().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatOptscan().ExitsWith(0),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
}

func (p testProgram) RegisterFlags(f *FlagSet) {}

func (p testProgram) Run(fds [3]*os.File, args []string) error {
	if p.notSuitable {
		return ErrNextProgram
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type flagProgram struct{ register func(*FlagSet) }

func (p flagProgram) RegisterFlags(f *FlagSet) { p.register(f) }

func (flagProgram) Run([3]*os.File, []string) error { return nil }
