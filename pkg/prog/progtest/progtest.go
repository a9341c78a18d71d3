// Package progtest contains utilities for testing [prog.Program]
// implementations by running them with command-line arguments and checking
// their exit status and output.
package progtest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"src.optscan.sh/pkg/must"
	"src.optscan.sh/pkg/prog"
)

// Case is a test case for Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitStatus int
	out, err   output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return fmt.Sprintf("text containing %q", o.content)
	}
	return fmt.Sprintf("%q", o.content)
}

func (o output) matches(s string) bool {
	if o.partial {
		return strings.Contains(s, o.content)
	}
	return s == o.content
}

// ThatOptscan returns a new Case with the specified CLI arguments, not
// including the program name.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "optscan -bad-flag" exits with 2 reads
// like:
//
//	ThatOptscan("-bad-flag").ExitsWith(2)
func ThatOptscan(args ...string) Case {
	return Case{args: args}
}

// WithStdin returns an altered Case that provides the given input to stdin of
// the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise don't
// have any expectations, for example:
//
//	ThatOptscan("-help").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program to exit with the
// given exit status.
func (c Case) ExitsWith(code int) Case {
	c.want.exitStatus = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.out = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program to
// write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.out = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.err = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program to
// write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.err = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitStatus != c.want.exitStatus {
				t.Errorf("got exit status %v, want %v", r.exitStatus, c.want.exitStatus)
			}
			if !c.want.out.matches(r.out.content) {
				t.Errorf("got stdout %q, want %s", r.out.content, c.want.out)
			}
			if !c.want.err.matches(r.err.content) {
				t.Errorf("got stderr %q, want %s", r.err.content, c.want.err)
			}
		})
	}
}

// Run runs a Program with the given arguments. It returns the Program's exit
// status and output to stdout and stderr.
func Run(p prog.Program, args ...string) (exit int, stdout, stderr string) {
	r := run(p, args, "")
	return r.exitStatus, r.out.content, r.err.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.OK2(os.Pipe())
	// Stdin is small enough in tests to fit in the pipe buffer.
	must.OK1(w0.WriteString(stdin))
	w0.Close()
	defer r0.Close()

	w1, get1 := capturedOutput()
	w2, get2 := capturedOutput()

	exitStatus := prog.Run([3]*os.File{r0, w1, w2},
		append([]string{"optscan"}, args...), p)
	return result{exitStatus, output{content: get1()}, output{content: get2()}}
}

func capturedOutput() (*os.File, func() string) {
	r, w := must.OK2(os.Pipe())
	output := make(chan string, 1)
	go func() {
		b := must.OK1(io.ReadAll(r))
		r.Close()
		output <- string(b)
	}()
	return w, func() string {
		// Close the write side so captureOutput goroutine sees EOF and
		// terminates allowing us to capture and cache the output.
		w.Close()
		return <-output
	}
}
