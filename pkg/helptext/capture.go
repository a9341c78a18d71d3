// Package helptext obtains help text from programs and turns it into parsed
// option lines.
package helptext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/creack/pty"
	"src.optscan.sh/pkg/env"
	"src.optscan.sh/pkg/logutil"
	"src.optscan.sh/pkg/sys"
)

var logger = logutil.GetLogger("[helptext] ")

// DefaultTimeout is the timeout used when CaptureOptions.Timeout is 0.
const DefaultTimeout = 5 * time.Second

// DefaultHelpFlags are the flags tried when CaptureOptions.HelpFlags is empty.
var DefaultHelpFlags = []string{"--help", "-h"}

// CaptureOptions configures Capture.
type CaptureOptions struct {
	// Flags appended to the command, tried in order until one of them
	// produces output.
	HelpFlags []string
	// Timeout for each attempt.
	Timeout time.Duration
	// Run the command under a pseudo-terminal.
	TTY bool
}

// Environment added to the command so that help is printed plainly and
// without waiting for a pager.
var quietEnv = []string{
	env.PAGER + "=cat",
	env.GIT_PAGER + "=cat",
	env.MANPAGER + "=cat",
	env.TERM + "=dumb",
	env.NO_COLOR + "=1",
}

// ErrNoHelp is returned by Capture when none of the help flags produced
// output.
var ErrNoHelp = errors.New("no help output")

// Capture runs argv with each help flag in turn and returns the first
// non-empty output. Stdout is preferred over stderr. A non-zero exit status is
// not an error, since many programs exit with one after printing help.
func Capture(ctx context.Context, argv []string, opts CaptureOptions) (string, error) {
	if len(argv) == 0 {
		return "", errors.New("empty command")
	}
	flags := opts.HelpFlags
	if len(flags) == 0 {
		flags = DefaultHelpFlags
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	for _, flag := range flags {
		args := append(append([]string(nil), argv[1:]...), flag)
		out, err := captureOne(ctx, timeout, opts.TTY, argv[0], args)
		if err != nil {
			return "", fmt.Errorf("run %s: %w", strings.Join(argv, " "), err)
		}
		if strings.TrimSpace(out) != "" {
			return out, nil
		}
		logger.Printf("%s %s: no output", strings.Join(argv, " "), flag)
	}
	return "", fmt.Errorf("%s: %w", strings.Join(argv, " "), ErrNoHelp)
}

func captureOne(ctx context.Context, timeout time.Duration, tty bool, name string, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), quietEnv...)

	var stdout, stderr bytes.Buffer
	var wait func() error
	if tty {
		f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 50, Cols: 120})
		if err != nil {
			return "", err
		}
		copied := make(chan struct{})
		go func() {
			// Reading the master side fails with EIO once the child exits.
			io.Copy(&stdout, f)
			close(copied)
		}()
		wait = func() error {
			err := cmd.Wait()
			<-copied
			f.Close()
			return err
		}
	} else {
		cmd.SysProcAttr = sys.GroupAttr()
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Start(); err != nil {
			return "", err
		}
		wait = cmd.Wait
	}

	done := make(chan error, 1)
	go func() { done <- wait() }()
	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			return "", err
		}
	case <-ctx.Done():
		if err := sys.KillGroup(cmd.Process.Pid); err != nil {
			logger.Printf("kill %s: %v", name, err)
		}
		<-done
		return "", ctx.Err()
	}

	out := stdout.String()
	if strings.TrimSpace(out) == "" {
		out = stderr.String()
	}
	return normalize(out), nil
}

var sgrPattern = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")

// Drops carriage returns and terminal escape sequences, which programs emit
// when they believe they are writing to a terminal.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return sgrPattern.ReplaceAllString(s, "")
}
