// Package gen extracts the options of a program and its subcommands from
// their help texts, and renders them as completion directives.
package gen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"src.optscan.sh/pkg/complete"
	"src.optscan.sh/pkg/config"
	"src.optscan.sh/pkg/helpparse"
	"src.optscan.sh/pkg/helptext"
	"src.optscan.sh/pkg/logutil"
	"src.optscan.sh/pkg/store"
	"src.optscan.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[gen] ")

// Source provides help texts. The path is the program followed by zero or
// one subcommand.
type Source interface {
	Help(ctx context.Context, path []string) (string, error)
}

// ExecSource obtains help texts by running commands.
type ExecSource struct {
	Options helptext.CaptureOptions
}

// Help implements Source.
func (s ExecSource) Help(ctx context.Context, path []string) (string, error) {
	return helptext.Capture(ctx, path, s.Options)
}

// NewExecSource returns an ExecSource configured by cfg.
func NewExecSource(cfg *config.Config) ExecSource {
	return ExecSource{helptext.CaptureOptions{
		HelpFlags: cfg.HelpFlags(), Timeout: cfg.Timeout, TTY: cfg.TTY}}
}

// FatalError is returned when a help text breaks the conventions of help
// output. Unlike failing to capture a help text, it aborts the whole run.
type FatalError struct {
	Path []string
	// 1-based line number in the unwrapped help text, or 0 if unknown.
	LineNo int
	Line   string
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: line %d: %s: %q",
		strings.Join(e.Path, " "), e.LineNo, e.Reason, e.Line)
}

// Show shows the error with the offending line on its own line.
func (e *FatalError) Show(indent string) string {
	return fmt.Sprintf("\033[31;1mInvariant violation:\033[m %s, line %d: %s\n%s  %s",
		strings.Join(e.Path, " "), e.LineNo, e.Reason, indent, e.Line)
}

// SkipError records a subcommand skipped because its help text could not be
// obtained.
type SkipError struct {
	Subcommand string
	Err        error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped subcommand %s: %v", e.Subcommand, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }

// Subcommand keeps the specs extracted for one subcommand.
type Subcommand struct {
	Name  string
	Specs []complete.Spec
}

// Result keeps the specs extracted for a program.
type Result struct {
	Program string
	Global  []complete.Spec
	// Subcommands whose help text was extracted, in configuration order.
	Subcommands []Subcommand
	// Subcommands whose help text could not be obtained.
	Skipped []*SkipError
}

// SpecsFor returns the specs that apply after the given subcommand has been
// typed: the global specs followed by those of the subcommand. An empty name
// selects the global specs only.
func (r *Result) SpecsFor(sub string) []complete.Spec {
	specs := append([]complete.Spec(nil), r.Global...)
	for _, s := range r.Subcommands {
		if s.Name == sub {
			specs = append(specs, s.Specs...)
		}
	}
	return specs
}

// Render writes the result with a renderer.
func (r *Result) Render(w io.Writer, rd complete.Renderer) error {
	if err := rd.Begin(w, r.Program); err != nil {
		return err
	}
	for _, spec := range r.Global {
		if err := rd.Spec(w, r.Program, spec); err != nil {
			return err
		}
	}
	for _, sub := range r.Subcommands {
		if err := rd.Subcommand(w, r.Program, sub.Name); err != nil {
			return err
		}
		for _, spec := range sub.Specs {
			if err := rd.Spec(w, r.Program, spec); err != nil {
				return err
			}
		}
	}
	return rd.End(w, r.Program)
}

// Generate collects the specs of cfg.Program and renders them to w. It returns
// the subcommands that were skipped.
func Generate(ctx context.Context, cfg config.Config, src Source, w io.Writer, r complete.Renderer) ([]*SkipError, error) {
	result, err := Collect(ctx, cfg, src)
	if err != nil {
		return nil, err
	}
	return result.Skipped, result.Render(w, r)
}

// Collect extracts the specs of cfg.Program and its configured subcommands.
// Help texts are captured concurrently, at most cfg.Jobs at a time. If
// cfg.Cache is set, help texts are looked up in and saved to the cache.
//
// A failure to obtain the help text of a subcommand is logged and the
// subcommand is skipped; a failure for the program itself is returned.
func Collect(ctx context.Context, cfg config.Config, src Source) (*Result, error) {
	if cfg.Cache != "" {
		st, err := store.NewStore(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		defer st.Close()
		src = Cached(src, st, cfg.CacheMaxAge)
	}
	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}

	scopes := append([]string{""}, cfg.Subcommands...)
	specs := make([][]complete.Spec, len(scopes))
	errs := make([]error, len(scopes))

	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	for i, sub := range scopes {
		path := []string{cfg.Program}
		if sub != "" {
			path = append(path, sub)
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, sub string, path []string) {
			defer wg.Done()
			defer func() { <-sem }()
			specs[i], errs[i] = extract(ctx, src, path, complete.Scope{Subcommand: sub}, cfg.UnwrapIndent)
		}(i, sub, path)
	}
	wg.Wait()

	for _, err := range errs {
		var fatal *FatalError
		if errors.As(err, &fatal) {
			return nil, err
		}
	}
	if errs[0] != nil {
		return nil, errs[0]
	}
	result := &Result{Program: cfg.Program, Global: specs[0]}
	for i, sub := range cfg.Subcommands {
		if err := errs[i+1]; err != nil {
			logger.Printf("skipping subcommand %s: %v", sub, err)
			result.Skipped = append(result.Skipped, &SkipError{sub, err})
			continue
		}
		result.Subcommands = append(result.Subcommands, Subcommand{sub, specs[i+1]})
	}
	return result, nil
}

func extract(ctx context.Context, src Source, path []string, scope complete.Scope, indent int) (specs []complete.Spec, err error) {
	text, err := src.Help(ctx, path)
	if err != nil {
		return nil, err
	}
	text = helptext.Unwrap(text, indent)

	defer func() {
		if r := recover(); r != nil {
			iv, ok := r.(*helpparse.InvariantViolation)
			if !ok {
				panic(r)
			}
			err = &FatalError{Path: path, LineNo: lineNumber(text, iv.Line),
				Line: iv.Line, Reason: iv.Reason}
		}
	}()
	for _, entry := range helptext.Scan(text) {
		specs = append(specs, group(entry, scope))
	}
	logger.Printf("%s: %d specs", strings.Join(path, " "), len(specs))
	return specs, nil
}

func group(entry helptext.Entry, scope complete.Scope) complete.Spec {
	defer func() {
		if r := recover(); r != nil {
			if iv, ok := r.(*helpparse.InvariantViolation); ok && iv.Line == "" {
				iv.Line = entry.Text
			}
			panic(r)
		}
	}()
	return complete.Group(entry.Line, scope)
}

func lineNumber(text, line string) int {
	for i, l := range strings.Split(text, "\n") {
		if strings.TrimSuffix(l, "\r") == line {
			return i + 1
		}
	}
	return 0
}

type cachedSource struct {
	src    Source
	st     storedefs.Store
	maxAge time.Duration
}

// Cached wraps a Source so that help texts are served from st when present
// and no older than maxAge, and saved to st after being obtained from src.
// Cache failures are logged and otherwise ignored.
func Cached(src Source, st storedefs.Store, maxAge time.Duration) Source {
	return cachedSource{src, st, maxAge}
}

func (c cachedSource) Help(ctx context.Context, path []string) (string, error) {
	text, err := c.st.HelpText(path, c.maxAge)
	if err == nil {
		logger.Printf("%s: cache hit", strings.Join(path, " "))
		return text, nil
	}
	if err != storedefs.ErrNoHelpText {
		logger.Printf("%s: cache lookup failed: %v", strings.Join(path, " "), err)
	}
	text, err = c.src.Help(ctx, path)
	if err != nil {
		return "", err
	}
	if err := c.st.PutHelpText(path, text); err != nil {
		logger.Printf("%s: cache save failed: %v", strings.Join(path, " "), err)
	}
	return text, nil
}
