package helptext

import (
	"fmt"
	"regexp"
	"strings"

	"src.optscan.sh/pkg/helpparse"
)

// DefaultUnwrapIndent is the indentation from which a line is considered a
// continuation of the previous one.
const DefaultUnwrapIndent = 8

// Unwrap joins continuation lines: each newline followed by at least indent
// spaces is replaced by a single space. Descriptions that help output wraps
// onto deeply indented lines thus end up on the line of their option.
func Unwrap(text string, indent int) string {
	if indent <= 0 {
		indent = DefaultUnwrapIndent
	}
	pattern := regexp.MustCompile(fmt.Sprintf(`\n {%d,}`, indent))
	return pattern.ReplaceAllString(text, " ")
}

// Entry is one line of help text that declares options.
type Entry struct {
	// 1-based line number.
	LineNo int
	Text   string
	Line   helpparse.Line
}

// Scan parses each line of text and returns those that declare options.
// Lines that don't are skipped. Like helpparse.ParseLine, Scan panics with an
// *helpparse.InvariantViolation if a line breaks the help text conventions.
func Scan(text string) []Entry {
	var entries []Entry
	for i, text := range strings.Split(text, "\n") {
		text = strings.TrimSuffix(text, "\r")
		line, err := helpparse.ParseLine(text)
		if err != nil {
			if LooksLikeOption(text) {
				logger.Printf("line %d skipped: %v", i+1, err)
			}
			continue
		}
		entries = append(entries, Entry{LineNo: i + 1, Text: text, Line: line})
	}
	return entries
}

// LooksLikeOption reports whether the first non-blank character of a line is
// '-'. Such lines are probably meant to declare options.
func LooksLikeOption(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t"), "-")
}
