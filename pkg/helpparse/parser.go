package helpparse

import (
	"strings"
	"unicode/utf8"

	"src.optscan.sh/pkg/diag"
)

// parser maintains the mutable states of parsing one line.
//
// Grammar rules are methods that either consume the construct and report
// success, or report failure; a failing rule may have advanced pos, and the
// caller restores it for backtracking. The farthest failure is remembered for
// error reporting.
type parser struct {
	src string
	pos int

	failPos int
	failMsg string
}

const eof rune = -1

func (ps *parser) peek() rune {
	if ps.pos == len(ps.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:])
	return r
}

func (ps *parser) next() rune {
	if ps.pos == len(ps.src) {
		return eof
	}
	r, s := utf8.DecodeRuneInString(ps.src[ps.pos:])
	ps.pos += s
	return r
}

func (ps *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(ps.src[ps.pos:], prefix)
}

func (ps *parser) rest() string { return ps.src[ps.pos:] }

// fail records a failure at the current position and returns false.
func (ps *parser) fail(msg string) bool {
	if ps.pos >= ps.failPos {
		ps.failPos, ps.failMsg = ps.pos, msg
	}
	return false
}

func (ps *parser) noMatchError() error {
	end := ps.failPos
	if end < len(ps.src) {
		_, s := utf8.DecodeRuneInString(ps.src[end:])
		end += s
	}
	return &diag.Error{
		Type:    NoMatchType,
		Message: ps.failMsg,
		Context: *diag.NewContext("[line]", ps.src, diag.Ranging{From: ps.failPos, To: end}),
	}
}

func isInlineWhitespace(r rune) bool { return r == ' ' || r == '\t' }

func isLower(r rune) bool { return 'a' <= r && r <= 'z' }
func isUpper(r rune) bool { return 'A' <= r && r <= 'Z' }
func isAlpha(r rune) bool { return isLower(r) || isUpper(r) }
