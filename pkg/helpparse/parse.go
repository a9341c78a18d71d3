// Package helpparse recognizes option declarations in lines of command-line
// help text.
//
// A line such as
//
//	  --input ARG [ARG ...], -i ARG [ARG ...]  Files to read.
//
// declares one logical option with several aliases. ParseLine returns the
// aliases in order, each with the number of arguments it accepts, along with
// the description that follows them.
//
// The grammar, with ws standing for a possibly empty run of spaces and tabs:
//
//	Line         = OptionClause { ',' OptionClause }
//	OptionClause = ws OptionForm ws [ RequiredArg ] ws [ OptionalArgs ] ws
//	OptionForm   = LongForm | OldForm | ShortForm
//	LongForm     = '--' Alpha { Alpha | '-' }+
//	OldForm      = '-' Alpha { Alpha | '-' }+
//	ShortForm    = '-' Alpha
//	RequiredArg  = Upper { Upper }+
//	OptionalArgs = '[' { any character except '[' and ']' }+ ']'
//
// Alternatives are tried in order and repetitions are greedy, as in a parsing
// expression grammar. Once a '[' is seen where OptionalArgs may start, the
// bracket must be well formed or the clause fails.
package helpparse

import "strings"

// Errors.
const (
	errShouldBeOption   = "should be an option like --long, -old or -s"
	errShouldBeAlpha    = "should be a letter"
	errShouldBeIdent    = "should be a letter or '-'"
	errShouldBeUpper    = "should be an uppercase letter"
	errShouldBeLBracket = "should be '['"
	errEmptyBracket     = "empty '[]'"
	errNestedBracket    = "nested '['"
	errUnterminated     = "unterminated '['"
)

// ParseLine parses one line of help text. The line must not contain newlines.
//
// If the line does not start with an option clause, the returned error is a
// *diag.Error whose Type is NoMatchType; IsNoMatch can be used to test for
// it. No partial result is returned in that case.
//
// ParseLine panics with an *InvariantViolation if the line breaks a
// convention that the grammar relies on.
func ParseLine(line string) (Line, error) {
	defer func() {
		if r := recover(); r != nil {
			if iv, ok := r.(*InvariantViolation); ok && iv.Line == "" {
				iv.Line = line
			}
			panic(r)
		}
	}()
	ps := &parser{src: line}
	decls, ok := ps.line()
	if !ok {
		return Line{}, ps.noMatchError()
	}
	return Line{Decls: decls, Description: ps.rest()}, nil
}

// Line = OptionClause { ',' OptionClause }
func (ps *parser) line() ([]Decl, bool) {
	decl, ok := ps.optionClause()
	if !ok {
		return nil, false
	}
	decls := []Decl{decl}
	for {
		save := ps.pos
		if ps.next() != ',' {
			ps.pos = save
			break
		}
		decl, ok := ps.optionClause()
		if !ok {
			// The separator belongs to the description.
			ps.pos = save
			break
		}
		decls = append(decls, decl)
	}
	return decls, true
}

// OptionClause = ws OptionForm ws [ RequiredArg ] ws [ OptionalArgs ] ws
func (ps *parser) optionClause() (Decl, bool) {
	ps.ws()
	token, ok := ps.optionForm()
	if !ok {
		return Decl{}, false
	}
	ps.ws()
	required := ps.tryRequiredArg()
	ps.ws()
	optional := NoOptionalArgs
	if ps.peek() == '[' {
		optional, ok = ps.optionalArgs()
		if !ok {
			return Decl{}, false
		}
	}
	ps.ws()
	return Decl{token, Classify(required, optional)}, true
}

// OptionForm = LongForm | OldForm | ShortForm
func (ps *parser) optionForm() (OptionToken, bool) {
	save := ps.pos
	if token, ok := ps.longOption(); ok {
		return token, true
	}
	ps.pos = save
	if token, ok := ps.oldOption(); ok {
		return token, true
	}
	ps.pos = save
	if token, ok := ps.shortOption(); ok {
		return token, true
	}
	ps.pos = save
	return nil, ps.fail(errShouldBeOption)
}

// LongForm = '--' Alpha { Alpha | '-' }+
func (ps *parser) longOption() (OptionToken, bool) {
	if !ps.hasPrefix("--") {
		return nil, ps.fail(errShouldBeOption)
	}
	ps.pos += 2
	name, ok := ps.ident()
	if !ok {
		return nil, false
	}
	return LongOption{name}, true
}

// OldForm = '-' Alpha { Alpha | '-' }+
func (ps *parser) oldOption() (OptionToken, bool) {
	if ps.peek() != '-' {
		return nil, ps.fail(errShouldBeOption)
	}
	ps.next()
	name, ok := ps.ident()
	if !ok {
		return nil, false
	}
	return OldOption{name}, true
}

// ShortForm = '-' Alpha
func (ps *parser) shortOption() (OptionToken, bool) {
	if ps.peek() != '-' {
		return nil, ps.fail(errShouldBeOption)
	}
	ps.next()
	r := ps.peek()
	if !isAlpha(r) {
		return nil, ps.fail(errShouldBeAlpha)
	}
	ps.next()
	return ShortOption{r}, true
}

// Parses Alpha { Alpha | '-' }+, the name of a long or old option.
func (ps *parser) ident() (string, bool) {
	begin := ps.pos
	if !isAlpha(ps.peek()) {
		return "", ps.fail(errShouldBeAlpha)
	}
	ps.next()
	if r := ps.peek(); !isAlpha(r) && r != '-' {
		return "", ps.fail(errShouldBeIdent)
	}
	for r := ps.peek(); isAlpha(r) || r == '-'; r = ps.peek() {
		ps.next()
	}
	return ps.src[begin:ps.pos], true
}

// Parses an optional RequiredArg, restoring the position if there is none.
func (ps *parser) tryRequiredArg() bool {
	save := ps.pos
	if ps.requiredArg() {
		return true
	}
	ps.pos = save
	return false
}

// RequiredArg = Upper { Upper }+
func (ps *parser) requiredArg() bool {
	for i := 0; i < 2; i++ {
		if !isUpper(ps.peek()) {
			return ps.fail(errShouldBeUpper)
		}
		ps.next()
	}
	for isUpper(ps.peek()) {
		ps.next()
	}
	return true
}

// OptionalArgs = '[' { any character except '[' and ']' }+ ']'
func (ps *parser) optionalArgs() (OptionalArgs, bool) {
	if ps.peek() != '[' {
		return NoOptionalArgs, ps.fail(errShouldBeLBracket)
	}
	ps.next()
	begin := ps.pos
	for {
		switch ps.peek() {
		case ']':
			if ps.pos == begin {
				return NoOptionalArgs, ps.fail(errEmptyBracket)
			}
			inner := ps.src[begin:ps.pos]
			ps.next()
			if strings.HasSuffix(inner, "...") {
				return RepeatedOptionalArgs, true
			}
			return SingleOptionalArg, true
		case '[':
			return NoOptionalArgs, ps.fail(errNestedBracket)
		case eof:
			return NoOptionalArgs, ps.fail(errUnterminated)
		}
		ps.next()
	}
}

func (ps *parser) ws() {
	for isInlineWhitespace(ps.peek()) {
		ps.next()
	}
}
