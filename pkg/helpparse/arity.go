package helpparse

import "fmt"

// ArgsNumType is the number of arguments an option accepts.
type ArgsNumType uint8

const (
	// Zero means the option takes no argument, like "--verbose".
	Zero ArgsNumType = iota
	// One means the option takes exactly one argument, like "--input ARG".
	One
	// ZeroOrOne means the option takes an optional argument, like
	// "--color [WHEN]".
	ZeroOrOne
	// OneOrMore means the option takes one or more arguments, like
	// "--input ARG [ARG ...]".
	OneOrMore
	// Any means the option takes any number of arguments, like
	// "--exclude [PATTERN ...]".
	Any
)

var argsNumTypeNames = [...]string{"Zero", "One", "ZeroOrOne", "OneOrMore", "Any"}

func (t ArgsNumType) String() string {
	if int(t) < len(argsNumTypeNames) {
		return argsNumTypeNames[t]
	}
	return fmt.Sprintf("ArgsNumType(%d)", t)
}

// TakesArg reports whether the option accepts at least one argument.
func (t ArgsNumType) TakesArg() bool { return t != Zero }

// ArgRequired reports whether the option must be followed by an argument.
func (t ArgsNumType) ArgRequired() bool { return t == One || t == OneOrMore }

// OptionalArgs describes the bracketed placeholder after an option, like the
// "[ARG ...]" in "--input [ARG ...]".
type OptionalArgs uint8

const (
	// NoOptionalArgs means there is no bracketed placeholder.
	NoOptionalArgs OptionalArgs = iota
	// SingleOptionalArg means the placeholder does not end in "...".
	SingleOptionalArg
	// RepeatedOptionalArgs means the placeholder ends in "...".
	RepeatedOptionalArgs
)

// Classify derives the ArgsNumType from whether a required placeholder (like
// "ARG") was seen and what kind of bracketed placeholder followed it.
//
// A required placeholder followed by a single optional one ("ARG [ARG]") is
// not a convention help text uses; Classify panics with an
// *InvariantViolation in that case.
func Classify(required bool, optional OptionalArgs) ArgsNumType {
	if required {
		switch optional {
		case NoOptionalArgs:
			return One
		case RepeatedOptionalArgs:
			return OneOrMore
		default:
			panic(&InvariantViolation{
				Reason: "required placeholder followed by a non-repeatable optional placeholder"})
		}
	}
	switch optional {
	case NoOptionalArgs:
		return Zero
	case SingleOptionalArg:
		return ZeroOrOne
	default:
		return Any
	}
}
