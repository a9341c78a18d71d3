package helpparse

// OptionToken is the textual form of one option alias. It is one of
// LongOption, ShortOption and OldOption.
type OptionToken interface {
	// String returns the option as it is spelled in help text.
	String() string
	isOptionToken()
}

// LongOption is an option with two leading dashes, like --help. Name does not
// include the dashes.
type LongOption struct{ Name string }

// ShortOption is an option with one leading dash and a single letter, like -h.
type ShortOption struct{ Char rune }

// OldOption is an option with one leading dash and a name of two or more
// characters, like -help. Name does not include the dash.
type OldOption struct{ Name string }

func (o LongOption) String() string  { return "--" + o.Name }
func (o ShortOption) String() string { return "-" + string(o.Char) }
func (o OldOption) String() string   { return "-" + o.Name }

func (LongOption) isOptionToken()  {}
func (ShortOption) isOptionToken() {}
func (OldOption) isOptionToken()   {}

// Decl pairs an option alias with the number of arguments it accepts.
type Decl struct {
	Token OptionToken
	Args  ArgsNumType
}

func (d Decl) String() string {
	return d.Token.String() + " (" + d.Args.String() + ")"
}

// Line is the result of parsing one line of help text.
type Line struct {
	// Declarations in the order they appear. Never empty.
	Decls []Decl
	// The rest of the line after the last option clause.
	Description string
}
