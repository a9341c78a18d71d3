package diag

import (
	"errors"
	"strings"
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Markers around the message in Show. Can be changed for testing.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return e.Type + ": " + e.Context.Describe() + ": " + e.Message
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	header := title(e.Type) + ": " + messageStart + e.Message + messageEnd + "\n"
	return indent + header + e.Context.Show(indent+"  ")
}

// AsError returns the *Error of the given type wrapped in err, if any.
func AsError(err error, typ string) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e.Type == typ {
		return e, true
	}
	return nil, false
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
