package helpparse

import (
	"fmt"

	"src.optscan.sh/pkg/diag"
)

// NoMatchType is the Type of the *diag.Error returned by ParseLine when a line
// doesn't start with an option clause.
const NoMatchType = "no option clause"

// IsNoMatch reports whether err is a failure to recognize an option clause.
func IsNoMatch(err error) bool {
	_, ok := diag.AsError(err, NoMatchType)
	return ok
}

// InvariantViolation is the panic value used when help text breaks a
// convention the parser relies on. It is never returned as an error.
type InvariantViolation struct {
	// The offending line. May be empty if the violation was detected outside
	// of line parsing.
	Line string
	// What convention was broken.
	Reason string
}

func (iv *InvariantViolation) Error() string {
	if iv.Line == "" {
		return "invariant violation: " + iv.Reason
	}
	return fmt.Sprintf("invariant violation: %s in line %q", iv.Reason, iv.Line)
}
