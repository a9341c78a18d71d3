// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import (
	"errors"
	"time"
)

// ErrNoHelpText is the error returned when there is no cached help text for a
// command, or the cached text is older than the requested maximum age.
var ErrNoHelpText = errors.New("no cached help text")

// Store is an interface satisfied by the storage service.
type Store interface {
	// HelpText returns the help text cached for the command path. A maxAge of
	// 0 accepts entries of any age.
	HelpText(path []string, maxAge time.Duration) (string, error)
	PutHelpText(path []string, text string) error
	DelHelpText(path []string) error
	// HelpTextPaths returns the paths of all cached entries, sorted.
	HelpTextPaths() ([][]string, error)
}
