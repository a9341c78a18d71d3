// Package env keeps names of environment variables with special significance to
// optscan.
package env

// Environment variables read by optscan.
const (
	// Default path of the help-text cache.
	OPTSCAN_CACHE = "OPTSCAN_CACHE"
)

// Environment variables set for commands whose help text is captured.
const (
	GIT_PAGER = "GIT_PAGER"
	MANPAGER  = "MANPAGER"
	NO_COLOR  = "NO_COLOR"
	PAGER     = "PAGER"
	TERM      = "TERM"
)
