package prog

import (
	"flag"

	"src.optscan.sh/pkg/config"
)

// FlagSet wraps a [flag.FlagSet]. Flags shared by several programs are
// registered lazily, the first time one of the programs asks for them.
type FlagSet struct {
	*flag.FlagSet
	json   *bool
	config *config.Flags
}

// JSON returns a pointer to the value of the -json flag.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo, -version or -query, or the extracted options, in JSON")
		fs.json = &json
	}
	return fs.json
}

// Config returns the flags that configure help text extraction.
func (fs *FlagSet) Config() *config.Flags {
	if fs.config == nil {
		var f config.Flags
		f.Register(fs.FlagSet)
		fs.config = &f
	}
	return fs.config
}
