package config

import (
	"flag"
	"strings"
)

// Flags binds command-line flags that override values of a configuration
// file.
type Flags struct {
	// Path of the configuration file, from -config.
	Path string

	fs   *flag.FlagSet
	over Config
}

// Register defines the flags on fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	d := Default()
	f.fs = fs
	fs.StringVar(&f.Path, "config", "", "Read settings from a YAML or TOML file")
	fs.StringVar(&f.over.Program, "program", "", "The command to extract options from")
	fs.Var((*listValue)(&f.over.Subcommands), "subcommands",
		"Comma-separated subcommands to extract options from")
	fs.StringVar(&f.over.Shell, "shell", d.Shell, "Output format: elvish, fish or json")
	fs.StringVar(&f.over.HelpFlag, "help-flag", "",
		"The flag that shows help; --help and -h are tried if empty")
	fs.DurationVar(&f.over.Timeout, "timeout", d.Timeout, "Time limit of each help capture")
	fs.BoolVar(&f.over.TTY, "tty", false, "Run commands attached to a pseudo-terminal")
	fs.StringVar(&f.over.Cache, "cache", "", "Path to the help-text cache database")
	fs.DurationVar(&f.over.CacheMaxAge, "cache-max-age", 0,
		"Ignore cached help texts older than this; 0 for no limit")
	fs.IntVar(&f.over.UnwrapIndent, "unwrap-indent", d.UnwrapIndent,
		"Join lines indented by at least this many spaces to the previous line")
	fs.IntVar(&f.over.Jobs, "jobs", d.Jobs, "Maximum number of concurrent captures")
}

// Resolve returns the effective configuration: the file named by -config (or
// Default if there is none) with explicitly set flags applied on top. The
// result is validated. It must be called after the flags are parsed.
func (f *Flags) Resolve() (Config, error) {
	cfg := Default()
	if f.Path != "" {
		var err error
		cfg, err = Load(f.Path)
		if err != nil {
			return Config{}, err
		}
	}
	f.fs.Visit(func(fl *flag.Flag) {
		if apply, ok := overriders[fl.Name]; ok {
			apply(&cfg, &f.over)
		}
	})
	return cfg, cfg.Validate()
}

var overriders = map[string]func(dst, src *Config){
	"program":       func(dst, src *Config) { dst.Program = src.Program },
	"subcommands":   func(dst, src *Config) { dst.Subcommands = src.Subcommands },
	"shell":         func(dst, src *Config) { dst.Shell = src.Shell },
	"help-flag":     func(dst, src *Config) { dst.HelpFlag = src.HelpFlag },
	"timeout":       func(dst, src *Config) { dst.Timeout = src.Timeout },
	"tty":           func(dst, src *Config) { dst.TTY = src.TTY },
	"cache":         func(dst, src *Config) { dst.Cache = src.Cache },
	"cache-max-age": func(dst, src *Config) { dst.CacheMaxAge = src.CacheMaxAge },
	"unwrap-indent": func(dst, src *Config) { dst.UnwrapIndent = src.UnwrapIndent },
	"jobs":          func(dst, src *Config) { dst.Jobs = src.Jobs },
}

// A flag.Value for comma-separated lists.
type listValue []string

func (l *listValue) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listValue) Set(s string) error {
	*l = nil
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}

