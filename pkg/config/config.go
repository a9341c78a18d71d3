// Package config loads and validates generator configuration.
//
// A configuration file is YAML (.yaml, .yml) or TOML (.toml), with the same
// kebab-case keys as the command-line flags:
//
//	program: catkin
//	subcommands: [build, clean]
//	shell: fish
//	timeout: 10s
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
	"src.optscan.sh/pkg/complete"
	"src.optscan.sh/pkg/env"
	"src.optscan.sh/pkg/helptext"
)

// Config keeps the settings of one generator run.
type Config struct {
	// The command to extract options from.
	Program string `mapstructure:"program"`
	// Subcommands whose options are extracted in addition to the program's.
	Subcommands []string `mapstructure:"subcommands"`
	// Name of the output format; see complete.ByName.
	Shell string `mapstructure:"shell"`
	// The flag that asks for help. If empty, --help and -h are tried in turn.
	HelpFlag string        `mapstructure:"help-flag"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// Whether to run commands attached to a pseudo-terminal.
	TTY bool `mapstructure:"tty"`
	// Path to the help-text cache. If empty, help texts are not cached.
	Cache string `mapstructure:"cache"`
	// Maximum age of cached help texts. 0 means no limit.
	CacheMaxAge time.Duration `mapstructure:"cache-max-age"`
	// Continuation lines indented by at least this many spaces are joined to
	// the previous line.
	UnwrapIndent int `mapstructure:"unwrap-indent"`
	// Maximum number of help texts captured concurrently.
	Jobs int `mapstructure:"jobs"`
}

// Default returns the default configuration. Its Program is empty, so it does
// not pass Validate as is. The cache path defaults to $OPTSCAN_CACHE.
func Default() Config {
	return Config{
		Shell:        "fish",
		Cache:        os.Getenv(env.OPTSCAN_CACHE),
		Timeout:      helptext.DefaultTimeout,
		UnwrapIndent: helptext.DefaultUnwrapIndent,
		Jobs:         4,
	}
}

// HelpFlags returns the help flags to try, in order.
func (c *Config) HelpFlags() []string {
	if c.HelpFlag == "" {
		return helptext.DefaultHelpFlags
	}
	return []string{c.HelpFlag}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.Program == "":
		return fmt.Errorf("program must be set")
	case c.Jobs < 1:
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	case c.UnwrapIndent < 1:
		return fmt.Errorf("unwrap-indent must be at least 1, got %d", c.UnwrapIndent)
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	case c.CacheMaxAge < 0:
		return fmt.Errorf("cache-max-age must not be negative, got %v", c.CacheMaxAge)
	}
	for _, sub := range c.Subcommands {
		if sub == "" || strings.HasPrefix(sub, "-") {
			return fmt.Errorf("invalid subcommand %q", sub)
		}
	}
	if _, err := complete.ByName(c.Shell); err != nil {
		return err
	}
	return nil
}

// Load reads a configuration file on top of Default and validates the result.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	data, err := parseContent(content, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg := Default()
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseContent(content []byte, ext string) (map[string]any, error) {
	var data map[string]any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(content, &data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q, should be .yaml, .yml or .toml", ext)
	}
	return data, nil
}

func decode(data map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
