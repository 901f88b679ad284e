// Package config loads the optional .xtcheck.yaml settings file and merges
// it with environment variables and command-line flags.
//
// Precedence, lowest to highest: built-in defaults, config file,
// environment, flags.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Flags holds command-line flag values plus whether the user set them
// explicitly (an unset flag must not override the config file).
type Flags struct {
	Suite   string
	Format  string
	Theme   string
	Hash    string
	Command string
	Timeout time.Duration

	FormatSet  bool
	ThemeSet   bool
	HashSet    bool
	CommandSet bool
	TimeoutSet bool
}

// Settings is the merged harness configuration.
type Settings struct {
	Suite   string
	Format  string
	Theme   string
	Hash    string
	Command string
	Timeout time.Duration
	NoColor bool
	Debug   bool
}

// fileSettings mirrors the .xtcheck.yaml schema. Timeout is a duration
// string ("30s") because yaml.v3 has no native time.Duration decoding.
type fileSettings struct {
	Suite   string `yaml:"suite,omitempty"`
	Format  string `yaml:"format,omitempty"`
	Theme   string `yaml:"theme,omitempty"`
	Hash    string `yaml:"hash,omitempty"`
	Command string `yaml:"command,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
	NoColor bool   `yaml:"no_color,omitempty"`
	Debug   bool   `yaml:"debug,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		Format: "auto",
		Theme:  "default",
		Hash:   "md5",
	}
}

// Load reads the config file (if any), applies environment overrides, then
// flag overrides. Warnings and debug chatter go to stderr. A malformed
// config file degrades to defaults with a warning; it never aborts the
// harness.
func Load(flags Flags, stderr io.Writer) *Settings {
	s := Defaults()
	s.Debug = os.Getenv("XTCHECK_DEBUG") != ""

	path := configPath()
	if path == "" {
		if s.Debug {
			fmt.Fprintln(stderr, "[DEBUG Load] no .xtcheck.yaml found, using defaults")
		}
	} else {
		if s.Debug {
			fmt.Fprintf(stderr, "[DEBUG Load] using config file: %s\n", path)
		}
		data, err := os.ReadFile(path)
		if err == nil {
			var fileCfg fileSettings
			if uerr := yaml.Unmarshal(data, &fileCfg); uerr != nil {
				fmt.Fprintf(stderr, "xtcheck: warning: malformed config %s: %v (using defaults)\n", path, uerr)
			} else {
				mergeFile(s, &fileCfg, path, stderr)
			}
		} else if !os.IsNotExist(err) {
			fmt.Fprintf(stderr, "xtcheck: warning: reading config %s: %v (using defaults)\n", path, err)
		}
	}

	applyEnv(s)
	applyFlags(s, flags)

	if s.Debug {
		fmt.Fprintf(stderr, "[DEBUG Load] merged settings: format=%s theme=%s hash=%s timeout=%s no_color=%t\n",
			s.Format, s.Theme, s.Hash, s.Timeout, s.NoColor)
	}
	return s
}

func mergeFile(dst *Settings, src *fileSettings, path string, stderr io.Writer) {
	if src.Suite != "" {
		dst.Suite = src.Suite
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.Hash != "" {
		dst.Hash = src.Hash
	}
	if src.Command != "" {
		dst.Command = src.Command
	}
	if src.Timeout != "" {
		d, err := time.ParseDuration(src.Timeout)
		if err != nil {
			fmt.Fprintf(stderr, "xtcheck: warning: bad timeout %q in %s: %v (ignored)\n", src.Timeout, path, err)
		} else if d > 0 {
			dst.Timeout = d
		}
	}
	dst.NoColor = src.NoColor
	if src.Debug {
		dst.Debug = true
	}
}

func applyEnv(s *Settings) {
	// XTCHECK_DEBUG is presence-based, like the config-path chatter above.
	if os.Getenv("XTCHECK_DEBUG") != "" {
		s.Debug = true
	}

	noColor := os.Getenv("XTCHECK_NO_COLOR")
	if noColor == "" {
		// NO_COLOR is presence-based, not a boolean (no-color.org).
		if os.Getenv("NO_COLOR") != "" {
			s.NoColor = true
		}
		return
	}
	if b, err := strconv.ParseBool(noColor); err == nil {
		s.NoColor = b
	}
}

func applyFlags(s *Settings, f Flags) {
	if f.Suite != "" {
		s.Suite = f.Suite
	}
	if f.FormatSet {
		s.Format = f.Format
	}
	if f.ThemeSet {
		s.Theme = f.Theme
	}
	if f.HashSet {
		s.Hash = f.Hash
	}
	if f.CommandSet {
		s.Command = f.Command
	}
	if f.TimeoutSet {
		s.Timeout = f.Timeout
	}
}

// configPath finds .xtcheck.yaml: local directory first, then the XDG
// user config dir.
func configPath() string {
	local := ".xtcheck.yaml"
	if _, err := os.Stat(local); err == nil {
		return local
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdg := filepath.Join(configHome, "xtcheck", ".xtcheck.yaml")
	if _, err := os.Stat(xdg); err == nil {
		return xdg
	}
	return ""
}
