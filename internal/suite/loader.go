package suite

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a suite YAML file. Inputs in the returned suite resolve
// relative to the suite file's directory, so the harness behaves the same
// no matter where it is invoked from.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite %s: %w", path, err)
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	if s.Command == "" {
		s.Command = DefaultCommand
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.Dir = filepath.Dir(abs)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal renders the suite as YAML, the format Load accepts. Used by the
// pin subcommand, which writes refreshed digests to stdout and never back
// to the suite file.
func Marshal(s *Suite) ([]byte, error) {
	return yaml.Marshal(s)
}

// DefaultCommand is the extraction tool the built-in table exercises.
const DefaultCommand = "textract"

// Builtin returns the hard-coded test table. Inputs resolve relative to
// the examples directory next to the harness binary, not the caller's
// working directory.
func Builtin() *Suite {
	dir := "examples"
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Join(filepath.Dir(exe), "examples")
	}
	return &Suite{
		Command: DefaultCommand,
		Dir:     dir,
		Cases: []Case{
			{Input: "docx/i_heart_word.docx", Digest: "35b515d5e9d68af496f9233eb81547be"},
			{Input: "pptx/i_love_powerpoint.pptx", Digest: "a5bc9cbe9284d4c81c1106a8137e4a4d"},
		},
	}
}
