// Package suite defines the pinned test table the harness runs, and the
// per-case results it accumulates.
package suite

import (
	"fmt"
	"strings"

	"github.com/dkoosis/xtcheck/internal/checksum"
)

// Case is one pinned (input, expected digest) pair. Cases are authored
// once and never mutated by the harness.
type Case struct {
	// Name identifies the case in reports. Defaults to Input when empty.
	Name string `yaml:"name,omitempty"`
	// Input is the document path handed to the extraction command,
	// relative to the suite's Dir.
	Input string `yaml:"input"`
	// Digest is the expected lowercase hex digest of the command's stdout.
	Digest string `yaml:"digest"`
}

// Label returns the display name for the case.
func (c Case) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Input
}

// Suite is an ordered table of cases plus the command they exercise.
type Suite struct {
	// Command is the extraction command to invoke, e.g. "textract".
	Command string `yaml:"command"`
	// Args are extra arguments placed before the input path.
	Args []string `yaml:"args,omitempty"`
	// Hash names the digest algorithm; empty means md5.
	Hash string `yaml:"hash,omitempty"`
	// Cases run in order; every case runs regardless of earlier failures.
	Cases []Case `yaml:"cases"`

	// Dir is the directory inputs resolve against. Set by the loader
	// (suite-file directory, or the executable directory for the
	// built-in table); never serialized.
	Dir string `yaml:"-"`
}

// Validate reports the first structural problem with the suite.
func (s *Suite) Validate() error {
	if s.Command == "" {
		return fmt.Errorf("suite: command must not be empty")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("suite: no cases defined")
	}
	wantLen := checksum.HexLength(s.Hash)
	if wantLen == 0 {
		return fmt.Errorf("suite: unknown hash algorithm %q", s.Hash)
	}
	for i, c := range s.Cases {
		if c.Input == "" {
			return fmt.Errorf("suite: case %d has no input path", i)
		}
		if err := validDigest(c.Digest, wantLen); err != nil {
			return fmt.Errorf("suite: case %q: %w", c.Label(), err)
		}
	}
	return nil
}

// validDigest checks for a lowercase hex string of the expected length.
// Comparison downstream is exact string equality, so anything that can
// never match (uppercase, wrong length) is rejected up front.
func validDigest(d string, wantLen int) error {
	if d == "" {
		return fmt.Errorf("missing expected digest")
	}
	if len(d) != wantLen {
		return fmt.Errorf("expected digest has length %d, want %d", len(d), wantLen)
	}
	for _, r := range d {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return fmt.Errorf("expected digest contains non-hex character %q", r)
		}
	}
	return nil
}
