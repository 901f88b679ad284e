//go:build mage

package main

import (
	"fmt"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build the binary
var Default = Build

// Build builds the xtcheck binary with version metadata stamped in.
func Build() error {
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := fmt.Sprintf(
		"-X github.com/dkoosis/xtcheck/internal/version.Version=%s "+
			"-X github.com/dkoosis/xtcheck/internal/version.CommitHash=%s "+
			"-X github.com/dkoosis/xtcheck/internal/version.BuildDate=%s",
		version, commit, time.Now().UTC().Format(time.RFC3339))
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", "bin/xtcheck", "./cmd/xtcheck")
}

// Test runs the test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// QA runs format, vet, and the test suite.
func QA() error {
	mg.Deps(Fmt, Vet)
	return Test()
}

// Fmt checks formatting.
func Fmt() error {
	return sh.RunV("go", "fmt", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}
