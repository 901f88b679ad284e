// Package runner invokes the external extraction command for each case,
// captures its stdout to a temporary file, and digests the captured bytes.
//
// A case that cannot run (missing input, non-zero exit, timeout) becomes a
// Result with StatusError; the runner itself never fails a whole run over
// a single bad case.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkoosis/xtcheck/internal/checksum"
	"github.com/dkoosis/xtcheck/internal/suite"
)

// stderrTailLimit bounds how much of the command's stderr is kept for
// diagnostics.
const stderrTailLimit = 4 * 1024

// Runner executes suite cases sequentially.
type Runner struct {
	// Command overrides the suite's command when non-empty.
	Command string
	// Timeout bounds each external invocation; zero means no limit.
	Timeout time.Duration
	// Hasher digests captured output. Required.
	Hasher checksum.Hasher
	// TempDir is where capture files are created; empty means the
	// system default.
	TempDir string
}

// RunSuite runs every case in order and returns the full report. It never
// short-circuits: all cases run regardless of earlier failures. onResult,
// if non-nil, is called after each case completes (progress display).
func (r *Runner) RunSuite(ctx context.Context, s *suite.Suite, onResult func(suite.Result)) *suite.Report {
	rep := &suite.Report{
		Command:   r.commandFor(s),
		Hash:      r.Hasher.Name(),
		StartedAt: time.Now(),
		Results:   make([]suite.Result, 0, len(s.Cases)),
	}
	for _, c := range s.Cases {
		res := r.RunCase(ctx, s, c)
		rep.Results = append(rep.Results, res)
		if onResult != nil {
			onResult(res)
		}
	}
	rep.FinishedAt = time.Now()
	return rep
}

// RunCase executes one case: run the command, hash captured stdout, remove
// the capture file, compare digests.
func (r *Runner) RunCase(ctx context.Context, s *suite.Suite, c suite.Case) suite.Result {
	start := time.Now()
	res := suite.Result{Case: c}

	input := c.Input
	if !filepath.IsAbs(input) {
		input = filepath.Join(s.Dir, input)
	}

	observed, detail, err := r.captureAndDigest(ctx, s, input)
	res.Duration = time.Since(start)
	if err != nil {
		res.Status = suite.StatusError
		res.Detail = errDetail(err, detail)
		return res
	}

	res.Observed = observed
	if observed == c.Digest {
		res.Status = suite.StatusPass
	} else {
		res.Status = suite.StatusFail
		res.Detail = fmt.Sprintf("expected %s, got %s", c.Digest, observed)
	}
	return res
}

// captureAndDigest runs the command with stdout redirected to a fresh temp
// file, then hashes that file. The temp file is always removed; removal
// failure is swallowed (it must not turn a good run into a bad one).
func (r *Runner) captureAndDigest(ctx context.Context, s *suite.Suite, input string) (digest, stderrTail string, err error) {
	out, err := os.CreateTemp(r.TempDir, "xtcheck-*.out")
	if err != nil {
		return "", "", fmt.Errorf("creating capture file: %w", err)
	}
	capturePath := out.Name()
	defer func() { _ = os.Remove(capturePath) }()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	name := r.commandFor(s)
	args := append(append([]string{}, s.Args...), input)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	var stderr bytes.Buffer
	cmd.Stderr = &tailWriter{buf: &stderr, limit: stderrTailLimit}
	setProcessGroup(cmd)

	runErr := cmd.Run()
	closeErr := out.Close()
	stderrTail = strings.TrimSpace(stderr.String())

	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", stderrTail, fmt.Errorf("%s timed out after %s", name, r.Timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			code := exitErr.ExitCode()
			if c, ok := exitCodeFromError(exitErr); ok {
				code = c
			}
			return "", stderrTail, fmt.Errorf("%s exited with code %d", name, code)
		}
		return "", stderrTail, fmt.Errorf("running %s: %w", name, runErr)
	}
	if closeErr != nil {
		return "", stderrTail, fmt.Errorf("flushing capture file: %w", closeErr)
	}

	digest, err = checksum.SumFile(r.Hasher, capturePath)
	if err != nil {
		return "", stderrTail, fmt.Errorf("digesting output: %w", err)
	}
	return digest, stderrTail, nil
}

func (r *Runner) commandFor(s *suite.Suite) string {
	if r.Command != "" {
		return r.Command
	}
	return s.Command
}

// errDetail folds the command's stderr tail into the error message so a
// failing case's diagnostic shows what the tool actually said.
func errDetail(err error, stderrTail string) string {
	if stderrTail == "" {
		return err.Error()
	}
	return err.Error() + ": " + stderrTail
}

// tailWriter keeps only the last limit bytes written to it.
type tailWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *tailWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n >= w.limit {
		w.buf.Reset()
		p = p[n-w.limit:]
	}
	if over := w.buf.Len() + len(p) - w.limit; over > 0 {
		rest := w.buf.Bytes()[over:]
		trimmed := make([]byte, len(rest))
		copy(trimmed, rest)
		w.buf.Reset()
		w.buf.Write(trimmed)
	}
	w.buf.Write(p)
	return n, nil
}
