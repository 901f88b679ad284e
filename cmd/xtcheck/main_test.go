package main

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- E2E tests ---
// These exercise the full pipeline: suite file → runner → external command
// → digest compare → render → exit code, using a stand-in extraction
// script in a temp directory.

// chdir switches to dir for the duration of the test, like t.Chdir in
// newer Go releases.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

// writeScript creates an executable shell script and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// harness builds a suite directory with a cat-like extraction script and
// two input documents, one pinned correctly and one pinned wrong.
func harness(t *testing.T) (suitePath string) {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir) // keep any real .xtcheck.yaml out of the picture
	extract := writeScript(t, dir, "fakextract", `cat "$1"`)
	writeFile(t, dir, "good.docx", "i heart word\n")
	writeFile(t, dir, "drifted.pptx", "i love powerpoint\n")

	suiteYAML := fmt.Sprintf(`
command: %s
cases:
  - input: good.docx
    digest: %s
  - input: drifted.pptx
    digest: %s
`, extract, md5Hex("i heart word\n"), strings.Repeat("0", 32))
	return writeFile(t, dir, "checks.yaml", suiteYAML)
}

func TestRun_MixedSuiteExitsWithFailureCount(t *testing.T) {
	suitePath := harness(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--suite", suitePath, "--format", "llm"}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit code 1 (one failing case), got %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "SCOPE: FAIL 1/2") {
		t.Errorf("missing scope line; got:\n%s", out)
	}
	if !strings.Contains(out, "PASS good.docx") {
		t.Errorf("missing passing case; got:\n%s", out)
	}
	if !strings.Contains(out, "FAIL drifted.pptx") {
		t.Errorf("missing failing case; got:\n%s", out)
	}

	// Failure diagnostic on stderr names the input and both digests.
	diag := stderr.String()
	if !strings.Contains(diag, "drifted.pptx") {
		t.Errorf("stderr diagnostic missing input name; got:\n%s", diag)
	}
	if !strings.Contains(diag, strings.Repeat("0", 32)) {
		t.Errorf("stderr diagnostic missing expected digest; got:\n%s", diag)
	}
	if !strings.Contains(diag, md5Hex("i love powerpoint\n")) {
		t.Errorf("stderr diagnostic missing observed digest; got:\n%s", diag)
	}
}

func TestRun_AllPassingExitsZero(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XTCHECK_DEBUG", "") // ambient debug would dirty stderr
	extract := writeScript(t, dir, "fakextract", `cat "$1"`)
	writeFile(t, dir, "good.docx", "stable output\n")
	suitePath := writeFile(t, dir, "checks.yaml", fmt.Sprintf(`
command: %s
cases:
  - input: good.docx
    digest: %s
`, extract, md5Hex("stable output\n")))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--suite", suitePath, "--format", "llm"}, &stdout, &stderr)

	if code != 0 {
		t.Errorf("expected exit code 0, got %d; stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "SCOPE: PASS 1/1") {
		t.Errorf("missing scope line; got:\n%s", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("expected silent stderr on full pass; got:\n%s", stderr.String())
	}
}

// A command failure counts as one failure unit and never stops later cases.
func TestRun_CommandErrorDoesNotStopTheRun(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	broken := writeScript(t, dir, "brokextract", `echo "cannot extract" >&2; exit 2`)
	writeFile(t, dir, "bad.pdf", "irrelevant")
	writeFile(t, dir, "good.docx", "still checked\n")
	good := writeScript(t, dir, "fakextract", `cat "$1"`)
	suitePath := writeFile(t, dir, "checks.yaml", fmt.Sprintf(`
command: %s
cases:
  - input: bad.pdf
    digest: %s
`, broken, strings.Repeat("0", 32)))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--suite", suitePath, "--format", "llm"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "cannot extract") {
		t.Errorf("expected tool stderr in diagnostic; got:\n%s", stderr.String())
	}

	// Same run with a second, healthy case appended: both must execute.
	suitePath = writeFile(t, dir, "checks2.yaml", fmt.Sprintf(`
command: %s
cases:
  - input: bad.pdf
    digest: %s
  - name: healthy
    input: good.docx
    digest: %s
`, broken, strings.Repeat("0", 32), md5Hex("still checked\n")))

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"--suite", suitePath, "--format", "llm", "--command", good}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d; stdout:\n%s", code, stdout.String())
	}
	if !strings.Contains(stdout.String(), "PASS healthy") {
		t.Errorf("later case did not run after failure; got:\n%s", stdout.String())
	}
}

func TestRun_TwoFailuresMeansExitCodeTwo(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	extract := writeScript(t, dir, "fakextract", `cat "$1"`)
	writeFile(t, dir, "a.docx", "aaa\n")
	writeFile(t, dir, "b.docx", "bbb\n")
	suitePath := writeFile(t, dir, "checks.yaml", fmt.Sprintf(`
command: %s
cases:
  - input: a.docx
    digest: %s
  - input: b.docx
    digest: %s
`, extract, strings.Repeat("1", 32), strings.Repeat("2", 32)))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--suite", suitePath, "--format", "llm"}, &stdout, &stderr)
	if code != 2 {
		t.Errorf("exit code must equal the failure count: expected 2, got %d", code)
	}
}

func TestRun_JSONFormat(t *testing.T) {
	suitePath := harness(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--suite", suitePath, "--format", "json"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}

	var decoded struct {
		Failures int `json:"failures"`
		Report   struct {
			Results []struct {
				Status string `json:"status"`
			} `json:"results"`
		} `json:"report"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
	}
	if decoded.Failures != 1 {
		t.Errorf("expected 1 failure in JSON, got %d", decoded.Failures)
	}
	if len(decoded.Report.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(decoded.Report.Results))
	}
}

func TestRun_ListPrintsCasesWithoutRunning(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// Command intentionally does not exist: --list must not invoke it.
	suitePath := writeFile(t, dir, "checks.yaml", fmt.Sprintf(`
command: xtcheck-no-such-command
cases:
  - input: good.docx
    digest: %s
`, md5Hex("anything")))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--suite", suitePath, "--list"}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "good.docx") {
		t.Errorf("missing case in listing; got:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), md5Hex("anything")) {
		t.Errorf("missing digest in listing; got:\n%s", stdout.String())
	}
}

func TestRun_ListPipedOutputIsPlain(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	suitePath := writeFile(t, dir, "checks.yaml", fmt.Sprintf(`
command: fakextract
cases:
  - input: good.docx
    digest: %s
`, md5Hex("anything")))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--suite", suitePath, "--list"}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	out := stdout.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("piped listing must carry no escape sequences; got:\n%q", out)
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.HasPrefix(line, "- ") {
			t.Errorf("piped listing uses the plain bullet; got line %q", line)
		}
	}
}

func TestRun_DebugChatterGoesToStderr(t *testing.T) {
	suitePath := harness(t)
	t.Setenv("XTCHECK_DEBUG", "1")

	var stdout, stderr bytes.Buffer
	run([]string{"--suite", suitePath, "--format", "llm"}, &stdout, &stderr)

	diag := stderr.String()
	if !strings.Contains(diag, "[DEBUG Load]") {
		t.Errorf("missing config debug chatter on stderr; got:\n%s", diag)
	}
	if !strings.Contains(diag, "[DEBUG run]") {
		t.Errorf("missing run debug chatter on stderr; got:\n%s", diag)
	}
	if strings.Contains(stdout.String(), "[DEBUG") {
		t.Errorf("debug chatter leaked to stdout:\n%s", stdout.String())
	}
}

func TestRun_MalformedConfigWarnsOnGivenStderr(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".xtcheck.yaml", "theme: [not\n")
	suitePath := harnessSuite(t, dir)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--suite", suitePath, "--format", "llm"}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("malformed config must not abort the run: got exit %d", code)
	}
	if !strings.Contains(stderr.String(), "malformed config") {
		t.Errorf("warning must land on the run's stderr stream; got:\n%s", stderr.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cases := []struct {
		name string
		args []string
	}{
		{"missing suite file", []string{"--suite", filepath.Join(dir, "absent.yaml")}},
		{"unknown flag", []string{"--bogus"}},
		{"unknown hash", append([]string{"--hash", "crc32", "--suite"}, harnessSuite(t, dir))},
		{"unknown format", append([]string{"--format", "xml", "--suite"}, harnessSuite(t, dir))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tc.args, &stdout, &stderr); code != 2 {
				t.Errorf("expected exit code 2, got %d", code)
			}
		})
	}
}

// harnessSuite writes a minimal valid suite and returns its path.
func harnessSuite(t *testing.T, dir string) string {
	t.Helper()
	extract := writeScript(t, dir, "fakextract", `cat "$1"`)
	writeFile(t, dir, "good.docx", "ok\n")
	return writeFile(t, dir, "minimal.yaml", fmt.Sprintf(`
command: %s
cases:
  - input: good.docx
    digest: %s
`, extract, md5Hex("ok\n")))
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--version"}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "xtcheck ") {
		t.Errorf("unexpected version output: %q", stdout.String())
	}
}

// --- xtcheck pin ---

func TestPin_WritesRefreshedDigestsToStdoutOnly(t *testing.T) {
	suitePath := harness(t)
	before, err := os.ReadFile(suitePath)
	if err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"pin", "--suite", suitePath}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0, got %d; stderr:\n%s", code, stderr.String())
	}

	refreshed := stdout.String()
	want := md5Hex("i love powerpoint\n")
	if !strings.Contains(refreshed, want) {
		t.Errorf("refreshed suite missing observed digest %s; got:\n%s", want, refreshed)
	}
	if strings.Contains(refreshed, strings.Repeat("0", 32)) {
		t.Errorf("stale digest survived pinning; got:\n%s", refreshed)
	}

	after, err := os.ReadFile(suitePath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("pin must never modify the suite file on disk")
	}
}

func TestPin_KeepsPinnedDigestWhenCommandErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	broken := writeScript(t, dir, "brokextract", `exit 1`)
	writeFile(t, dir, "bad.pdf", "x")
	pinned := strings.Repeat("a", 32)
	suitePath := writeFile(t, dir, "checks.yaml", fmt.Sprintf(`
command: %s
cases:
  - input: bad.pdf
    digest: %s
`, broken, pinned))

	var stdout, stderr bytes.Buffer
	code := run([]string{"pin", "--suite", suitePath}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1 (one errored case), got %d", code)
	}
	if !strings.Contains(stdout.String(), pinned) {
		t.Errorf("errored case must keep its pinned digest; got:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "keeping pinned digest") {
		t.Errorf("missing warning on stderr; got:\n%s", stderr.String())
	}
}
